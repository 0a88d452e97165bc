package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/infrastructure/cache"
)

// MockRateSource is a mock implementation of RateSource
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) GetBTCPrices(ctx context.Context, vsCurrencies []string) (map[string]float64, error) {
	args := m.Called(ctx, vsCurrencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// MockRateCache is a mock implementation of RateCache
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockRateCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func newCurrencyService() (*Service, *MockRateSource, *MockRateCache) {
	rates := new(MockRateSource)
	rateCache := new(MockRateCache)
	return NewService(rates, rateCache, 10*time.Minute, zap.NewNop()), rates, rateCache
}

func TestExchangeRates_DerivedFromBTCCrossPrices(t *testing.T) {
	service, rates, rateCache := newCurrencyService()

	rateCache.On("GetJSON", mock.Anything, "currency:rates", mock.Anything).Return(cache.ErrCacheMiss)
	rateCache.On("SetJSON", mock.Anything, "currency:rates", mock.Anything, 10*time.Minute).Return(nil)
	rates.On("GetBTCPrices", mock.Anything, supportedCodes).Return(map[string]float64{
		"usd": 50000,
		"eur": 45000,
		"jpy": 7500000,
	}, nil)

	result, err := service.ExchangeRates(context.Background())

	require.NoError(t, err)
	assert.True(t, result["USD"].Equal(decimal.NewFromInt(1)))
	assert.True(t, result["EUR"].Equal(decimal.NewFromFloat(0.9)), "eur = %s", result["EUR"])
	assert.True(t, result["JPY"].Equal(decimal.NewFromInt(150)))
	rateCache.AssertExpectations(t)
}

func TestExchangeRates_ServesFromCache(t *testing.T) {
	service, rates, rateCache := newCurrencyService()

	rateCache.On("GetJSON", mock.Anything, "currency:rates", mock.Anything).Return(nil)

	_, err := service.ExchangeRates(context.Background())

	require.NoError(t, err)
	rates.AssertNotCalled(t, "GetBTCPrices")
}

func TestExchangeRates_MissingUSDAnchor(t *testing.T) {
	service, rates, rateCache := newCurrencyService()

	rateCache.On("GetJSON", mock.Anything, mock.Anything, mock.Anything).Return(cache.ErrCacheMiss)
	rates.On("GetBTCPrices", mock.Anything, mock.Anything).Return(map[string]float64{
		"eur": 45000,
	}, nil)

	_, err := service.ExchangeRates(context.Background())

	require.Error(t, err)
}

func TestConvert_FeedOutageFallsBackToUSD(t *testing.T) {
	service, rates, rateCache := newCurrencyService()

	rateCache.On("GetJSON", mock.Anything, mock.Anything, mock.Anything).Return(cache.ErrCacheMiss)
	rates.On("GetBTCPrices", mock.Anything, mock.Anything).Return(nil, errors.New("feed down"))

	amount := decimal.NewFromInt(100)
	converted := service.Convert(context.Background(), amount, "eur")

	assert.True(t, converted.Equal(amount))
}

func TestConvert_AppliesRate(t *testing.T) {
	service, rates, rateCache := newCurrencyService()

	rateCache.On("GetJSON", mock.Anything, mock.Anything, mock.Anything).Return(cache.ErrCacheMiss)
	rateCache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	rates.On("GetBTCPrices", mock.Anything, mock.Anything).Return(map[string]float64{
		"usd": 50000,
		"eur": 45000,
	}, nil)

	converted := service.Convert(context.Background(), decimal.NewFromInt(100), "eur")

	assert.True(t, converted.Equal(decimal.NewFromInt(90)), "converted = %s", converted)
}

func TestIsSupported(t *testing.T) {
	service, _, _ := newCurrencyService()

	assert.True(t, service.IsSupported("usd"))
	assert.True(t, service.IsSupported("EUR"))
	assert.False(t, service.IsSupported("xyz"))
}

func TestSupportedCurrencies_CarrySymbols(t *testing.T) {
	service, _, _ := newCurrencyService()

	infos := service.SupportedCurrencies()
	require.Len(t, infos, len(supportedCodes))

	symbols := make(map[string]string, len(infos))
	for _, info := range infos {
		symbols[info.Code] = info.Symbol
	}
	assert.Equal(t, "$", symbols["USD"])
	assert.Equal(t, "€", symbols["EUR"])
	assert.Equal(t, "£", symbols["GBP"])
}

func TestFormat(t *testing.T) {
	service, _, _ := newCurrencyService()

	assert.Equal(t, "$1,234.50", service.Format(decimal.NewFromFloat(1234.5), "usd"))
	// JPY has no minor units
	assert.Equal(t, "¥1,235", service.Format(decimal.NewFromFloat(1234.6), "jpy"))
	// Unknown codes fall back to USD
	assert.Equal(t, "$10.00", service.Format(decimal.NewFromInt(10), "xyz"))
}
