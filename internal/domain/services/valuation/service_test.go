package valuation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
)

// MockHoldingStore is a mock implementation of HoldingStore
type MockHoldingStore struct {
	mock.Mock
}

func (m *MockHoldingStore) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Holding, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Holding), args.Error(1)
}

// MockPriceSource is a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error) {
	args := m.Called(ctx, coinIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entities.Quote), args.Error(1)
}

func newHolding(portfolioID uuid.UUID, coinID, symbol string, quantity, buyPrice float64) *entities.Holding {
	return &entities.Holding{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		CoinID:      coinID,
		Symbol:      symbol,
		Name:        coinID,
		Quantity:    decimal.NewFromFloat(quantity),
		BuyPrice:    decimal.NewFromFloat(buyPrice),
		BuyDate:     time.Now().UTC(),
	}
}

func TestComputeMetrics_EmptyPortfolio(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).Return([]*entities.Holding{}, nil)

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.NoError(t, err)
	assert.True(t, result.TotalInvested.IsZero())
	assert.True(t, result.CurrentValue.IsZero())
	assert.True(t, result.ProfitLoss.IsZero())
	assert.True(t, result.ProfitLossPercentage.IsZero())
	assert.Empty(t, result.Holdings)
	assert.Empty(t, result.Allocation)
	prices.AssertNotCalled(t, "GetQuotes")
}

func TestComputeMetrics_PerLotMath(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	lot := newHolding(portfolioID, "bitcoin", "BTC", 2, 30000)
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).Return([]*entities.Holding{lot}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(45000), Change24h: decimal.NewFromFloat(1.5)},
	}, nil)

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.NoError(t, err)
	require.Len(t, result.Holdings, 1)

	hm := result.Holdings[0]
	assert.True(t, hm.InvestedAmount.Equal(decimal.NewFromInt(60000)), "invested = %s", hm.InvestedAmount)
	assert.True(t, hm.CurrentValue.Equal(decimal.NewFromInt(90000)), "value = %s", hm.CurrentValue)
	assert.True(t, hm.ProfitLoss.Equal(decimal.NewFromInt(30000)), "pl = %s", hm.ProfitLoss)
	assert.True(t, hm.ProfitLossPercentage.Equal(decimal.NewFromInt(50)), "pl%% = %s", hm.ProfitLossPercentage)

	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(60000)))
	assert.True(t, result.CurrentValue.Equal(decimal.NewFromInt(90000)))
	assert.True(t, result.ProfitLoss.Equal(decimal.NewFromInt(30000)))
	assert.True(t, result.ProfitLossPercentage.Equal(decimal.NewFromInt(50)))
}

func TestComputeMetrics_MissingQuoteValuesAtZero(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	known := newHolding(portfolioID, "bitcoin", "BTC", 1, 20000)
	unknown := newHolding(portfolioID, "obscurecoin", "OBS", 100, 5)
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).
		Return([]*entities.Holding{known, unknown}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin", "obscurecoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(25000)},
	}, nil)

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.NoError(t, err)
	require.Len(t, result.Holdings, 2)

	// The unpriced lot keeps its invested cost but values at zero
	obs := result.Holdings[1]
	assert.True(t, obs.CurrentPrice.IsZero())
	assert.True(t, obs.InvestedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, obs.CurrentValue.IsZero())
	assert.True(t, obs.ProfitLoss.Equal(decimal.NewFromInt(-500)))

	assert.True(t, result.CurrentValue.Equal(decimal.NewFromInt(25000)))
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(20500)))
}

func TestComputeMetrics_FeedOutageDegradesToZero(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	lot := newHolding(portfolioID, "ethereum", "ETH", 10, 2000)
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).Return([]*entities.Holding{lot}, nil)
	prices.On("GetQuotes", mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.NoError(t, err)
	assert.True(t, result.TotalInvested.Equal(decimal.NewFromInt(20000)))
	assert.True(t, result.CurrentValue.IsZero())
	assert.True(t, result.ProfitLoss.Equal(decimal.NewFromInt(-20000)))
}

func TestComputeMetrics_StorageErrorIsFatal(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).Return(nil, errors.New("db gone"))

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestComputeMetrics_DeduplicatesQuoteRequest(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	portfolioID := uuid.New()
	lotA := newHolding(portfolioID, "bitcoin", "BTC", 1, 20000)
	lotB := newHolding(portfolioID, "bitcoin", "BTC", 0.5, 40000)
	holdings.On("ListByPortfolio", mock.Anything, portfolioID).
		Return([]*entities.Holding{lotA, lotB}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(30000)},
	}, nil)

	result, err := service.ComputeMetrics(context.Background(), portfolioID)

	require.NoError(t, err)
	prices.AssertExpectations(t)
	// 1*30000 + 0.5*30000
	assert.True(t, result.CurrentValue.Equal(decimal.NewFromInt(45000)))
}

func TestComputeSummary_AggregatesPortfolios(t *testing.T) {
	holdings := new(MockHoldingStore)
	prices := new(MockPriceSource)
	service := NewService(holdings, prices, zap.NewNop())

	firstID := uuid.New()
	secondID := uuid.New()
	holdings.On("ListByPortfolio", mock.Anything, firstID).
		Return([]*entities.Holding{newHolding(firstID, "bitcoin", "BTC", 1, 10000)}, nil)
	holdings.On("ListByPortfolio", mock.Anything, secondID).
		Return([]*entities.Holding{newHolding(secondID, "ethereum", "ETH", 5, 1000)}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(20000)},
	}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"ethereum"}).Return(map[string]entities.Quote{
		"ethereum": {Price: decimal.NewFromInt(2000)},
	}, nil)

	summary, err := service.ComputeSummary(context.Background(), []uuid.UUID{firstID, secondID})

	require.NoError(t, err)
	assert.True(t, summary.TotalInvested.Equal(decimal.NewFromInt(15000)))
	assert.True(t, summary.CurrentValue.Equal(decimal.NewFromInt(30000)))
	assert.True(t, summary.ProfitLoss.Equal(decimal.NewFromInt(15000)))
	assert.True(t, summary.ProfitLossPercentage.Equal(decimal.NewFromInt(100)))
}
