package trading

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
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// MockTradeStore is a mock implementation of TradeStore. SellWithLock
// hands the configured lot to the decide callback the way the real
// repository hands over the locked row.
type MockTradeStore struct {
	mock.Mock
}

func (m *MockTradeStore) Buy(ctx context.Context, holding *entities.Holding, txRow *entities.Transaction) error {
	args := m.Called(ctx, holding, txRow)
	return args.Error(0)
}

func (m *MockTradeStore) SellWithLock(ctx context.Context, holdingID uuid.UUID, decide func(holding *entities.Holding) (*entities.SellDecision, error)) (*entities.SellDecision, error) {
	args := m.Called(ctx, holdingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return decide(args.Get(0).(*entities.Holding))
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

func lot(portfolioID uuid.UUID, quantity, buyPrice int64) *entities.Holding {
	return &entities.Holding{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		CoinID:      "bitcoin",
		Symbol:      "BTC",
		Name:        "Bitcoin",
		Quantity:    decimal.NewFromInt(quantity),
		BuyPrice:    decimal.NewFromInt(buyPrice),
		BuyDate:     time.Now().UTC(),
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestBuy_CreatesLotAndLedgerRow(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	trades.On("Buy", mock.Anything, mock.AnythingOfType("*entities.Holding"), mock.AnythingOfType("*entities.Transaction")).Return(nil)

	holding, err := service.Buy(context.Background(), BuyParams{
		PortfolioID: portfolioID,
		CoinID:      "bitcoin",
		Symbol:      "BTC",
		Name:        "Bitcoin",
		Quantity:    decimal.NewFromInt(2),
		BuyPrice:    decimal.NewFromInt(30000),
	})

	require.NoError(t, err)
	assert.Equal(t, portfolioID, holding.PortfolioID)
	assert.False(t, holding.BuyDate.IsZero())

	txRow := trades.Calls[0].Arguments.Get(2).(*entities.Transaction)
	assert.Equal(t, entities.TransactionTypeBuy, txRow.Type)
	assert.True(t, txRow.TotalValue.Equal(decimal.NewFromInt(60000)))
	require.NotNil(t, txRow.HoldingID)
	assert.Equal(t, holding.ID, *txRow.HoldingID)
}

func TestBuy_RejectsNonPositiveQuantity(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	_, err := service.Buy(context.Background(), BuyParams{
		PortfolioID: uuid.New(),
		CoinID:      "bitcoin",
		Quantity:    decimal.Zero,
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	trades.AssertNotCalled(t, "Buy")
}

func TestSell_PartialLeavesRemainder(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 10, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)

	result, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(4), ptr(decimal.NewFromInt(150)))

	require.NoError(t, err)
	assert.True(t, result.RealizedPL.Equal(decimal.NewFromInt(200)), "pl = %s", result.RealizedPL)
	assert.True(t, result.RemainingQuantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, result.Transaction.TotalValue.Equal(decimal.NewFromInt(600)))
	assert.True(t, result.Transaction.AvgBuyPrice.Equal(decimal.NewFromInt(100)))
	assert.Contains(t, result.Message, "6 remaining")
}

func TestSell_FullDisposal(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 3, 1000)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)

	result, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(3), ptr(decimal.NewFromInt(800)))

	require.NoError(t, err)
	assert.True(t, result.RemainingQuantity.IsZero())
	assert.True(t, result.RealizedPL.Equal(decimal.NewFromInt(-600)))
	assert.Contains(t, result.Message, "Sold all")
}

func TestSell_RejectsOversell(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 2, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)

	_, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(5), ptr(decimal.NewFromInt(100)))

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestSell_RejectsNonPositiveQuantityBeforeLock(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	_, err := service.Sell(context.Background(), uuid.New(), uuid.New(), decimal.Zero, nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	trades.AssertNotCalled(t, "SellWithLock")
}

func TestSell_ForeignPortfolioLooksLikeMissingLot(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	existing := lot(uuid.New(), 10, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)

	_, err := service.Sell(context.Background(), uuid.New(), existing.ID,
		decimal.NewFromInt(1), nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestSell_UsesLiveQuoteWhenNoExplicitPrice(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 10, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(120)},
	}, nil)

	result, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(2), nil)

	require.NoError(t, err)
	assert.True(t, result.Transaction.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, result.RealizedPL.Equal(decimal.NewFromInt(40)))
}

func TestSell_FallsBackToBuyPriceWhenFeedDown(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 10, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)
	prices.On("GetQuotes", mock.Anything, mock.Anything).Return(nil, errors.New("feed down"))

	result, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(2), nil)

	require.NoError(t, err)
	assert.True(t, result.Transaction.Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.RealizedPL.IsZero())
}

func TestSell_IgnoresNonPositiveExplicitPrice(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	portfolioID := uuid.New()
	existing := lot(portfolioID, 10, 100)
	trades.On("SellWithLock", mock.Anything, existing.ID).Return(existing, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {Price: decimal.NewFromInt(110)},
	}, nil)

	result, err := service.Sell(context.Background(), portfolioID, existing.ID,
		decimal.NewFromInt(1), ptr(decimal.Zero))

	require.NoError(t, err)
	assert.True(t, result.Transaction.Price.Equal(decimal.NewFromInt(110)))
}

func TestSell_MissingLot(t *testing.T) {
	trades := new(MockTradeStore)
	prices := new(MockPriceSource)
	service := NewService(trades, prices, zap.NewNop())

	holdingID := uuid.New()
	trades.On("SellWithLock", mock.Anything, holdingID).Return(nil, apperrors.NotFound("holding"))

	_, err := service.Sell(context.Background(), uuid.New(), holdingID,
		decimal.NewFromInt(1), nil)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}
