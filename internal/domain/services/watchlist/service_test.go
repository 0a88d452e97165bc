package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// MockWatchlistStore is a mock implementation of WatchlistStore
type MockWatchlistStore struct {
	mock.Mock
}

func (m *MockWatchlistStore) Add(ctx context.Context, item *entities.WatchlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWatchlistStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.WatchlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistStore) Remove(ctx context.Context, userID uuid.UUID, coinID string) error {
	args := m.Called(ctx, userID, coinID)
	return args.Error(0)
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

func TestAdd_UppercasesSymbol(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	store.On("Add", mock.Anything, mock.AnythingOfType("*entities.WatchlistItem")).Return(nil)

	item, err := service.Add(context.Background(), uuid.New(), "bitcoin", "btc", "Bitcoin")

	require.NoError(t, err)
	assert.Equal(t, "BTC", item.Symbol)
	assert.False(t, item.AddedAt.IsZero())
}

func TestAdd_RequiresCoinID(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	_, err := service.Add(context.Background(), uuid.New(), "   ", "btc", "Bitcoin")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	store.AssertNotCalled(t, "Add")
}

func TestAdd_DuplicateCoin(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	store.On("Add", mock.Anything, mock.Anything).
		Return(apperrors.DuplicateEntry("coin already in watchlist"))

	_, err := service.Add(context.Background(), uuid.New(), "bitcoin", "btc", "Bitcoin")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateEntry))
}

func TestList_DecoratesWithQuotes(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	userID := uuid.New()
	store.On("ListByUser", mock.Anything, userID).Return([]*entities.WatchlistItem{
		{ID: uuid.New(), UserID: userID, CoinID: "bitcoin", Symbol: "BTC"},
	}, nil)
	prices.On("GetQuotes", mock.Anything, []string{"bitcoin"}).Return(map[string]entities.Quote{
		"bitcoin": {
			Price:     decimal.NewFromInt(50000),
			Change24h: decimal.NewFromFloat(-2.5),
			MarketCap: decimal.NewFromInt(1000000),
		},
	}, nil)

	entries, err := service.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CurrentPrice.Equal(decimal.NewFromInt(50000)))
	assert.True(t, entries[0].PriceChange24h.Equal(decimal.NewFromFloat(-2.5)))
}

func TestList_FeedOutageYieldsZeroQuotes(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	userID := uuid.New()
	store.On("ListByUser", mock.Anything, userID).Return([]*entities.WatchlistItem{
		{ID: uuid.New(), UserID: userID, CoinID: "bitcoin", Symbol: "BTC"},
	}, nil)
	prices.On("GetQuotes", mock.Anything, mock.Anything).Return(nil, errors.New("feed down"))

	entries, err := service.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CurrentPrice.IsZero())
}

func TestList_Empty(t *testing.T) {
	store := new(MockWatchlistStore)
	prices := new(MockPriceSource)
	service := NewService(store, prices, zap.NewNop())

	userID := uuid.New()
	store.On("ListByUser", mock.Anything, userID).Return([]*entities.WatchlistItem{}, nil)

	entries, err := service.List(context.Background(), userID)

	require.NoError(t, err)
	assert.Empty(t, entries)
	prices.AssertNotCalled(t, "GetQuotes")
}
