package portfolio

import (
	"context"
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
	"github.com/coinfolio/coinfolio_service/pkg/pagination"
)

// MockPortfolioStore is a mock implementation of PortfolioStore
type MockPortfolioStore struct {
	mock.Mock
}

func (m *MockPortfolioStore) Create(ctx context.Context, portfolio *entities.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Portfolio), args.Error(1)
}

func (m *MockPortfolioStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Portfolio), args.Error(1)
}

func (m *MockPortfolioStore) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Portfolio), args.Error(1)
}

func (m *MockPortfolioStore) Update(ctx context.Context, portfolio *entities.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHoldingStore is a mock implementation of HoldingStore
type MockHoldingStore struct {
	mock.Mock
}

func (m *MockHoldingStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Holding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Holding), args.Error(1)
}

func (m *MockHoldingStore) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Holding, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Holding), args.Error(1)
}

func (m *MockHoldingStore) Update(ctx context.Context, holding *entities.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionLog is a mock implementation of TransactionLog
type MockTransactionLog struct {
	mock.Mock
}

func (m *MockTransactionLog) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, params pagination.Params) ([]*entities.Transaction, int, error) {
	args := m.Called(ctx, portfolioID, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Transaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionLog) Summary(ctx context.Context, portfolioID uuid.UUID) (*entities.TransactionSummary, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransactionSummary), args.Error(1)
}

func newPortfolioService() (*Service, *MockPortfolioStore, *MockHoldingStore, *MockTransactionLog) {
	portfolios := new(MockPortfolioStore)
	holdings := new(MockHoldingStore)
	transactions := new(MockTransactionLog)
	return NewService(portfolios, holdings, transactions, zap.NewNop()), portfolios, holdings, transactions
}

func owned(userID uuid.UUID) *entities.Portfolio {
	return &entities.Portfolio{ID: uuid.New(), UserID: userID, Name: "Main"}
}

func TestCreate_RequiresName(t *testing.T) {
	service, portfolios, _, _ := newPortfolioService()

	_, err := service.Create(context.Background(), uuid.New(), "", "")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	portfolios.AssertNotCalled(t, "Create")
}

func TestCreateDefault(t *testing.T) {
	service, portfolios, _, _ := newPortfolioService()

	portfolios.On("Create", mock.Anything, mock.AnythingOfType("*entities.Portfolio")).Return(nil)

	portfolio, err := service.CreateDefault(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.True(t, portfolio.IsDefault)
	assert.Equal(t, "My Portfolio", portfolio.Name)
}

func TestGet_ForeignPortfolioNotFound(t *testing.T) {
	service, portfolios, _, _ := newPortfolioService()

	other := owned(uuid.New())
	portfolios.On("GetByID", mock.Anything, other.ID).Return(other, nil)

	_, err := service.Get(context.Background(), uuid.New(), other.ID)

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestUpdateHolding_PartialUpdateKeepsFields(t *testing.T) {
	service, portfolios, holdings, _ := newPortfolioService()

	userID := uuid.New()
	portfolio := owned(userID)
	portfolios.On("GetByID", mock.Anything, portfolio.ID).Return(portfolio, nil)

	holding := &entities.Holding{
		ID:          uuid.New(),
		PortfolioID: portfolio.ID,
		CoinID:      "bitcoin",
		Quantity:    decimal.NewFromInt(2),
		BuyPrice:    decimal.NewFromInt(100),
		Notes:       "original",
	}
	holdings.On("GetByID", mock.Anything, holding.ID).Return(holding, nil)
	holdings.On("Update", mock.Anything, mock.AnythingOfType("*entities.Holding")).Return(nil)

	newQty := decimal.NewFromInt(5)
	updated, err := service.UpdateHolding(context.Background(), userID, portfolio.ID, holding.ID, HoldingUpdate{
		Quantity: &newQty,
	})

	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, updated.BuyPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "original", updated.Notes)
}

func TestUpdateHolding_RejectsNonPositiveQuantity(t *testing.T) {
	service, portfolios, holdings, _ := newPortfolioService()

	userID := uuid.New()
	portfolio := owned(userID)
	portfolios.On("GetByID", mock.Anything, portfolio.ID).Return(portfolio, nil)

	holding := &entities.Holding{ID: uuid.New(), PortfolioID: portfolio.ID}
	holdings.On("GetByID", mock.Anything, holding.ID).Return(holding, nil)

	zero := decimal.Zero
	_, err := service.UpdateHolding(context.Background(), userID, portfolio.ID, holding.ID, HoldingUpdate{
		Quantity: &zero,
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	holdings.AssertNotCalled(t, "Update")
}

func TestUpdateHolding_CrossPortfolioNotFound(t *testing.T) {
	service, portfolios, holdings, _ := newPortfolioService()

	userID := uuid.New()
	portfolio := owned(userID)
	portfolios.On("GetByID", mock.Anything, portfolio.ID).Return(portfolio, nil)

	foreign := &entities.Holding{ID: uuid.New(), PortfolioID: uuid.New()}
	holdings.On("GetByID", mock.Anything, foreign.ID).Return(foreign, nil)

	_, err := service.UpdateHolding(context.Background(), userID, portfolio.ID, foreign.ID, HoldingUpdate{})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestHistory_NormalizesPaginationAndSummarizes(t *testing.T) {
	service, portfolios, _, transactions := newPortfolioService()

	userID := uuid.New()
	portfolio := owned(userID)
	portfolios.On("GetByID", mock.Anything, portfolio.ID).Return(portfolio, nil)

	expectedParams := pagination.Params{Page: 1, PageSize: 20}
	ledger := []*entities.Transaction{
		{Type: entities.TransactionTypeSell, RealizedPL: decimal.NewFromInt(200), TransactionDate: time.Now()},
	}
	transactions.On("ListByPortfolio", mock.Anything, portfolio.ID, expectedParams).Return(ledger, 45, nil)
	transactions.On("Summary", mock.Anything, portfolio.ID).Return(&entities.TransactionSummary{
		TotalTransactions: 45,
		SellCount:         12,
		TotalRealizedPL:   decimal.NewFromInt(900),
	}, nil)

	history, pageInfo, err := service.History(context.Background(), userID, portfolio.ID, pagination.Params{})

	require.NoError(t, err)
	assert.Len(t, history.Transactions, 1)
	assert.Equal(t, 12, history.Summary.SellCount)
	assert.Equal(t, 45, pageInfo.TotalRecords)
	assert.Equal(t, 3, pageInfo.TotalPages)
	assert.Equal(t, 1, pageInfo.CurrentPage)
}
