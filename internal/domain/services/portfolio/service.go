package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
	"github.com/coinfolio/coinfolio_service/pkg/pagination"
)

// PortfolioStore persists portfolios
type PortfolioStore interface {
	Create(ctx context.Context, portfolio *entities.Portfolio) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Portfolio, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Portfolio, error)
	GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error)
	Update(ctx context.Context, portfolio *entities.Portfolio) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HoldingStore persists holding lots
type HoldingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Holding, error)
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Holding, error)
	Update(ctx context.Context, holding *entities.Holding) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionLog reads the append-only trade ledger
type TransactionLog interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, params pagination.Params) ([]*entities.Transaction, int, error)
	Summary(ctx context.Context, portfolioID uuid.UUID) (*entities.TransactionSummary, error)
}

// Service manages portfolios, their holding lots and trade history.
// Every operation checks the caller owns the portfolio it touches;
// a portfolio owned by someone else behaves as if it did not exist.
type Service struct {
	portfolios   PortfolioStore
	holdings     HoldingStore
	transactions TransactionLog
	logger       *zap.Logger
}

func NewService(portfolios PortfolioStore, holdings HoldingStore, transactions TransactionLog, logger *zap.Logger) *Service {
	return &Service{
		portfolios:   portfolios,
		holdings:     holdings,
		transactions: transactions,
		logger:       logger,
	}
}

// Create adds a new portfolio for the user
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name, description string) (*entities.Portfolio, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("portfolio name is required")
	}

	now := time.Now().UTC()
	portfolio := &entities.Portfolio{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		return nil, err
	}

	s.logger.Info("Portfolio created",
		zap.String("portfolio_id", portfolio.ID.String()),
		zap.String("user_id", userID.String()))
	return portfolio, nil
}

// CreateDefault provisions the starter portfolio a user gets at signup
func (s *Service) CreateDefault(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error) {
	now := time.Now().UTC()
	portfolio := &entities.Portfolio{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "My Portfolio",
		Description: "Default portfolio",
		IsDefault:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// List returns the user's portfolios, default first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.Portfolio, error) {
	return s.portfolios.ListByUser(ctx, userID)
}

// Get returns one portfolio after an ownership check
func (s *Service) Get(ctx context.Context, userID, portfolioID uuid.UUID) (*entities.Portfolio, error) {
	return s.resolveOwned(ctx, userID, portfolioID)
}

// Update renames a portfolio
func (s *Service) Update(ctx context.Context, userID, portfolioID uuid.UUID, name, description string) (*entities.Portfolio, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("portfolio name is required")
	}

	portfolio, err := s.resolveOwned(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	portfolio.Name = name
	portfolio.Description = description
	if err := s.portfolios.Update(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Delete removes a portfolio and everything in it
func (s *Service) Delete(ctx context.Context, userID, portfolioID uuid.UUID) error {
	if _, err := s.resolveOwned(ctx, userID, portfolioID); err != nil {
		return err
	}

	if err := s.portfolios.Delete(ctx, portfolioID); err != nil {
		return err
	}

	s.logger.Info("Portfolio deleted",
		zap.String("portfolio_id", portfolioID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// ListHoldings returns the lots in an owned portfolio
func (s *Service) ListHoldings(ctx context.Context, userID, portfolioID uuid.UUID) ([]*entities.Holding, error) {
	if _, err := s.resolveOwned(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return s.holdings.ListByPortfolio(ctx, portfolioID)
}

// HoldingUpdate carries the editable fields of a lot. Nil fields keep
// their current value.
type HoldingUpdate struct {
	Quantity *decimal.Decimal
	BuyPrice *decimal.Decimal
	BuyDate  *time.Time
	Notes    *string
}

// UpdateHolding edits a lot in an owned portfolio
func (s *Service) UpdateHolding(ctx context.Context, userID, portfolioID, holdingID uuid.UUID, update HoldingUpdate) (*entities.Holding, error) {
	if _, err := s.resolveOwned(ctx, userID, portfolioID); err != nil {
		return nil, err
	}

	holding, err := s.holdings.GetByID(ctx, holdingID)
	if err != nil {
		return nil, err
	}
	if holding.PortfolioID != portfolioID {
		return nil, apperrors.NotFound("holding")
	}

	if update.Quantity != nil {
		if !update.Quantity.IsPositive() {
			return nil, apperrors.InvalidInput("quantity must be positive")
		}
		holding.Quantity = *update.Quantity
	}
	if update.BuyPrice != nil {
		if update.BuyPrice.IsNegative() {
			return nil, apperrors.InvalidInput("buy price must not be negative")
		}
		holding.BuyPrice = *update.BuyPrice
	}
	if update.BuyDate != nil {
		holding.BuyDate = *update.BuyDate
	}
	if update.Notes != nil {
		holding.Notes = *update.Notes
	}

	if err := s.holdings.Update(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

// DeleteHolding removes a lot without recording a disposal
func (s *Service) DeleteHolding(ctx context.Context, userID, portfolioID, holdingID uuid.UUID) error {
	if _, err := s.resolveOwned(ctx, userID, portfolioID); err != nil {
		return err
	}

	holding, err := s.holdings.GetByID(ctx, holdingID)
	if err != nil {
		return err
	}
	if holding.PortfolioID != portfolioID {
		return apperrors.NotFound("holding")
	}

	return s.holdings.Delete(ctx, holdingID)
}

// History returns the portfolio's ledger page plus its running summary
func (s *Service) History(ctx context.Context, userID, portfolioID uuid.UUID, params pagination.Params) (*entities.TransactionHistory, *pagination.PageInfo, error) {
	if _, err := s.resolveOwned(ctx, userID, portfolioID); err != nil {
		return nil, nil, err
	}

	params.Validate()

	transactions, total, err := s.transactions.ListByPortfolio(ctx, portfolioID, params)
	if err != nil {
		return nil, nil, err
	}

	summary, err := s.transactions.Summary(ctx, portfolioID)
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.CreatePageInfo(params.Page, params.PageSize, total)
	return &entities.TransactionHistory{
		Transactions: transactions,
		Summary:      *summary,
	}, pageInfo, nil
}

func (s *Service) resolveOwned(ctx context.Context, userID, portfolioID uuid.UUID) (*entities.Portfolio, error) {
	portfolio, err := s.portfolios.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != userID {
		return nil, apperrors.NotFound("portfolio")
	}
	return portfolio, nil
}
