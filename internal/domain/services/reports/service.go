package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// PortfolioStore resolves portfolios for ownership checks
type PortfolioStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Portfolio, error)
}

// TransactionLog reads the full ledger of a portfolio
type TransactionLog interface {
	ListAllByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Transaction, error)
}

// ValuationEngine produces the live metrics snapshot
type ValuationEngine interface {
	ComputeMetrics(ctx context.Context, portfolioID uuid.UUID) (*entities.PortfolioMetrics, error)
}

// Summary is the report's top-line figures. Total P&L adds the profit
// locked in by past sells to the paper profit on lots still held.
type Summary struct {
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	CurrentValue      decimal.Decimal `json:"currentValue"`
	UnrealizedPL      decimal.Decimal `json:"unrealizedPL"`
	RealizedPL        decimal.Decimal `json:"realizedPL"`
	TotalPL           decimal.Decimal `json:"totalPL"`
	TotalPLPercent    decimal.Decimal `json:"totalPLPercent"`
	HoldingsCount     int             `json:"holdingsCount"`
	TransactionsCount int             `json:"transactionsCount"`
}

// Report is the full portfolio report payload
type Report struct {
	Portfolio    *entities.Portfolio        `json:"portfolio"`
	Summary      Summary                    `json:"summary"`
	Holdings     []*entities.HoldingMetrics `json:"holdings"`
	Transactions []*entities.Transaction    `json:"transactions"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// Service builds portfolio reports and renders them as CSV or HTML
type Service struct {
	portfolios   PortfolioStore
	transactions TransactionLog
	valuation    ValuationEngine
	logger       *zap.Logger
}

func NewService(portfolios PortfolioStore, transactions TransactionLog, valuation ValuationEngine, logger *zap.Logger) *Service {
	return &Service{
		portfolios:   portfolios,
		transactions: transactions,
		valuation:    valuation,
		logger:       logger,
	}
}

// Generate assembles the report for an owned portfolio
func (s *Service) Generate(ctx context.Context, userID, portfolioID uuid.UUID) (*Report, error) {
	portfolio, err := s.portfolios.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.UserID != userID {
		return nil, apperrors.NotFound("portfolio")
	}

	metrics, err := s.valuation.ComputeMetrics(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactions.ListAllByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	realizedPL := decimal.Zero
	for _, tx := range transactions {
		if tx.Type == entities.TransactionTypeSell {
			realizedPL = realizedPL.Add(tx.RealizedPL)
		}
	}

	unrealizedPL := metrics.CurrentValue.Sub(metrics.TotalInvested)
	totalPL := realizedPL.Add(unrealizedPL)

	totalPLPercent := decimal.Zero
	if metrics.TotalInvested.IsPositive() {
		totalPLPercent = totalPL.Div(metrics.TotalInvested).Mul(decimal.NewFromInt(100))
	}

	s.logger.Debug("Report generated",
		zap.String("portfolio_id", portfolioID.String()),
		zap.Int("holdings", len(metrics.Holdings)),
		zap.Int("transactions", len(transactions)))

	return &Report{
		Portfolio: portfolio,
		Summary: Summary{
			TotalInvested:     metrics.TotalInvested,
			CurrentValue:      metrics.CurrentValue,
			UnrealizedPL:      unrealizedPL,
			RealizedPL:        realizedPL,
			TotalPL:           totalPL,
			TotalPLPercent:    totalPLPercent,
			HoldingsCount:     len(metrics.Holdings),
			TransactionsCount: len(transactions),
		},
		Holdings:     metrics.Holdings,
		Transactions: transactions,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}
