package valuation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/pkg/metrics"
)

// HoldingStore provides read access to a portfolio's holding lots
type HoldingStore interface {
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Holding, error)
}

// PriceSource supplies current quotes for a batch of coin ids. The
// returned map may be partial; absent coins are not an error.
type PriceSource interface {
	GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error)
}

// Service is the portfolio valuation engine. It combines holding lots
// with live quotes into invested cost, current value, unrealized
// profit/loss and per-coin allocation.
type Service struct {
	holdings HoldingStore
	prices   PriceSource
	logger   *zap.Logger
}

func NewService(holdings HoldingStore, prices PriceSource, logger *zap.Logger) *Service {
	return &Service{
		holdings: holdings,
		prices:   prices,
		logger:   logger,
	}
}

var oneHundred = decimal.NewFromInt(100)

// ComputeMetrics produces the full valuation snapshot for a portfolio.
// A portfolio with no holdings yields a zero-valued snapshot. A price
// feed outage degrades affected coins to price 0 instead of failing
// the whole computation; only a storage read error is fatal.
func (s *Service) ComputeMetrics(ctx context.Context, portfolioID uuid.UUID) (*entities.PortfolioMetrics, error) {
	holdings, err := s.holdings.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	metrics.ValuationsTotal.Inc()

	result := &entities.PortfolioMetrics{
		Holdings:   []*entities.HoldingMetrics{},
		Allocation: []entities.AllocationEntry{},
	}
	if len(holdings) == 0 {
		return result, nil
	}

	quotes := s.fetchQuotes(ctx, holdings)

	allocationInput := make([]entities.AllocationEntry, 0, len(holdings))
	for _, h := range holdings {
		quote := quotes[h.CoinID]

		invested := h.Quantity.Mul(h.BuyPrice)
		value := h.Quantity.Mul(quote.Price)
		lotPL := value.Sub(invested)

		lotPLPercent := decimal.Zero
		if invested.IsPositive() {
			lotPLPercent = lotPL.Div(invested).Mul(oneHundred)
		}

		result.Holdings = append(result.Holdings, &entities.HoldingMetrics{
			ID:                   h.ID,
			CoinID:               h.CoinID,
			Symbol:               h.Symbol,
			Name:                 h.Name,
			Quantity:             h.Quantity,
			BuyPrice:             h.BuyPrice,
			BuyDate:              h.BuyDate,
			CurrentPrice:         quote.Price,
			PriceChange24h:       quote.Change24h,
			InvestedAmount:       invested,
			CurrentValue:         value,
			ProfitLoss:           lotPL,
			ProfitLossPercentage: lotPLPercent,
		})

		result.TotalInvested = result.TotalInvested.Add(invested)
		result.CurrentValue = result.CurrentValue.Add(value)

		allocationInput = append(allocationInput, entities.AllocationEntry{
			CoinID: h.CoinID,
			Symbol: h.Symbol,
			Name:   h.Name,
			Value:  value,
		})
	}

	result.ProfitLoss = result.CurrentValue.Sub(result.TotalInvested)
	if result.TotalInvested.IsPositive() {
		result.ProfitLossPercentage = result.ProfitLoss.Div(result.TotalInvested).Mul(oneHundred)
	}

	result.Allocation = AggregateAllocation(allocationInput)

	return result, nil
}

// ComputeSummary aggregates invested cost and current value across
// several portfolios into one top-line figure.
func (s *Service) ComputeSummary(ctx context.Context, portfolioIDs []uuid.UUID) (*entities.PortfolioSummary, error) {
	summary := &entities.PortfolioSummary{}

	for _, id := range portfolioIDs {
		m, err := s.ComputeMetrics(ctx, id)
		if err != nil {
			return nil, err
		}
		summary.TotalInvested = summary.TotalInvested.Add(m.TotalInvested)
		summary.CurrentValue = summary.CurrentValue.Add(m.CurrentValue)
	}

	summary.ProfitLoss = summary.CurrentValue.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.ProfitLossPercentage = summary.ProfitLoss.Div(summary.TotalInvested).Mul(oneHundred)
	}
	return summary, nil
}

// fetchQuotes batches one price feed call for the distinct coins across
// all lots. On feed failure every coin degrades to a zero quote.
func (s *Service) fetchQuotes(ctx context.Context, holdings []*entities.Holding) map[string]entities.Quote {
	seen := make(map[string]struct{}, len(holdings))
	coinIDs := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.CoinID]; ok {
			continue
		}
		seen[h.CoinID] = struct{}{}
		coinIDs = append(coinIDs, h.CoinID)
	}

	quotes, err := s.prices.GetQuotes(ctx, coinIDs)
	if err != nil {
		s.logger.Warn("Price feed unavailable, valuing holdings at zero",
			zap.Int("coins", len(coinIDs)),
			zap.Error(err))
		return map[string]entities.Quote{}
	}
	return quotes
}
