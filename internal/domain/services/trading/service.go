package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
	"github.com/coinfolio/coinfolio_service/pkg/metrics"
)

// TradeStore runs the atomic trade write paths. SellWithLock must hold
// a row lock on the lot while decide runs and apply the decision in the
// same storage transaction.
type TradeStore interface {
	Buy(ctx context.Context, holding *entities.Holding, txRow *entities.Transaction) error
	SellWithLock(ctx context.Context, holdingID uuid.UUID, decide func(holding *entities.Holding) (*entities.SellDecision, error)) (*entities.SellDecision, error)
}

// PriceSource supplies current quotes for a batch of coin ids
type PriceSource interface {
	GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error)
}

const quoteTimeout = 5 * time.Second

// Service executes buys and disposals against holding lots
type Service struct {
	trades TradeStore
	prices PriceSource
	logger *zap.Logger
}

func NewService(trades TradeStore, prices PriceSource, logger *zap.Logger) *Service {
	return &Service{
		trades: trades,
		prices: prices,
		logger: logger,
	}
}

// BuyParams describe a new purchase lot
type BuyParams struct {
	PortfolioID uuid.UUID
	CoinID      string
	Symbol      string
	Name        string
	Quantity    decimal.Decimal
	BuyPrice    decimal.Decimal
	BuyDate     time.Time
	Notes       string
}

// Buy records a purchase: it creates the holding lot and appends a buy
// row to the ledger in one unit.
func (s *Service) Buy(ctx context.Context, params BuyParams) (*entities.Holding, error) {
	if !params.Quantity.IsPositive() {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}
	if params.BuyPrice.IsNegative() {
		return nil, apperrors.InvalidInput("buy price must not be negative")
	}
	if params.CoinID == "" {
		return nil, apperrors.InvalidInput("coin id is required")
	}

	now := time.Now().UTC()
	buyDate := params.BuyDate
	if buyDate.IsZero() {
		buyDate = now
	}

	holding := &entities.Holding{
		ID:          uuid.New(),
		PortfolioID: params.PortfolioID,
		CoinID:      params.CoinID,
		Symbol:      params.Symbol,
		Name:        params.Name,
		Quantity:    params.Quantity,
		BuyPrice:    params.BuyPrice,
		BuyDate:     buyDate,
		Notes:       params.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	holdingID := holding.ID
	txRow := &entities.Transaction{
		ID:              uuid.New(),
		PortfolioID:     params.PortfolioID,
		HoldingID:       &holdingID,
		CoinID:          params.CoinID,
		Symbol:          params.Symbol,
		Name:            params.Name,
		Type:            entities.TransactionTypeBuy,
		Quantity:        params.Quantity,
		Price:           params.BuyPrice,
		TotalValue:      params.Quantity.Mul(params.BuyPrice),
		TransactionDate: buyDate,
		CreatedAt:       now,
	}

	if err := s.trades.Buy(ctx, holding, txRow); err != nil {
		return nil, err
	}

	s.logger.Info("Holding purchased",
		zap.String("portfolio_id", params.PortfolioID.String()),
		zap.String("coin_id", params.CoinID),
		zap.String("quantity", params.Quantity.String()))

	return holding, nil
}

// Sell disposes of part or all of a holding lot. The lot is validated
// and mutated under a row lock, so two concurrent sells of the same lot
// can never dispose more than the lot holds. Validation failures reject
// before any write.
func (s *Service) Sell(ctx context.Context, portfolioID, holdingID uuid.UUID, quantity decimal.Decimal, explicitPrice *decimal.Decimal) (*entities.SellResult, error) {
	if !quantity.IsPositive() {
		metrics.SellsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	decision, err := s.trades.SellWithLock(ctx, holdingID, func(holding *entities.Holding) (*entities.SellDecision, error) {
		if holding.PortfolioID != portfolioID {
			return nil, apperrors.NotFound("holding")
		}
		if quantity.GreaterThan(holding.Quantity) {
			return nil, apperrors.InvalidInput(
				fmt.Sprintf("cannot sell %s, only %s available", quantity.String(), holding.Quantity.String()))
		}

		price := s.resolvePrice(ctx, holding, explicitPrice)

		costBasis := holding.BuyPrice.Mul(quantity)
		saleValue := price.Mul(quantity)
		realizedPL := saleValue.Sub(costBasis)
		remaining := holding.Quantity.Sub(quantity)

		now := time.Now().UTC()
		lotID := holding.ID
		return &entities.SellDecision{
			Transaction: &entities.Transaction{
				ID:              uuid.New(),
				PortfolioID:     holding.PortfolioID,
				HoldingID:       &lotID,
				CoinID:          holding.CoinID,
				Symbol:          holding.Symbol,
				Name:            holding.Name,
				Type:            entities.TransactionTypeSell,
				Quantity:        quantity,
				Price:           price,
				TotalValue:      saleValue,
				RealizedPL:      realizedPL,
				AvgBuyPrice:     holding.BuyPrice,
				TransactionDate: now,
				CreatedAt:       now,
			},
			RemainingQuantity: remaining,
		}, nil
	})
	if err != nil {
		metrics.SellsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	tx := decision.Transaction
	metrics.SellsTotal.WithLabelValues("completed").Inc()
	plFloat, _ := tx.RealizedPL.Float64()
	metrics.RealizedPLAmount.WithLabelValues(tx.CoinID).Observe(plFloat)

	message := fmt.Sprintf("Sold all %s %s", tx.Quantity.String(), tx.Symbol)
	remaining := decision.RemainingQuantity
	if remaining.IsPositive() {
		message = fmt.Sprintf("Sold %s %s, %s remaining", tx.Quantity.String(), tx.Symbol, remaining.String())
	} else {
		remaining = decimal.Zero
	}

	s.logger.Info("Holding sold",
		zap.String("portfolio_id", portfolioID.String()),
		zap.String("holding_id", holdingID.String()),
		zap.String("quantity", tx.Quantity.String()),
		zap.String("realized_pl", tx.RealizedPL.String()))

	return &entities.SellResult{
		Transaction:       tx,
		RemainingQuantity: remaining,
		RealizedPL:        tx.RealizedPL,
		Message:           message,
	}, nil
}

// resolvePrice picks the execution price: a positive explicit price
// wins, then the live quote, then the lot's own buy price when the
// feed is down. The sell always completes with a defined price.
func (s *Service) resolvePrice(ctx context.Context, holding *entities.Holding, explicitPrice *decimal.Decimal) decimal.Decimal {
	if explicitPrice != nil && explicitPrice.IsPositive() {
		return *explicitPrice
	}

	quoteCtx, cancel := context.WithTimeout(ctx, quoteTimeout)
	defer cancel()

	quotes, err := s.prices.GetQuotes(quoteCtx, []string{holding.CoinID})
	if err == nil {
		if quote, ok := quotes[holding.CoinID]; ok && quote.Price.IsPositive() {
			return quote.Price
		}
	} else {
		s.logger.Warn("Price feed unavailable for sell, using lot buy price",
			zap.String("coin_id", holding.CoinID),
			zap.Error(err))
	}

	return holding.BuyPrice
}
