package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingMetrics is a holding decorated with live-price valuation figures
type HoldingMetrics struct {
	ID                   uuid.UUID       `json:"id"`
	CoinID               string          `json:"coin_id"`
	Symbol               string          `json:"symbol"`
	Name                 string          `json:"name"`
	Quantity             decimal.Decimal `json:"quantity"`
	BuyPrice             decimal.Decimal `json:"buy_price"`
	BuyDate              time.Time       `json:"buy_date"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	PriceChange24h       decimal.Decimal `json:"price_change_24h"`
	InvestedAmount       decimal.Decimal `json:"invested_amount"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
}

// AllocationEntry is one coin's share of a portfolio's current value
type AllocationEntry struct {
	CoinID     string          `json:"coin_id"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PortfolioMetrics is the full valuation snapshot for one portfolio
type PortfolioMetrics struct {
	TotalInvested        decimal.Decimal   `json:"totalInvested"`
	CurrentValue         decimal.Decimal   `json:"currentValue"`
	ProfitLoss           decimal.Decimal   `json:"profitLoss"`
	ProfitLossPercentage decimal.Decimal   `json:"profitLossPercentage"`
	Holdings             []*HoldingMetrics `json:"holdings"`
	Allocation           []AllocationEntry `json:"allocation"`
}

// PortfolioSummary aggregates value across several portfolios
type PortfolioSummary struct {
	TotalInvested        decimal.Decimal `json:"totalInvested"`
	CurrentValue         decimal.Decimal `json:"currentValue"`
	ProfitLoss           decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage decimal.Decimal `json:"profitLossPercentage"`
}

// PortfolioOverview is a portfolio together with its valuation snapshot
type PortfolioOverview struct {
	Portfolio *Portfolio        `json:"portfolio"`
	Metrics   *PortfolioMetrics `json:"metrics"`
}

// SellDecision is the computed outcome of a disposal against a locked
// lot: the ledger row to append and the quantity the lot has left.
// A remaining quantity of zero or less deletes the lot.
type SellDecision struct {
	Transaction       *Transaction
	RemainingQuantity decimal.Decimal
}

// SellResult is the outcome of disposing part or all of a holding lot
type SellResult struct {
	Transaction       *Transaction    `json:"transaction"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	RealizedPL        decimal.Decimal `json:"realizedPL"`
	Message           string          `json:"message"`
}
