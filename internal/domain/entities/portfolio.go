package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio groups a user's holdings and transaction history
type Portfolio struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Holding is a single purchase lot of a coin. A lot exists only while its
// quantity is positive; selling the full quantity deletes it.
type Holding struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PortfolioID uuid.UUID       `json:"portfolio_id" db:"portfolio_id"`
	CoinID      string          `json:"coin_id" db:"coin_id"`
	Symbol      string          `json:"symbol" db:"symbol"`
	Name        string          `json:"name" db:"name"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	BuyPrice    decimal.Decimal `json:"buy_price" db:"buy_price"`
	BuyDate     time.Time       `json:"buy_date" db:"buy_date"`
	Notes       string          `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// InvestedAmount returns quantity x buy price for the lot
func (h *Holding) InvestedAmount() decimal.Decimal {
	return h.Quantity.Mul(h.BuyPrice)
}

// TransactionType enumerates ledgered trade event types
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Transaction is an immutable, append-only record of a trade event.
// Sell rows snapshot the lot's buy price and the realized profit/loss.
type Transaction struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PortfolioID     uuid.UUID       `json:"portfolio_id" db:"portfolio_id"`
	HoldingID       *uuid.UUID      `json:"holding_id,omitempty" db:"holding_id"`
	CoinID          string          `json:"coin_id" db:"coin_id"`
	Symbol          string          `json:"symbol" db:"symbol"`
	Name            string          `json:"name" db:"name"`
	Type            TransactionType `json:"type" db:"type"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	Price           decimal.Decimal `json:"price" db:"price"`
	TotalValue      decimal.Decimal `json:"total_value" db:"total_value"`
	RealizedPL      decimal.Decimal `json:"realized_pl" db:"realized_pl"`
	AvgBuyPrice     decimal.Decimal `json:"avg_buy_price" db:"avg_buy_price"`
	Fee             decimal.Decimal `json:"fee" db:"fee"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// TransactionSummary aggregates a portfolio's transaction history
type TransactionSummary struct {
	TotalTransactions int             `json:"totalTransactions"`
	SellCount         int             `json:"sellCount"`
	TotalRealizedPL   decimal.Decimal `json:"totalRealizedPL"`
}

// TransactionHistory is the transactions listing payload
type TransactionHistory struct {
	Transactions []*Transaction     `json:"transactions"`
	Summary      TransactionSummary `json:"summary"`
}
