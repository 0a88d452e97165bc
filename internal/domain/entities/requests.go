package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignupRequest is the registration payload
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest edits the caller's profile. Empty fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	DisplayCurrency string `json:"display_currency"`
}

// CreatePortfolioRequest creates or renames a portfolio
type CreatePortfolioRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddHoldingRequest records a purchase lot
type AddHoldingRequest struct {
	CoinID   string          `json:"coin_id" binding:"required"`
	Symbol   string          `json:"symbol" binding:"required"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	BuyDate  *time.Time      `json:"buy_date"`
	Notes    string          `json:"notes"`
}

// UpdateHoldingRequest edits a lot. Nil fields are left unchanged.
type UpdateHoldingRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	BuyPrice *decimal.Decimal `json:"buy_price"`
	BuyDate  *time.Time       `json:"buy_date"`
	Notes    *string          `json:"notes"`
}

// SellHoldingRequest disposes part or all of a lot. Price is optional;
// when absent the live quote is used, falling back to the lot's buy
// price.
type SellHoldingRequest struct {
	Quantity decimal.Decimal  `json:"quantity" binding:"required"`
	Price    *decimal.Decimal `json:"price"`
}

// AddWatchlistRequest tracks a coin without holding it
type AddWatchlistRequest struct {
	CoinID string `json:"coin_id" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Name   string `json:"name"`
}

// CreateAlertRequest creates a price alert
type CreateAlertRequest struct {
	CoinID      string          `json:"coin_id" binding:"required"`
	Symbol      string          `json:"symbol" binding:"required"`
	Name        string          `json:"name"`
	TargetPrice decimal.Decimal `json:"target_price" binding:"required"`
	Condition   AlertCondition  `json:"condition" binding:"required"`
}

// SetAlertActiveRequest arms or disarms an alert
type SetAlertActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ConvertRequest converts a USD amount into another display currency
type ConvertRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
}
