package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WatchlistItem is a coin a user tracks without holding it.
// One row per (user, coin) pair.
type WatchlistItem struct {
	ID      uuid.UUID `json:"id" db:"id"`
	UserID  uuid.UUID `json:"user_id" db:"user_id"`
	CoinID  string    `json:"coin_id" db:"coin_id"`
	Symbol  string    `json:"symbol" db:"symbol"`
	Name    string    `json:"name" db:"name"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// WatchlistEntry is a watchlist item decorated with a live quote
type WatchlistEntry struct {
	WatchlistItem
	CurrentPrice   decimal.Decimal `json:"current_price"`
	PriceChange24h decimal.Decimal `json:"price_change_24h"`
	MarketCap      decimal.Decimal `json:"market_cap"`
}

// AlertCondition enumerates price alert trigger directions
type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "above"
	AlertConditionBelow AlertCondition = "below"
)

// Alert is a user's price alert on a coin
type Alert struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	UserID           uuid.UUID       `json:"user_id" db:"user_id"`
	CoinID           string          `json:"coin_id" db:"coin_id"`
	Symbol           string          `json:"symbol" db:"symbol"`
	Name             string          `json:"name" db:"name"`
	TargetPrice      decimal.Decimal `json:"target_price" db:"target_price"`
	Condition        AlertCondition  `json:"condition" db:"condition"`
	IsActive         bool            `json:"is_active" db:"is_active"`
	Triggered        bool            `json:"triggered" db:"triggered"`
	TriggeredAt      *time.Time      `json:"triggered_at,omitempty" db:"triggered_at"`
	NotificationSent bool            `json:"notification_sent" db:"notification_sent"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// ShouldTrigger reports whether the alert fires at the given price
func (a *Alert) ShouldTrigger(price decimal.Decimal) bool {
	if !a.IsActive || a.Triggered {
		return false
	}
	switch a.Condition {
	case AlertConditionAbove:
		return price.GreaterThanOrEqual(a.TargetPrice)
	case AlertConditionBelow:
		return price.LessThanOrEqual(a.TargetPrice)
	default:
		return false
	}
}

// AlertWithPrice is an alert decorated with the coin's current price
type AlertWithPrice struct {
	Alert
	CurrentPrice decimal.Decimal `json:"current_price"`
}
