package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
	"github.com/coinfolio/coinfolio_service/pkg/metrics"
)

// AlertStore persists price alerts
type AlertStore interface {
	Create(ctx context.Context, alert *entities.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Alert, error)
	ListArmed(ctx context.Context) ([]*entities.Alert, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	MarkTriggered(ctx context.Context, id uuid.UUID, notified bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PriceSource supplies current quotes for a batch of coin ids
type PriceSource interface {
	GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error)
}

// UserStore resolves alert owners for notification delivery
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// Notifier delivers a triggered-alert notification
type Notifier interface {
	SendAlertTriggered(ctx context.Context, user *entities.User, alert *entities.Alert, price decimal.Decimal) error
}

// Service manages price alerts and evaluates them against live quotes
type Service struct {
	store    AlertStore
	prices   PriceSource
	users    UserStore
	notifier Notifier
	logger   *zap.Logger
}

func NewService(store AlertStore, prices PriceSource, users UserStore, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		prices:   prices,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Create registers a new price alert
func (s *Service) Create(ctx context.Context, userID uuid.UUID, coinID, symbol, name string, targetPrice decimal.Decimal, condition entities.AlertCondition) (*entities.Alert, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return nil, apperrors.InvalidInput("coin id is required")
	}
	if !targetPrice.IsPositive() {
		return nil, apperrors.InvalidInput("target price must be positive")
	}
	if condition != entities.AlertConditionAbove && condition != entities.AlertConditionBelow {
		return nil, apperrors.InvalidInput("condition must be above or below")
	}

	alert := &entities.Alert{
		ID:          uuid.New(),
		UserID:      userID,
		CoinID:      coinID,
		Symbol:      strings.ToUpper(symbol),
		Name:        name,
		TargetPrice: targetPrice,
		Condition:   condition,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.logger.Info("Alert created",
		zap.String("alert_id", alert.ID.String()),
		zap.String("coin_id", coinID),
		zap.String("condition", string(condition)))
	return alert, nil
}

// List returns the user's alerts decorated with current prices
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.AlertWithPrice, error) {
	alerts, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*entities.AlertWithPrice, 0, len(alerts))
	if len(alerts) == 0 {
		return result, nil
	}

	seen := make(map[string]struct{}, len(alerts))
	coinIDs := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if _, ok := seen[a.CoinID]; ok {
			continue
		}
		seen[a.CoinID] = struct{}{}
		coinIDs = append(coinIDs, a.CoinID)
	}

	quotes, err := s.prices.GetQuotes(ctx, coinIDs)
	if err != nil {
		s.logger.Warn("Price feed unavailable for alert listing", zap.Error(err))
		quotes = map[string]entities.Quote{}
	}

	for _, a := range alerts {
		result = append(result, &entities.AlertWithPrice{
			Alert:        *a,
			CurrentPrice: quotes[a.CoinID].Price,
		})
	}
	return result, nil
}

// SetActive toggles an alert after an ownership check
func (s *Service) SetActive(ctx context.Context, userID, alertID uuid.UUID, active bool) error {
	if _, err := s.resolveOwned(ctx, userID, alertID); err != nil {
		return err
	}
	return s.store.SetActive(ctx, alertID, active)
}

// Delete removes an alert after an ownership check
func (s *Service) Delete(ctx context.Context, userID, alertID uuid.UUID) error {
	if _, err := s.resolveOwned(ctx, userID, alertID); err != nil {
		return err
	}
	return s.store.Delete(ctx, alertID)
}

// Sweep evaluates every armed alert against current prices, marks the
// ones that fire and sends their notifications. Called by the
// background worker on a schedule. Returns the number of alerts fired.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	armed, err := s.store.ListArmed(ctx)
	if err != nil {
		return 0, err
	}
	if len(armed) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(armed))
	coinIDs := make([]string, 0, len(armed))
	for _, a := range armed {
		if _, ok := seen[a.CoinID]; ok {
			continue
		}
		seen[a.CoinID] = struct{}{}
		coinIDs = append(coinIDs, a.CoinID)
	}

	quotes, err := s.prices.GetQuotes(ctx, coinIDs)
	if err != nil {
		// Without prices there is nothing to evaluate this round.
		return 0, err
	}

	fired := 0
	for _, alert := range armed {
		quote, ok := quotes[alert.CoinID]
		if !ok || !quote.Price.IsPositive() {
			continue
		}
		if !alert.ShouldTrigger(quote.Price) {
			continue
		}

		notified := s.notify(ctx, alert, quote.Price)
		if err := s.store.MarkTriggered(ctx, alert.ID, notified); err != nil {
			s.logger.Error("Failed to mark alert triggered",
				zap.String("alert_id", alert.ID.String()),
				zap.Error(err))
			continue
		}

		fired++
		metrics.AlertsTriggeredTotal.Inc()
		s.logger.Info("Alert triggered",
			zap.String("alert_id", alert.ID.String()),
			zap.String("coin_id", alert.CoinID),
			zap.String("price", quote.Price.String()),
			zap.Bool("notified", notified))
	}
	return fired, nil
}

func (s *Service) notify(ctx context.Context, alert *entities.Alert, price decimal.Decimal) bool {
	if s.notifier == nil {
		return false
	}

	user, err := s.users.GetByID(ctx, alert.UserID)
	if err != nil {
		s.logger.Warn("Failed to resolve alert owner",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err))
		return false
	}

	if err := s.notifier.SendAlertTriggered(ctx, user, alert, price); err != nil {
		s.logger.Warn("Failed to send alert notification",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Service) resolveOwned(ctx context.Context, userID, alertID uuid.UUID) (*entities.Alert, error) {
	alert, err := s.store.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.UserID != userID {
		return nil, apperrors.NotFound("alert")
	}
	return alert, nil
}
