package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

const alertColumns = `id, user_id, coin_id, symbol, name, target_price, condition, is_active, triggered, triggered_at, notification_sent, created_at`

// AlertRepository implements price alert persistence on PostgreSQL
type AlertRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAlertRepository(db *sqlx.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

// Create inserts a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *entities.Alert) error {
	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.UserID,
		alert.CoinID,
		alert.Symbol,
		alert.Name,
		alert.TargetPrice,
		alert.Condition,
		alert.IsActive,
		alert.Triggered,
		alert.TriggeredAt,
		alert.NotificationSent,
		alert.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create alert", zap.Error(err), zap.String("user_id", alert.UserID.String()))
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// GetByID retrieves an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	var alert entities.Alert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("alert")
		}
		r.logger.Error("Failed to get alert", zap.Error(err), zap.String("alert_id", id.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &alert, nil
}

// ListByUser returns a user's alerts, newest first
func (r *AlertRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`

	var alerts []*entities.Alert
	if err := r.db.SelectContext(ctx, &alerts, query, userID); err != nil {
		r.logger.Error("Failed to list alerts", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return alerts, nil
}

// ListArmed returns every alert that is active and not yet triggered,
// across all users. The sweep worker evaluates these in bulk.
func (r *AlertRepository) ListArmed(ctx context.Context) ([]*entities.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE is_active = TRUE AND triggered = FALSE`

	var alerts []*entities.Alert
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		r.logger.Error("Failed to list armed alerts", zap.Error(err))
		return nil, apperrors.PersistenceFailure(err)
	}
	return alerts, nil
}

// SetActive toggles an alert. Re-arming also clears the triggered flag.
func (r *AlertRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE alerts
		SET is_active = $2,
			triggered = CASE WHEN $2 THEN FALSE ELSE triggered END,
			triggered_at = CASE WHEN $2 THEN NULL ELSE triggered_at END,
			notification_sent = CASE WHEN $2 THEN FALSE ELSE notification_sent END
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		r.logger.Error("Failed to toggle alert", zap.Error(err), zap.String("alert_id", id.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("alert")
	}
	return nil
}

// MarkTriggered records that an alert fired and its notification went out
func (r *AlertRepository) MarkTriggered(ctx context.Context, id uuid.UUID, notified bool) error {
	query := `
		UPDATE alerts
		SET triggered = TRUE, triggered_at = NOW(), notification_sent = $2
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, notified); err != nil {
		r.logger.Error("Failed to mark alert triggered", zap.Error(err), zap.String("alert_id", id.String()))
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// Delete removes an alert
func (r *AlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete alert", zap.Error(err), zap.String("alert_id", id.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("alert")
	}
	return nil
}
