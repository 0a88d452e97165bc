package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// WatchlistRepository implements watchlist persistence on PostgreSQL
type WatchlistRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewWatchlistRepository(db *sqlx.DB, logger *zap.Logger) *WatchlistRepository {
	return &WatchlistRepository{db: db, logger: logger}
}

// Add inserts a watchlist entry. Adding the same coin twice is a conflict.
func (r *WatchlistRepository) Add(ctx context.Context, item *entities.WatchlistItem) error {
	query := `
		INSERT INTO watchlist_items (id, user_id, coin_id, symbol, name, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.CoinID,
		item.Symbol,
		item.Name,
		item.AddedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.DuplicateEntry("coin already in watchlist")
		}
		r.logger.Error("Failed to add watchlist item", zap.Error(err), zap.String("user_id", item.UserID.String()))
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// ListByUser returns the user's watchlist, newest first
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.WatchlistItem, error) {
	query := `
		SELECT id, user_id, coin_id, symbol, name, added_at
		FROM watchlist_items
		WHERE user_id = $1
		ORDER BY added_at DESC`

	var items []*entities.WatchlistItem
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		r.logger.Error("Failed to list watchlist", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return items, nil
}

// Remove deletes a watchlist entry by coin for the given user
func (r *WatchlistRepository) Remove(ctx context.Context, userID uuid.UUID, coinID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = $1 AND coin_id = $2`,
		userID, coinID)
	if err != nil {
		r.logger.Error("Failed to remove watchlist item", zap.Error(err), zap.String("user_id", userID.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("watchlist item")
	}
	return nil
}
