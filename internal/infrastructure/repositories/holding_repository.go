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

// HoldingRepository implements holding lot persistence on PostgreSQL
type HoldingRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewHoldingRepository(db *sqlx.DB, logger *zap.Logger) *HoldingRepository {
	return &HoldingRepository{db: db, logger: logger}
}

// GetByID retrieves a holding lot by ID
func (r *HoldingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Holding, error) {
	query := `
		SELECT id, portfolio_id, coin_id, symbol, name, quantity, buy_price, buy_date, notes, created_at, updated_at
		FROM holdings
		WHERE id = $1`

	var holding entities.Holding
	if err := r.db.GetContext(ctx, &holding, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("holding")
		}
		r.logger.Error("Failed to get holding", zap.Error(err), zap.String("holding_id", id.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &holding, nil
}

// ListByPortfolio returns all lots in a portfolio, oldest purchase first
func (r *HoldingRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Holding, error) {
	query := `
		SELECT id, portfolio_id, coin_id, symbol, name, quantity, buy_price, buy_date, notes, created_at, updated_at
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY buy_date ASC, created_at ASC`

	var holdings []*entities.Holding
	if err := r.db.SelectContext(ctx, &holdings, query, portfolioID); err != nil {
		r.logger.Error("Failed to list holdings", zap.Error(err), zap.String("portfolio_id", portfolioID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return holdings, nil
}

// Update modifies a lot's editable fields
func (r *HoldingRepository) Update(ctx context.Context, holding *entities.Holding) error {
	query := `
		UPDATE holdings
		SET quantity = $2, buy_price = $3, buy_date = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		holding.ID,
		holding.Quantity,
		holding.BuyPrice,
		holding.BuyDate,
		holding.Notes,
	)
	if err != nil {
		r.logger.Error("Failed to update holding", zap.Error(err), zap.String("holding_id", holding.ID.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("holding")
	}
	return nil
}

// Delete removes a lot
func (r *HoldingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete holding", zap.Error(err), zap.String("holding_id", id.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("holding")
	}
	return nil
}
