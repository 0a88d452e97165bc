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

// TradeRepository runs the trade write paths that must mutate a holding
// lot and append a ledger row atomically.
type TradeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTradeRepository(db *sqlx.DB, logger *zap.Logger) *TradeRepository {
	return &TradeRepository{db: db, logger: logger}
}

// Buy inserts a new holding lot and its buy ledger row in one transaction.
func (r *TradeRepository) Buy(ctx context.Context, holding *entities.Holding, txRow *entities.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	defer tx.Rollback()

	insertHolding := `
		INSERT INTO holdings (id, portfolio_id, coin_id, symbol, name, quantity, buy_price, buy_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := tx.ExecContext(ctx, insertHolding,
		holding.ID,
		holding.PortfolioID,
		holding.CoinID,
		holding.Symbol,
		holding.Name,
		holding.Quantity,
		holding.BuyPrice,
		holding.BuyDate,
		holding.Notes,
		holding.CreatedAt,
		holding.UpdatedAt,
	); err != nil {
		r.logger.Error("Failed to insert holding", zap.Error(err), zap.String("portfolio_id", holding.PortfolioID.String()))
		return apperrors.PersistenceFailure(err)
	}

	if err := insertTransaction(ctx, tx, txRow); err != nil {
		r.logger.Error("Failed to insert buy transaction", zap.Error(err), zap.String("holding_id", holding.ID.String()))
		return apperrors.PersistenceFailure(err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// SellWithLock locks the holding row, lets decide compute the disposal
// from the locked state, then appends the ledger row and shrinks or
// deletes the lot. Everything happens in one database transaction, so
// concurrent sells of the same lot serialize on the row lock and the
// loser recomputes against the updated quantity.
func (r *TradeRepository) SellWithLock(ctx context.Context, holdingID uuid.UUID, decide func(holding *entities.Holding) (*entities.SellDecision, error)) (*entities.SellDecision, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	defer tx.Rollback()

	lockQuery := `
		SELECT id, portfolio_id, coin_id, symbol, name, quantity, buy_price, buy_date, notes, created_at, updated_at
		FROM holdings
		WHERE id = $1
		FOR UPDATE`

	var holding entities.Holding
	if err := tx.GetContext(ctx, &holding, lockQuery, holdingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("holding")
		}
		r.logger.Error("Failed to lock holding", zap.Error(err), zap.String("holding_id", holdingID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}

	decision, err := decide(&holding)
	if err != nil {
		return nil, err
	}

	if err := insertTransaction(ctx, tx, decision.Transaction); err != nil {
		r.logger.Error("Failed to insert sell transaction", zap.Error(err), zap.String("holding_id", holdingID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}

	if decision.RemainingQuantity.IsPositive() {
		update := `UPDATE holdings SET quantity = $2, updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, holdingID, decision.RemainingQuantity); err != nil {
			r.logger.Error("Failed to shrink holding", zap.Error(err), zap.String("holding_id", holdingID.String()))
			return nil, apperrors.PersistenceFailure(err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, holdingID); err != nil {
			r.logger.Error("Failed to delete exhausted holding", zap.Error(err), zap.String("holding_id", holdingID.String()))
			return nil, apperrors.PersistenceFailure(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	return decision, nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, row *entities.Transaction) error {
	query := `
		INSERT INTO transactions (id, portfolio_id, holding_id, coin_id, symbol, name, type, quantity, price,
			total_value, realized_pl, avg_buy_price, fee, notes, transaction_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := tx.ExecContext(ctx, query,
		row.ID,
		row.PortfolioID,
		row.HoldingID,
		row.CoinID,
		row.Symbol,
		row.Name,
		row.Type,
		row.Quantity,
		row.Price,
		row.TotalValue,
		row.RealizedPL,
		row.AvgBuyPrice,
		row.Fee,
		row.Notes,
		row.TransactionDate,
		row.CreatedAt,
	)
	return err
}
