package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
	"github.com/coinfolio/coinfolio_service/pkg/pagination"
)

// TransactionRepository reads the append-only trade ledger
type TransactionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTransactionRepository(db *sqlx.DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

// ListByPortfolio returns ledger rows newest first
func (r *TransactionRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, params pagination.Params) ([]*entities.Transaction, int, error) {
	countQuery := `SELECT COUNT(*) FROM transactions WHERE portfolio_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, portfolioID); err != nil {
		r.logger.Error("Failed to count transactions", zap.Error(err), zap.String("portfolio_id", portfolioID.String()))
		return nil, 0, apperrors.PersistenceFailure(err)
	}

	query := `
		SELECT id, portfolio_id, holding_id, coin_id, symbol, name, type, quantity, price,
			total_value, realized_pl, avg_buy_price, fee, notes, transaction_date, created_at
		FROM transactions
		WHERE portfolio_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`

	var transactions []*entities.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, portfolioID, params.GetLimit(), params.GetOffset()); err != nil {
		r.logger.Error("Failed to list transactions", zap.Error(err), zap.String("portfolio_id", portfolioID.String()))
		return nil, 0, apperrors.PersistenceFailure(err)
	}
	return transactions, total, nil
}

// ListAllByPortfolio returns the full ledger newest first, for report
// generation
func (r *TransactionRepository) ListAllByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*entities.Transaction, error) {
	query := `
		SELECT id, portfolio_id, holding_id, coin_id, symbol, name, type, quantity, price,
			total_value, realized_pl, avg_buy_price, fee, notes, transaction_date, created_at
		FROM transactions
		WHERE portfolio_id = $1
		ORDER BY transaction_date DESC, created_at DESC`

	var transactions []*entities.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, portfolioID); err != nil {
		r.logger.Error("Failed to list transactions", zap.Error(err), zap.String("portfolio_id", portfolioID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return transactions, nil
}

// Summary aggregates the ledger. Realized profit only ever comes from
// sell rows.
func (r *TransactionRepository) Summary(ctx context.Context, portfolioID uuid.UUID) (*entities.TransactionSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total_transactions,
			COUNT(*) FILTER (WHERE type = 'sell') AS sell_count,
			COALESCE(SUM(realized_pl) FILTER (WHERE type = 'sell'), 0) AS total_realized_pl
		FROM transactions
		WHERE portfolio_id = $1`

	row := r.db.QueryRowxContext(ctx, query, portfolioID)

	var summary entities.TransactionSummary
	if err := row.Scan(&summary.TotalTransactions, &summary.SellCount, &summary.TotalRealizedPL); err != nil {
		r.logger.Error("Failed to summarize transactions", zap.Error(err), zap.String("portfolio_id", portfolioID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &summary, nil
}
