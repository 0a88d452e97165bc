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

// PortfolioRepository implements portfolio persistence on PostgreSQL
type PortfolioRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPortfolioRepository(db *sqlx.DB, logger *zap.Logger) *PortfolioRepository {
	return &PortfolioRepository{db: db, logger: logger}
}

// Create inserts a new portfolio
func (r *PortfolioRepository) Create(ctx context.Context, portfolio *entities.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, user_id, name, description, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		portfolio.ID,
		portfolio.UserID,
		portfolio.Name,
		portfolio.Description,
		portfolio.IsDefault,
		portfolio.CreatedAt,
		portfolio.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create portfolio", zap.Error(err), zap.String("user_id", portfolio.UserID.String()))
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// GetByID retrieves a portfolio by ID
func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Portfolio, error) {
	query := `
		SELECT id, user_id, name, description, is_default, created_at, updated_at
		FROM portfolios
		WHERE id = $1`

	var portfolio entities.Portfolio
	if err := r.db.GetContext(ctx, &portfolio, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("portfolio")
		}
		r.logger.Error("Failed to get portfolio", zap.Error(err), zap.String("portfolio_id", id.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &portfolio, nil
}

// ListByUser returns all portfolios owned by a user, default first
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Portfolio, error) {
	query := `
		SELECT id, user_id, name, description, is_default, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC`

	var portfolios []*entities.Portfolio
	if err := r.db.SelectContext(ctx, &portfolios, query, userID); err != nil {
		r.logger.Error("Failed to list portfolios", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return portfolios, nil
}

// GetDefaultByUser returns the user's default portfolio
func (r *PortfolioRepository) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error) {
	query := `
		SELECT id, user_id, name, description, is_default, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1 AND is_default = TRUE
		LIMIT 1`

	var portfolio entities.Portfolio
	if err := r.db.GetContext(ctx, &portfolio, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("default portfolio")
		}
		return nil, apperrors.PersistenceFailure(err)
	}
	return &portfolio, nil
}

// Update modifies a portfolio's name and description
func (r *PortfolioRepository) Update(ctx context.Context, portfolio *entities.Portfolio) error {
	query := `
		UPDATE portfolios
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, portfolio.ID, portfolio.Name, portfolio.Description)
	if err != nil {
		r.logger.Error("Failed to update portfolio", zap.Error(err), zap.String("portfolio_id", portfolio.ID.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("portfolio")
	}
	return nil
}

// Delete removes a portfolio and, via cascade, its holdings and transactions
func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete portfolio", zap.Error(err), zap.String("portfolio_id", id.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("portfolio")
	}
	return nil
}
