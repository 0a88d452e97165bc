package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

const pqUniqueViolation = "23505"

// UserRepository implements user persistence on PostgreSQL
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, display_currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.DisplayCurrency,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.DuplicateEntry("email already registered")
		}
		r.logger.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return apperrors.PersistenceFailure(err)
	}

	r.logger.Debug("User created", zap.String("user_id", user.ID.String()))
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	query := `
		SELECT id, email, name, password_hash, display_currency, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user entities.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		r.logger.Error("Failed to get user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `
		SELECT id, email, name, password_hash, display_currency, created_at, updated_at
		FROM users
		WHERE email = $1`

	var user entities.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, apperrors.PersistenceFailure(err)
	}
	return &user, nil
}

// UpdateProfile updates mutable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET name = $2, display_currency = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.DisplayCurrency)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperrors.PersistenceFailure(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if rows == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}
