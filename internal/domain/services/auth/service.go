package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/pkg/crypto"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// UserStore persists user accounts
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateProfile(ctx context.Context, user *entities.User) error
}

// PortfolioProvisioner creates the starter portfolio for new accounts
type PortfolioProvisioner interface {
	CreateDefault(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error)
}

const minPasswordLength = 8

// Service handles signup, login and profile access
type Service struct {
	users      UserStore
	portfolios PortfolioProvisioner
	tokens     *TokenManager
	logger     *zap.Logger
}

func NewService(users UserStore, portfolios PortfolioProvisioner, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		users:      users,
		portfolios: portfolios,
		tokens:     tokens,
		logger:     logger,
	}
}

// Signup registers an account, provisions its default portfolio and
// returns a signed access token.
func (s *Service) Signup(ctx context.Context, email, name, password string) (*entities.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("a valid email is required")
	}
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.InvalidInput("password must be at least 8 characters")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("failed to process password")
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:              uuid.New(),
		Email:           email,
		Name:            name,
		PasswordHash:    hash,
		DisplayCurrency: "usd",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.portfolios.CreateDefault(ctx, user.ID); err != nil {
		s.logger.Error("Failed to provision default portfolio",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token")
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &entities.AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns a signed access token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*entities.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !crypto.ValidatePassword(password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &entities.AuthResult{User: user, Token: token}, nil
}

// Me returns the authenticated user's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile edits the user's name and display currency
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, name, displayCurrency string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if displayCurrency != "" {
		user.DisplayCurrency = strings.ToLower(displayCurrency)
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyToken delegates to the token manager, for middleware use
func (s *Service) VerifyToken(token string) (uuid.UUID, error) {
	return s.tokens.Verify(token)
}
