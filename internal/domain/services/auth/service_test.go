package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/pkg/crypto"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// MockUserStore is a mock implementation of UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProvisioner is a mock implementation of PortfolioProvisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) CreateDefault(ctx context.Context, userID uuid.UUID) (*entities.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Portfolio), args.Error(1)
}

func newAuthService() (*Service, *MockUserStore, *MockProvisioner) {
	users := new(MockUserStore)
	portfolios := new(MockProvisioner)
	tokens := NewTokenManager("test-secret", time.Hour, "coinfolio")
	return NewService(users, portfolios, tokens, zap.NewNop()), users, portfolios
}

func TestSignup_ProvisionsDefaultPortfolio(t *testing.T) {
	service, users, portfolios := newAuthService()

	users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)
	portfolios.On("CreateDefault", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&entities.Portfolio{ID: uuid.New(), IsDefault: true}, nil)

	result, err := service.Signup(context.Background(), "New@Example.COM", "Ada", "supersecret")

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.Equal(t, "usd", result.User.DisplayCurrency)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "supersecret", result.User.PasswordHash, "password must be hashed")
	users.AssertExpectations(t)
	portfolios.AssertExpectations(t)
}

func TestSignup_Validation(t *testing.T) {
	service, users, _ := newAuthService()

	cases := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"missing email", "", "Ada", "supersecret"},
		{"malformed email", "not-an-email", "Ada", "supersecret"},
		{"missing name", "a@b.c", "", "supersecret"},
		{"short password", "a@b.c", "Ada", "short"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Signup(context.Background(), tc.email, tc.userName, tc.password)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
		})
	}

	users.AssertNotCalled(t, "Create")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	service, users, _ := newAuthService()

	users.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.DuplicateEntry("email already registered"))

	_, err := service.Signup(context.Background(), "taken@example.com", "Ada", "supersecret")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateEntry))
}

func TestLogin_Success(t *testing.T) {
	service, users, _ := newAuthService()

	hash, err := crypto.HashPassword("supersecret")
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: hash}
	users.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	result, err := service.Login(context.Background(), "Ada@Example.com", "supersecret")

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	service, users, _ := newAuthService()

	hash, err := crypto.HashPassword("supersecret")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "ada@example.com").
		Return(&entities.User{ID: uuid.New(), PasswordHash: hash}, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NotFound("user"))

	_, wrongPass := service.Login(context.Background(), "ada@example.com", "wrong")
	_, unknown := service.Login(context.Background(), "ghost@example.com", "whatever")

	assert.True(t, apperrors.HasCode(wrongPass, apperrors.ErrCodeUnauthorized))
	assert.True(t, apperrors.HasCode(unknown, apperrors.ErrCodeUnauthorized))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestUpdateProfile_KeepsUnsetFields(t *testing.T) {
	service, users, _ := newAuthService()

	userID := uuid.New()
	users.On("GetByID", mock.Anything, userID).Return(&entities.User{
		ID:              userID,
		Name:            "Ada",
		DisplayCurrency: "usd",
	}, nil)
	users.On("UpdateProfile", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

	updated, err := service.UpdateProfile(context.Background(), userID, "", "EUR")

	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "eur", updated.DisplayCurrency)
}
