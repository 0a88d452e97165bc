package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/auth"
)

// AuthHandlers serves registration, login and profile endpoints
type AuthHandlers struct {
	auth   *auth.Service
	logger *zap.Logger
}

func NewAuthHandlers(authService *auth.Service, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:   authService,
		logger: logger,
	}
}

// Signup registers a new account and returns its access token
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req entities.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid signup request", zap.Error(err))
		respondBadRequest(c, "invalid request payload")
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondCreated(c, result)
}

// Login verifies credentials and returns an access token
func (h *AuthHandlers) Login(c *gin.Context) {
	var req entities.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, result)
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, user)
}

// UpdateProfile edits the authenticated user's name and display currency
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req entities.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request payload")
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, req.Name, req.DisplayCurrency)
	if err != nil {
		respondAppError(c, err)
		return
	}

	respondOK(c, user)
}
