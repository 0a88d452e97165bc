package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, entities.ErrorResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondAppError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	var body entities.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondAppError_MapsStatusAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperrors.NotFound("portfolio"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid input", apperrors.InvalidInput("bad quantity"), http.StatusBadRequest, "INVALID_INPUT"},
		{"duplicate", apperrors.DuplicateEntry("already there"), http.StatusConflict, "DUPLICATE_ENTRY"},
		{"unauthorized", apperrors.Unauthorized("invalid credentials"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"upstream", apperrors.UpstreamUnavailable("coingecko"), http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := performError(t, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestRespondAppError_UnknownErrorIsOpaque(t *testing.T) {
	w, body := performError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Message, "pq:")
}

func TestRespondOK_WrapsEnvelope(t *testing.T) {
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) {
		respondOK(c, gin.H{"hello": "world"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body entities.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
}
