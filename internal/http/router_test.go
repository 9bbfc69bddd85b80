package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thrive/internal/auth"
	"thrive/internal/config"
	"thrive/internal/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := auth.Manager{
		Secret:     []byte("router-test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	revoked := auth.RevocationStore{}
	handlers.Configure(handlers.Deps{Tokens: tokens, Revoked: revoked})
	return NewRouter(config.Env{}, tokens, revoked)
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/health", nil))

	assert.Equal(t, nethttp.StatusOK, w.Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/nope", nil))

	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "route not found", payload["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()
	for _, target := range []string{
		"/api/client/dashboard",
		"/api/client/bookings",
		"/api/admin/dashboard",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, target, nil))
		assert.Equal(t, nethttp.StatusUnauthorized, w.Code, target)
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	r := newTestRouter()
	tokens := auth.Manager{
		Secret:     []byte("router-test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	token, _, err := tokens.IssueAccess("user-1", "customer", time.Now().UTC())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusForbidden, w.Code)
}
