package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.Handle(method, target, handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return w, payload
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	w, payload := performJSON(t, Register, http.MethodPost, "/register", `{
		"fullName": "",
		"email": "not-an-email",
		"password": "short",
		"confirmPassword": ""
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, payload["success"])

	errs, ok := payload["errors"].(map[string]any)
	require.True(t, ok, "expected field errors map")
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "confirmPassword")
	assert.NotContains(t, errs, "phone")
}

func TestRegisterRejectsMismatchedConfirmation(t *testing.T) {
	w, payload := performJSON(t, Register, http.MethodPost, "/register", `{
		"fullName": "Jane Doe",
		"email": "jane@example.com",
		"password": "Str0ngpass",
		"confirmPassword": "Different1"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := payload["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "confirmPassword")
	assert.NotContains(t, errs, "fullName")
	assert.NotContains(t, errs, "password")
}

func TestSplitFullName(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Cher", "Cher", "Cher"},
		{"Ana María Rey", "Ana", "María Rey"},
		{"  Jane   Doe  ", "Jane", "Doe"},
	}
	for _, tc := range cases {
		first, last := splitFullName(tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.last, last, tc.in)
	}
}

func TestRegisterRejectsMalformedJSON(t *testing.T) {
	w, payload := performJSON(t, Register, http.MethodPost, "/register", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, payload["success"])
}

func TestContactFormValidation(t *testing.T) {
	w, payload := performJSON(t, SubmitContact, http.MethodPost, "/contact", `{
		"name": "",
		"email": "nope",
		"subject": "",
		"message": ""
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := payload["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "subject")
	assert.Contains(t, errs, "message")
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	Configure(Deps{StripeWebhookSecret: "whsec_test"})

	w, payload := performJSON(t, StripeWebhook, http.MethodPost, "/webhook", `{"id":"evt_123"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, payload["success"])
}

func TestFlightSearchRequiresIATACodes(t *testing.T) {
	Configure(Deps{Flights: nil})

	r := gin.New()
	r.GET("/search", SearchFlights)
	req := httptest.NewRequest(http.MethodGet, "/search?origin=NYC&destination=LONDON", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Without a configured client the handler reports unavailability before
	// validating anything else.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthReportsOK(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
}
