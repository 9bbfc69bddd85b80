package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("id", "secret", "test")
	c.BaseURL = srv.URL
	return c
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	var tokenCalls, apiCalls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			tokenCalls++
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1800})
		case "/v1/reference-data/locations":
			apiCalls++
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("missing bearer token, got %q", got)
			}
			w.Write([]byte(`{"data":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchLocations(ctx, "par", "", 5); err != nil {
			t.Fatalf("search error: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token fetch, got %d", tokenCalls)
	}
	if apiCalls != 3 {
		t.Fatalf("expected 3 api calls, got %d", apiCalls)
	}
}

func TestSearchOffersQueryParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/security/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1800})
			return
		}
		q := r.URL.Query()
		if q.Get("originLocationCode") != "JFK" || q.Get("destinationLocationCode") != "LHR" {
			t.Errorf("route params wrong: %v", q)
		}
		if q.Get("returnDate") != "2026-09-10" {
			t.Errorf("returnDate missing: %v", q)
		}
		if q.Get("adults") != "2" || q.Get("children") != "1" {
			t.Errorf("passenger params wrong: %v", q)
		}
		if q.Get("travelClass") != "BUSINESS" {
			t.Errorf("travelClass wrong: %v", q)
		}
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.SearchOffers(context.Background(), OfferSearch{
		Origin:        "jfk",
		Destination:   "lhr",
		DepartureDate: "2026-09-01",
		ReturnDate:    "2026-09-10",
		Adults:        2,
		Children:      1,
		TravelClass:   "business",
	})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
}

func TestAPIErrorExtraction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/security/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1800})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"title":"INVALID DATE","detail":"departure date is in the past"}]}`))
	})

	_, err := c.SearchOffers(context.Background(), OfferSearch{
		Origin: "JFK", Destination: "LHR", DepartureDate: "2020-01-01",
	})
	apiErr, ok := err.(APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status wrong: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "departure date is in the past" {
		t.Fatalf("detail not extracted: %q", apiErr.Message)
	}
}

func TestCancelOrderPath(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/security/oauth2/token" {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 1800})
			return
		}
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.CancelOrder(context.Background(), "eJzTd9c3NjQ"); err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if method != http.MethodDelete || path != "/v1/booking/flight-orders/eJzTd9c3NjQ" {
		t.Fatalf("unexpected request %s %s", method, path)
	}
}
