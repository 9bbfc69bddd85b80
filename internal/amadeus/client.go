// Package amadeus is a thin client for the Amadeus Self-Service flight APIs:
// OAuth2 client-credentials auth with token caching, location and offer
// search, offer pricing, seatmaps, and flight orders.
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	TestBaseURL       = "https://test.api.amadeus.com"
	ProductionBaseURL = "https://api.amadeus.com"

	// Refresh the token five minutes before it actually expires.
	tokenBuffer = 5 * time.Minute
)

// APIError is a non-2xx vendor response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("amadeus: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New builds a client for the given environment ("test" or "production").
func New(clientID, clientSecret, environment string) *Client {
	base := TestBaseURL
	if strings.EqualFold(environment, "production") {
		base = ProductionBaseURL
	}
	return &Client{
		BaseURL:      base,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", APIError{StatusCode: resp.StatusCode, Message: "authentication failed"}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenBuffer)
	return c.accessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, APIError{StatusCode: resp.StatusCode, Message: extractErrorMessage(raw)}
	}
	return raw, nil
}

// vendor errors arrive as {"errors":[{"detail": "...", "title": "..."}]}
func extractErrorMessage(raw []byte) string {
	var payload struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if len(payload.Errors) > 0 {
			if payload.Errors[0].Detail != "" {
				return payload.Errors[0].Detail
			}
			if payload.Errors[0].Title != "" {
				return payload.Errors[0].Title
			}
		}
		if payload.ErrorDescription != "" {
			return payload.ErrorDescription
		}
	}
	return "request rejected"
}

// SearchLocations looks up airports and cities by keyword.
func (c *Client) SearchLocations(ctx context.Context, keyword, subType string, limit int) (json.RawMessage, error) {
	if subType == "" {
		subType = "AIRPORT,CITY"
	}
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{
		"keyword":     {keyword},
		"subType":     {subType},
		"page[limit]": {strconv.Itoa(limit)},
	}
	return c.do(ctx, http.MethodGet, "/v1/reference-data/locations", q, nil)
}

// OfferSearch holds GET flight-offers parameters.
type OfferSearch struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	Infants       int
	TravelClass   string
	NonStop       bool
	CurrencyCode  string
	MaxResults    int
}

// SearchOffers runs a one-way or round-trip offer search.
func (c *Client) SearchOffers(ctx context.Context, s OfferSearch) (json.RawMessage, error) {
	if s.Adults <= 0 {
		s.Adults = 1
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 20
	}
	if s.CurrencyCode == "" {
		s.CurrencyCode = "USD"
	}
	q := url.Values{
		"originLocationCode":      {strings.ToUpper(s.Origin)},
		"destinationLocationCode": {strings.ToUpper(s.Destination)},
		"departureDate":           {s.DepartureDate},
		"adults":                  {strconv.Itoa(s.Adults)},
		"currencyCode":            {s.CurrencyCode},
		"max":                     {strconv.Itoa(s.MaxResults)},
	}
	if s.ReturnDate != "" {
		q.Set("returnDate", s.ReturnDate)
	}
	if s.Children > 0 {
		q.Set("children", strconv.Itoa(s.Children))
	}
	if s.Infants > 0 {
		q.Set("infants", strconv.Itoa(s.Infants))
	}
	if s.TravelClass != "" {
		q.Set("travelClass", strings.ToUpper(s.TravelClass))
	}
	if s.NonStop {
		q.Set("nonStop", "true")
	}
	return c.do(ctx, http.MethodGet, "/v2/shopping/flight-offers", q, nil)
}

// SearchOffersBody runs the POST variant used for multi-city itineraries.
func (c *Client) SearchOffersBody(ctx context.Context, body map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/v2/shopping/flight-offers", nil, body)
}

// PriceOffer re-validates an offer's price right before booking.
func (c *Client) PriceOffer(ctx context.Context, offer json.RawMessage) (json.RawMessage, error) {
	body := map[string]any{
		"data": map[string]any{
			"type":         "flight-offers-pricing",
			"flightOffers": []json.RawMessage{offer},
		},
	}
	return c.do(ctx, http.MethodPost, "/v1/shopping/flight-offers/pricing", nil, body)
}

// SeatMaps fetches cabin seatmaps for an offer.
func (c *Client) SeatMaps(ctx context.Context, offer json.RawMessage) (json.RawMessage, error) {
	body := map[string]any{
		"data": []json.RawMessage{offer},
	}
	return c.do(ctx, http.MethodPost, "/v1/shopping/seatmaps", nil, body)
}

// Traveler is one passenger in vendor format.
type Traveler struct {
	ID          string           `json:"id"`
	DateOfBirth string           `json:"dateOfBirth"`
	Name        TravelerName     `json:"name"`
	Gender      string           `json:"gender,omitempty"`
	Contact     *TravelerContact `json:"contact,omitempty"`
	Documents   []Document       `json:"documents,omitempty"`
}

type TravelerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type TravelerContact struct {
	EmailAddress string  `json:"emailAddress,omitempty"`
	Phones       []Phone `json:"phones,omitempty"`
}

type Phone struct {
	DeviceType         string `json:"deviceType"`
	CountryCallingCode string `json:"countryCallingCode"`
	Number             string `json:"number"`
}

type Document struct {
	DocumentType    string `json:"documentType"`
	Number          string `json:"number"`
	ExpiryDate      string `json:"expiryDate,omitempty"`
	IssuanceCountry string `json:"issuanceCountry,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	Holder          bool   `json:"holder"`
}

// CreateOrder books a priced offer for the given travelers.
func (c *Client) CreateOrder(ctx context.Context, pricedOffer json.RawMessage, travelers []Traveler) (json.RawMessage, error) {
	body := map[string]any{
		"data": map[string]any{
			"type":         "flight-order",
			"flightOffers": []json.RawMessage{pricedOffer},
			"travelers":    travelers,
		},
	}
	return c.do(ctx, http.MethodPost, "/v1/booking/flight-orders", nil, body)
}

// GetOrder retrieves an existing flight order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/booking/flight-orders/"+url.PathEscape(orderID), nil, nil)
}

// CancelOrder voids a flight order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/v1/booking/flight-orders/"+url.PathEscape(orderID), nil, nil)
	return err
}
