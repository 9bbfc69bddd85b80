package handlers

import (
	"net/http"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

const quoteValidity = 7 * 24 * time.Hour

type quoteRequest struct {
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	FlexibleDates     string `json:"flexibleDates"`
	TripType          string `json:"tripType"`
	NumAdults         int    `json:"numAdults"`
	NumChildren       int    `json:"numChildren"`
	AdditionalDetails string `json:"additionalDetails"`
}

func (r quoteRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Origin) == "" {
		errs["origin"] = "origin is required"
	}
	if strings.TrimSpace(r.Destination) == "" {
		errs["destination"] = "destination is required"
	}
	if r.NumAdults < 1 {
		errs["numAdults"] = "at least one adult is required"
	}
	if r.NumChildren < 0 {
		errs["numChildren"] = "children count cannot be negative"
	}
	switch r.TripType {
	case "", domain.TripOneWay, domain.TripRoundTrip, domain.TripMultiCity:
	default:
		errs["tripType"] = "trip type must be one_way, round_trip or multi_city"
	}
	return errs
}

// CreateQuote files a custom trip request for an agent to price.
func CreateQuote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidation(c, "quote request failed validation", errs)
		return
	}

	tripType := req.TripType
	if tripType == "" {
		tripType = domain.TripRoundTrip
	}
	expires := utils.NowUTC().Add(quoteValidity)
	q := models.Quote{
		ID:                utils.NewID(),
		QuoteReference:    utils.NewReference("QTE"),
		UserID:            u.ID,
		Origin:            strings.TrimSpace(req.Origin),
		Destination:       strings.TrimSpace(req.Destination),
		FlexibleDates:     strings.TrimSpace(req.FlexibleDates),
		TripType:          tripType,
		NumAdults:         req.NumAdults,
		NumChildren:       req.NumChildren,
		AdditionalDetails: strings.TrimSpace(req.AdditionalDetails),
		Status:            domain.QuotePending,
		ExpiresAt:         &expires,
	}
	if err := (repositories.QuoteRepository{}).Create(q); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(u.ID, "quote.create", "quote", q.ID, "quote requested "+q.QuoteReference, nil)
	RespondCreated(c, "quote request submitted", gin.H{"quote": q})
}

// ListQuotes pages through the caller's quotes with expiry folded into the
// reported status.
func ListQuotes(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	page := pageFromQuery(c)
	items, err := repositories.QuoteRepository{}.List(repositories.QuoteFilter{
		UserID: u.ID,
		Status: strings.TrimSpace(c.Query("status")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	now := utils.NowUTC()
	out := make([]gin.H, 0, len(items))
	for _, q := range items {
		out = append(out, quotePayload(q, now))
	}
	RespondPage(c, "quotes", out, page)
}

// GetQuote returns one owned quote.
func GetQuote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	q, err := repositories.QuoteRepository{}.GetOwned(c.Param("id"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "quote detail", quotePayload(q, utils.NowUTC()))
}

// AcceptQuote converts a sent quote into a pending custom booking.
func AcceptQuote(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	repo := repositories.QuoteRepository{}
	q, err := repo.GetOwned(c.Param("id"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	now := utils.NowUTC()
	switch q.EffectiveStatus(now) {
	case domain.QuoteSent:
	case domain.QuoteExpired:
		RespondError(c, http.StatusConflict, "quote has expired", nil)
		return
	default:
		RespondError(c, http.StatusConflict, "quote is not ready to accept", nil)
		return
	}

	b, err := bookings(c).CreateFromQuote(u, q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := repo.MarkAccepted(q.ID, b.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(u.ID, "quote.accept", "quote", q.ID, "quote accepted into booking "+b.BookingReference, nil)
	RespondCreated(c, "quote accepted", gin.H{"booking": b})
}

func quotePayload(q models.Quote, now time.Time) gin.H {
	return gin.H{
		"quote":            q,
		"effective_status": q.EffectiveStatus(now),
	}
}
