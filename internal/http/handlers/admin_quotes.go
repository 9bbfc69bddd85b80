package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminListQuotes pages through all quote requests.
func AdminListQuotes(c *gin.Context) {
	page := pageFromQuery(c)
	items, err := repositories.QuoteRepository{}.List(repositories.QuoteFilter{
		UserID: strings.TrimSpace(c.Query("user_id")),
		Status: strings.TrimSpace(c.Query("status")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "quotes", items, page)
}

// AdminGetQuote returns any quote with its computed status.
func AdminGetQuote(c *gin.Context) {
	q, err := repositories.QuoteRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "quote detail", quotePayload(q, utils.NowUTC()))
}

// AdminQuoteStats returns quote totals for the admin dashboard widgets.
func AdminQuoteStats(c *gin.Context) {
	stats, err := repositories.QuoteRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "quote stats", stats)
}

type sendQuoteRequest struct {
	QuotedCents     int64           `json:"quotedCents"`
	ServiceFeeCents int64           `json:"serviceFeeCents"`
	AgentNotes      string          `json:"agentNotes"`
	QuoteDetails    json.RawMessage `json:"quoteDetails"`
	ValidDays       int             `json:"validDays"`
}

// AdminSendQuote prices a pending quote and sends it to the customer.
func AdminSendQuote(c *gin.Context) {
	var req sendQuoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.QuotedCents <= 0 {
		RespondValidation(c, "quoted amount must be positive", map[string]string{
			"quotedCents": "quoted amount must be positive",
		})
		return
	}

	repo := repositories.QuoteRepository{}
	q, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	validDays := req.ValidDays
	if validDays <= 0 {
		validDays = 7
	}
	total := req.QuotedCents + req.ServiceFeeCents
	expiresAt := utils.NowUTC().Add(time.Duration(validDays) * 24 * time.Hour)

	err = repo.SendQuote(q.ID, req.QuotedCents, req.ServiceFeeCents, total,
		strings.TrimSpace(req.AgentNotes), req.QuoteDetails, expiresAt)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	notifier(c).NotifyWithEmail(q.UserID, "quote", "Your quote is ready",
		"Quote "+q.QuoteReference+" for "+q.Origin+" to "+q.Destination+" is "+utils.FormatCents(total)+".", "")
	auditor(c).Record(middleware.UserID(c), "admin.quote_send", "quote", q.ID,
		"quote sent at "+utils.FormatCents(total), nil)

	updated, err := repo.GetByID(q.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "quote sent", gin.H{"quote": updated})
}

// AdminExpireQuotes sweeps quotes past their expiry. Normally cron calls
// this.
func AdminExpireQuotes(c *gin.Context) {
	n, err := repositories.QuoteRepository{}.ExpireStale(utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "stale quotes expired", gin.H{"expired": n})
}
