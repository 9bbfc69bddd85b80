package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const webhookBodyLimit = 64 << 10

// StripeWebhook verifies the gateway signature and applies the event. The
// endpoint is unauthenticated; the signature is the auth.
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "could not read webhook body", err)
		return
	}

	if err := payments(c).HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "webhook processed", nil)
}
