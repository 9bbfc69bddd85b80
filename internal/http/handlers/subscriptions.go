package handlers

import (
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// SubscriptionStatus returns the caller's current tier plus the plan
// catalog for the upgrade page.
func SubscriptionStatus(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	svc := subscriptions(c)
	RespondOK(c, "subscription status", gin.H{
		"subscription": svc.Status(u, utils.NowUTC()),
		"plans":        svc.Plans(),
	})
}

type upgradeRequest struct {
	Tier            string `json:"tier"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// UpgradeSubscription charges the plan price and activates the tier for 30
// days.
func UpgradeSubscription(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req upgradeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	payment, err := subscriptions(c).Upgrade(u, req.Tier, req.PaymentMethodID, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(u.ID, "subscription.upgrade", "user", u.ID, "upgraded to "+req.Tier, nil)
	RespondOK(c, "subscription upgraded", gin.H{"payment": payment})
}
