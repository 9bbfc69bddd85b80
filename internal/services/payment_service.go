package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/webhook"
)

// PaymentService wraps the card gateway. The gateway calls sit behind
// function fields so tests can stub them without network access.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	Notifier    NotificationService
	RequestID   string

	WebhookSecret string

	CreateIntentFn func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetIntentFn    func(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	CreateRefundFn func(params *stripe.RefundParams) (*stripe.Refund, error)
	ConstructEvtFn func(payload []byte, sigHeader, secret string) (stripe.Event, error)
}

func (s PaymentService) createIntent(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if s.CreateIntentFn != nil {
		return s.CreateIntentFn(params)
	}
	return paymentintent.New(params)
}

func (s PaymentService) getIntent(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if s.GetIntentFn != nil {
		return s.GetIntentFn(id, params)
	}
	return paymentintent.Get(id, params)
}

func (s PaymentService) createRefund(params *stripe.RefundParams) (*stripe.Refund, error) {
	if s.CreateRefundFn != nil {
		return s.CreateRefundFn(params)
	}
	return refund.New(params)
}

// CreateIntent opens a gateway intent for a booking and records the pending
// payment row. The returned client secret drives the frontend card form.
func (s PaymentService) CreateIntent(user models.User, b models.Booking, currency string) (models.Payment, string, error) {
	if b.TotalCents <= 0 {
		return models.Payment{}, "", domain.ValidationError{Field: "booking", Msg: "booking has no amount due"}
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(b.TotalCents),
		Currency:     stripe.String(currency),
		ReceiptEmail: stripe.String(user.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", b.ID)
	params.AddMetadata("booking_reference", b.BookingReference)
	params.AddMetadata("user_id", user.ID)

	intent, err := s.createIntent(params)
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "intent_failed", "booking_id="+b.ID+" err="+err.Error())
		return models.Payment{}, "", domain.PaymentError{Msg: "could not start payment", Err: err}
	}

	payment := models.Payment{
		ID:                    utils.NewID(),
		PaymentReference:      utils.NewReference("PAY"),
		BookingID:             b.ID,
		UserID:                user.ID,
		AmountCents:           b.TotalCents,
		Currency:              currency,
		PaymentMethod:         "card",
		Status:                domain.PaymentPending,
		StripePaymentIntentID: intent.ID,
	}
	if meta, err := json.Marshal(map[string]string{"booking_reference": b.BookingReference}); err == nil {
		payment.Metadata = meta
	}
	if err := s.PaymentRepo.Create(payment); err != nil {
		return models.Payment{}, "", err
	}

	utils.LogEvent(s.RequestID, "payment", "intent_created", "payment_id="+payment.ID+" intent="+intent.ID)
	return payment, intent.ClientSecret, nil
}

// Confirm verifies a succeeded intent against the stored payment row. The
// amount and currency must match what was quoted; a mismatch is rejected
// rather than reconciled.
func (s PaymentService) Confirm(intentID string) (models.Payment, error) {
	payment, err := s.PaymentRepo.GetByIntentID(intentID)
	if err != nil {
		return models.Payment{}, err
	}

	params := &stripe.PaymentIntentParams{}
	params.AddExpand("latest_charge")
	intent, err := s.getIntent(intentID, params)
	if err != nil {
		return models.Payment{}, domain.PaymentError{Msg: "could not verify payment", Err: err}
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return models.Payment{}, domain.PaymentError{Msg: fmt.Sprintf("payment not completed (status %s)", intent.Status)}
	}
	if intent.Amount != payment.AmountCents || string(intent.Currency) != payment.Currency {
		utils.LogEvent(s.RequestID, "payment", "amount_mismatch",
			fmt.Sprintf("payment_id=%s want=%d%s got=%d%s",
				payment.ID, payment.AmountCents, payment.Currency, intent.Amount, intent.Currency))
		return models.Payment{}, domain.PaymentError{Msg: "payment amount does not match the booking"}
	}

	var chargeID, cardBrand, cardLast4 string
	if ch := intent.LatestCharge; ch != nil {
		chargeID = ch.ID
		if ch.PaymentMethodDetails != nil && ch.PaymentMethodDetails.Card != nil {
			cardBrand = string(ch.PaymentMethodDetails.Card.Brand)
			cardLast4 = ch.PaymentMethodDetails.Card.Last4
		}
	}
	if err := s.PaymentRepo.MarkPaid(payment.ID, chargeID, cardBrand, cardLast4); err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payment", "confirmed", "payment_id="+payment.ID)
	payment.Status = domain.PaymentPaid
	payment.StripeChargeID = chargeID
	payment.CardBrand = cardBrand
	payment.CardLast4 = cardLast4
	return payment, nil
}

// ChargeImmediate confirms a card on the spot, used for subscription
// purchases where no frontend card form is in play.
func (s PaymentService) ChargeImmediate(user models.User, amountCents int64, currency, description, paymentMethodID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(strings.ToLower(currency)),
		Description:   stripe.String(description),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
		ReceiptEmail:  stripe.String(user.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.AddMetadata("user_id", user.ID)

	intent, err := s.createIntent(params)
	if err != nil {
		return "", err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("charge not completed (status %s)", intent.Status)
	}
	return intent.ID, nil
}

// Refund sends money back on a settled payment and records the outcome.
func (s PaymentService) Refund(payment models.Payment, amountCents int64, reason string, now time.Time) error {
	if payment.Status != domain.PaymentPaid {
		return domain.ConflictError{Resource: "payment", Msg: "only settled payments can be refunded"}
	}
	if amountCents <= 0 || amountCents > payment.AmountCents {
		return domain.ValidationError{Field: "amount", Msg: "refund amount out of range"}
	}

	params := &stripe.RefundParams{
		Amount: stripe.Int64(amountCents),
		Reason: stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	if payment.StripePaymentIntentID != "" {
		params.PaymentIntent = stripe.String(payment.StripePaymentIntentID)
	} else if payment.StripeChargeID != "" {
		params.Charge = stripe.String(payment.StripeChargeID)
	} else {
		return domain.PaymentError{Msg: "payment has no gateway reference to refund"}
	}

	if _, err := s.createRefund(params); err != nil {
		utils.LogEvent(s.RequestID, "payment", "refund_failed", "payment_id="+payment.ID+" err="+err.Error())
		return domain.PaymentError{Msg: "refund was rejected by the gateway", Err: err}
	}
	if err := s.PaymentRepo.MarkRefunded(payment.ID, amountCents, reason, now); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "refunded", fmt.Sprintf("payment_id=%s cents=%d", payment.ID, amountCents))
	return nil
}

// HandleWebhook verifies and applies a gateway event. Unrecognized event
// types are acknowledged without action so the gateway stops retrying them.
func (s PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	construct := s.ConstructEvtFn
	if construct == nil {
		construct = webhook.ConstructEvent
	}
	event, err := construct(payload, sigHeader, s.WebhookSecret)
	if err != nil {
		return domain.UnauthorizedError{Msg: "webhook signature verification failed"}
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return err
		}
		return s.applyIntentSucceeded(intent)
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return err
		}
		return s.applyIntentFailed(intent)
	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return err
		}
		return s.applyChargeRefunded(charge)
	default:
		utils.LogEvent(s.RequestID, "payment", "webhook_ignored", "type="+string(event.Type))
		return nil
	}
}

func (s PaymentService) applyIntentSucceeded(intent stripe.PaymentIntent) error {
	payment, err := s.PaymentRepo.GetByIntentID(intent.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			utils.LogEvent(s.RequestID, "payment", "webhook_orphan", "intent="+intent.ID)
			return nil
		}
		return err
	}
	if payment.Status != domain.PaymentPending {
		return nil
	}

	var chargeID string
	if intent.LatestCharge != nil {
		chargeID = intent.LatestCharge.ID
	}
	if err := s.PaymentRepo.MarkPaid(payment.ID, chargeID, "", ""); err != nil {
		return err
	}
	if payment.BookingID != "" {
		if err := s.BookingRepo.SetStatus(payment.BookingID, domain.BookingConfirmed); err != nil && !domain.IsNotFound(err) {
			return err
		}
		if b, err := s.BookingRepo.GetByID(payment.BookingID); err == nil {
			s.Notifier.BookingConfirmed(payment.UserID, b)
		}
	}
	utils.LogEvent(s.RequestID, "payment", "webhook_paid", "payment_id="+payment.ID)
	return nil
}

func (s PaymentService) applyIntentFailed(intent stripe.PaymentIntent) error {
	payment, err := s.PaymentRepo.GetByIntentID(intent.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	reason := "card declined"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		reason = intent.LastPaymentError.Msg
	}
	if err := s.PaymentRepo.MarkFailed(payment.ID, reason); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "webhook_failed", "payment_id="+payment.ID+" reason="+reason)
	return nil
}

func (s PaymentService) applyChargeRefunded(charge stripe.Charge) error {
	if charge.PaymentIntent == nil {
		return nil
	}
	payment, err := s.PaymentRepo.GetByIntentID(charge.PaymentIntent.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if payment.Status == domain.PaymentRefunded {
		return nil
	}
	return s.PaymentRepo.MarkRefunded(payment.ID, charge.AmountRefunded, "gateway refund", time.Now().UTC())
}
