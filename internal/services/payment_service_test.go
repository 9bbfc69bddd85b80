package services

import (
	"errors"
	"testing"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func TestHandleWebhookBadSignature(t *testing.T) {
	s := PaymentService{
		ConstructEvtFn: func(_ []byte, _, _ string) (stripe.Event, error) {
			return stripe.Event{}, errors.New("bad signature")
		},
	}

	err := s.HandleWebhook([]byte(`{}`), "sig")
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	s := PaymentService{
		ConstructEvtFn: func(_ []byte, _, _ string) (stripe.Event, error) {
			return stripe.Event{Type: "customer.created"}, nil
		},
	}

	assert.NoError(t, s.HandleWebhook([]byte(`{}`), "sig"))
}

func TestHandleWebhookOrphanIntentAcknowledged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)+FROM payments WHERE stripe_payment_intent_id=").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		ConstructEvtFn: func(_ []byte, _, _ string) (stripe.Event, error) {
			return stripe.Event{
				Type: "payment_intent.succeeded",
				Data: &stripe.EventData{Raw: []byte(`{"id":"pi_unknown"}`)},
			}, nil
		},
	}

	// the gateway must get a 2xx or it retries forever
	assert.NoError(t, s.HandleWebhook([]byte(`{}`), "sig"))
}

func TestRefundRejectsUnsettledPayment(t *testing.T) {
	s := PaymentService{}
	err := s.Refund(models.Payment{Status: domain.PaymentPending, AmountCents: 1000}, 1000, "test", testNow())
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestRefundRejectsOverRefund(t *testing.T) {
	s := PaymentService{}
	p := models.Payment{Status: domain.PaymentPaid, AmountCents: 1000, StripePaymentIntentID: "pi_1"}

	err := s.Refund(p, 2000, "test", testNow())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = s.Refund(p, 0, "test", testNow())
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestRefundWithoutGatewayReference(t *testing.T) {
	s := PaymentService{}
	p := models.Payment{Status: domain.PaymentPaid, AmountCents: 1000}

	err := s.Refund(p, 500, "test", testNow())
	require.Error(t, err)
	assert.True(t, domain.IsPayment(err))
}

func TestConfirmRejectsAmountMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := paymentTestColumns()
	mock.ExpectQuery("SELECT(.|\n)+FROM payments WHERE stripe_payment_intent_id=").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(paymentTestRow("p1", "pi_1", 50000, "usd")...))

	s := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		GetIntentFn: func(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			return &stripe.PaymentIntent{
				ID:       id,
				Status:   stripe.PaymentIntentStatusSucceeded,
				Amount:   40000,
				Currency: stripe.CurrencyUSD,
			}, nil
		},
	}

	_, err = s.Confirm("pi_1")
	require.Error(t, err)
	assert.True(t, domain.IsPayment(err))
}

func TestConfirmRejectsIncompleteIntent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := paymentTestColumns()
	mock.ExpectQuery("SELECT(.|\n)+FROM payments WHERE stripe_payment_intent_id=").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(paymentTestRow("p1", "pi_1", 50000, "usd")...))

	s := PaymentService{
		PaymentRepo: repositories.PaymentRepository{DB: db},
		GetIntentFn: func(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			return &stripe.PaymentIntent{ID: id, Status: stripe.PaymentIntentStatusRequiresPaymentMethod}, nil
		},
	}

	_, err = s.Confirm("pi_1")
	require.Error(t, err)
	assert.True(t, domain.IsPayment(err))
}
