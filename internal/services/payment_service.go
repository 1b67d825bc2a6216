// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"github.com/stripe/stripe-go/v74/transfer"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/config"
	"github.com/parkspot/admin-backend/internal/models"
)

// PaymentService talks to the payment rail. Moderation decisions are
// recorded before any rail call; rail failures never revert a decision.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

func NewPaymentService(db *gorm.DB, config *config.Config, logger *logrus.Logger) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey
	return &PaymentService{
		db:     db,
		config: config,
		logger: logger,
	}
}

// IssueRefund sends the approved refund amount back through the original
// payment. Bookings without a payment reference (cash, imports) are settled
// off-rail and skipped here.
func (s *PaymentService) IssueRefund(booking *models.Booking, amount float64, reason string) (string, error) {
	if booking.PaymentReference == "" {
		s.logger.WithField("booking_code", booking.Code).Info("booking has no payment reference, refund settled off-rail")
		return "", nil
	}

	if amount <= 0 || amount > booking.Amount {
		return "", fmt.Errorf("%w: refund amount %.2f outside booking amount %.2f", ErrValidation, amount, booking.Amount)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(booking.PaymentReference),
		Amount:        stripe.Int64(int64(amount * 100)),
		Reason:        stripe.String("requested_by_customer"),
	}
	params.AddMetadata("booking_code", booking.Code)
	if reason != "" {
		params.AddMetadata("refund_reason", reason)
	}

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to issue refund: %w", err)
	}

	return r.ID, nil
}

// SendPayout moves the payout's final amount to the host's connected
// account and returns the rail transfer id.
func (s *PaymentService) SendPayout(payout *models.PayoutRequest) (string, error) {
	if payout.FinalAmount == nil {
		return "", fmt.Errorf("%w: payout has no final amount", ErrConflict)
	}

	account, ok := payout.AccountInfo["stripe_account_id"].(string)
	if !ok || account == "" {
		return "", errors.New("payout has no connected account on file")
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(int64(*payout.FinalAmount * 100)),
		Currency:    stripe.String("usd"),
		Destination: stripe.String(account),
	}
	params.AddMetadata("payout_request_id", payout.ID.String())

	t, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to send payout: %w", err)
	}

	return t.ID, nil
}

// VerifyPaymentIntent confirms a booking's payment succeeded on the rail
// before a refund decision relies on it.
func (s *PaymentService) VerifyPaymentIntent(reference string) error {
	pi, err := paymentintent.Get(reference, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment intent in status %s", ErrConflict, pi.Status)
	}

	return nil
}
