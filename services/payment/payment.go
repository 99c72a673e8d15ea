package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeCollaborator registers a draft booking's grand total with Stripe
// and hands back the payment-intent id as the opaque reference. Capture and
// the pending_payment -> confirmed transition happen outside the engine.
type StripeCollaborator struct {
	Logger *zap.Logger
}

func NewStripeCollaborator(logger *zap.Logger) *StripeCollaborator {
	return &StripeCollaborator{Logger: logger}
}

func (s *StripeCollaborator) Register(ctx context.Context, bookingID string, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", bookingID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent for booking %s: %w", bookingID, err)
	}

	s.Logger.Info("payment intent created",
		zap.String("bookingID", bookingID),
		zap.String("intentID", intent.ID),
		zap.Int64("amount", amount))
	return intent.ID, nil
}

// NoopCollaborator is used in tests and local development without a Stripe
// key; the reference it returns is stable and recognizable.
type NoopCollaborator struct{}

func (NoopCollaborator) Register(_ context.Context, bookingID string, _ int64, _ string) (string, error) {
	return "pay_" + bookingID, nil
}
