package billing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Verifier checks Stripe signatures and decodes events.
type Verifier struct {
	Secret string
}

// Parse verifies the Stripe-Signature header and normalizes the payload.
// Unsupported event types come back with only ID and Type populated.
func (v Verifier) Parse(payload []byte, signature string) (Event, error) {
	if strings.TrimSpace(v.Secret) == "" || strings.TrimSpace(signature) == "" {
		return Event{}, ErrInvalidSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, signature, v.Secret, webhook.DefaultTolerance); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	// Events from any API version are accepted; only the fields read below matter.
	var raw stripe.Event
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Normalize(raw)
}

// Normalize extracts the state machine fields from a verified Stripe event.
func Normalize(raw stripe.Event) (Event, error) {
	ev := Event{ID: raw.ID, Type: EventType(raw.Type)}
	if raw.Data == nil || len(raw.Data.Raw) == 0 {
		return ev, fmt.Errorf("%w: missing data.object", ErrInvalidPayload)
	}

	switch ev.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw.Data.Raw, &session); err != nil {
			return ev, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		ev.SessionID = session.ID
		ev.SessionStatus = string(session.Status)
		ev.UserID = firstNonEmpty(session.Metadata["userId"], session.ClientReferenceID)
		ev.Plan = session.Metadata["planType"]
		if session.Subscription != nil {
			ev.SubscriptionID = session.Subscription.ID
		}
		if session.Customer != nil {
			ev.CustomerID = session.Customer.ID
		}
		if len(session.PaymentMethodTypes) > 0 {
			ev.PaymentMethod = session.PaymentMethodTypes[0]
		}
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw.Data.Raw, &sub); err != nil {
			return ev, fmt.Errorf("%w: subscription: %v", ErrInvalidPayload, err)
		}
		ev.SubscriptionID = sub.ID
		ev.SubscriptionStatus = string(sub.Status)
		ev.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		ev.UserID = sub.Metadata["userId"]
		ev.Plan = sub.Metadata["planType"]
		if sub.Customer != nil {
			ev.CustomerID = sub.Customer.ID
		}
	case EventInvoicePaymentFailed, EventInvoicePaymentOK:
		var invoice stripe.Invoice
		if err := json.Unmarshal(raw.Data.Raw, &invoice); err != nil {
			return ev, fmt.Errorf("%w: invoice: %v", ErrInvalidPayload, err)
		}
		if invoice.Subscription != nil {
			ev.SubscriptionID = invoice.Subscription.ID
		}
		if invoice.Customer != nil {
			ev.CustomerID = invoice.Customer.ID
		}
	}
	return ev, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
