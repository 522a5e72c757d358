package billing

import "strings"

// Plan is the purchased subscription tier. The zero value means no plan.
type Plan string

const (
	PlanNone     Plan = ""
	PlanMonthly  Plan = "monthly"
	PlanYearly   Plan = "yearly"
	PlanLifetime Plan = "lifetime"
)

// ParsePlan maps a checkout planType to a Plan.
func ParsePlan(raw string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanMonthly:
		return PlanMonthly, nil
	case PlanYearly, "annual":
		return PlanYearly, nil
	case PlanLifetime:
		return PlanLifetime, nil
	default:
		return PlanNone, ErrInvalidPlan
	}
}

// Status is the subscription status. Values outside the named constants are
// stored as received from Stripe.
type Status string

const (
	StatusNone     Status = ""
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusInactive Status = "inactive"
)

// State is the billing portion of a user profile.
type State struct {
	Plan           Plan   `json:"subscriptionPlan"`
	Status         Status `json:"subscriptionStatus"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	CustomerID     string `json:"customerId,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
}

// HasActiveSubscription reports paid access. Canceled subscriptions keep
// access until Stripe deletes them at period end.
func (s State) HasActiveSubscription() bool {
	if s.Plan == PlanNone {
		return false
	}
	return s.Status == StatusActive || s.Status == StatusCanceled
}

// EventType is a Stripe webhook event type.
type EventType string

const (
	EventCheckoutCompleted    EventType = "checkout.session.completed"
	EventCheckoutExpired      EventType = "checkout.session.expired"
	EventSubscriptionUpdated  EventType = "customer.subscription.updated"
	EventSubscriptionDeleted  EventType = "customer.subscription.deleted"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
	EventInvoicePaymentOK     EventType = "invoice.payment_succeeded"
)

// Event is a Stripe event reduced to the fields the state machine reads.
type Event struct {
	ID                 string
	Type               EventType
	UserID             string
	Plan               string
	SessionID          string
	SessionStatus      string
	SubscriptionID     string
	CustomerID         string
	SubscriptionStatus string
	CancelAtPeriodEnd  bool
	PaymentMethod      string
}

// Operation names the transition an event triggers.
type Operation string

const (
	OpCheckoutCompleted    Operation = "checkout_completed"
	OpCheckoutExpired      Operation = "checkout_expired"
	OpSubscriptionUpdated  Operation = "subscription_updated"
	OpSubscriptionCanceled Operation = "subscription_canceled"
	OpSubscriptionDeleted  Operation = "subscription_deleted"
	OpPaymentFailed        Operation = "payment_failed"
	OpPaymentSucceeded     Operation = "payment_succeeded"
)

// Account is a profile as seen by the billing service.
type Account struct {
	UserID string
	State  State
}
