package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCancelAtPeriodEnd(t *testing.T) {
	op, err := Classify(Event{Type: EventSubscriptionUpdated, CancelAtPeriodEnd: true})
	require.NoError(t, err)
	assert.Equal(t, OpSubscriptionCanceled, op)

	op, err = Classify(Event{Type: EventSubscriptionUpdated})
	require.NoError(t, err)
	assert.Equal(t, OpSubscriptionUpdated, op)

	_, err = Classify(Event{Type: "customer.created"})
	assert.ErrorIs(t, err, ErrUnsupportedEvent)
}

func TestTransitionIsIdempotent(t *testing.T) {
	start := State{Plan: PlanMonthly, Status: StatusActive, SubscriptionID: "sub_123", CustomerID: "cus_1"}
	events := []Event{
		{Type: EventCheckoutCompleted, UserID: "u1", Plan: "yearly", SessionID: "cs_1", SessionStatus: "complete", SubscriptionID: "sub_123", CustomerID: "cus_1", PaymentMethod: "card"},
		{Type: EventCheckoutExpired, SessionID: "cs_2", SessionStatus: "expired"},
		{Type: EventSubscriptionUpdated, SubscriptionID: "sub_123", SubscriptionStatus: "trialing"},
		{Type: EventSubscriptionUpdated, SubscriptionID: "sub_123", SubscriptionStatus: "active", CancelAtPeriodEnd: true},
		{Type: EventSubscriptionDeleted, SubscriptionID: "sub_123"},
		{Type: EventInvoicePaymentFailed, SubscriptionID: "sub_123"},
		{Type: EventInvoicePaymentOK, SubscriptionID: "sub_123"},
	}
	for _, ev := range events {
		t.Run(string(ev.Type), func(t *testing.T) {
			op, err := Classify(ev)
			require.NoError(t, err)
			once, err := Transition(op, start, ev)
			require.NoError(t, err)
			twice, err := Transition(op, once, ev)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestGracePeriodUntilDeletion(t *testing.T) {
	state := State{Plan: PlanYearly, Status: StatusActive, SubscriptionID: "sub_123"}

	state, err := Transition(OpSubscriptionCanceled, state, Event{SubscriptionID: "sub_123"})
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, state.Status)
	assert.Equal(t, PlanYearly, state.Plan)
	assert.True(t, state.HasActiveSubscription())

	state, err = Transition(OpPaymentFailed, state, Event{SubscriptionID: "sub_123"})
	require.NoError(t, err)
	assert.False(t, state.HasActiveSubscription())

	state, err = Transition(OpSubscriptionDeleted, state, Event{SubscriptionID: "sub_123"})
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, state.Status)
	assert.Equal(t, PlanNone, state.Plan)
	assert.False(t, state.HasActiveSubscription())
}

func TestCheckoutCompletedOneTimePaymentUsesSessionID(t *testing.T) {
	next, err := Transition(OpCheckoutCompleted, State{}, Event{
		UserID: "u1", Plan: "lifetime", SessionID: "cs_9", SessionStatus: "complete",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_9", next.SubscriptionID)
	assert.Equal(t, PlanLifetime, next.Plan)
	assert.Equal(t, StatusActive, next.Status)
}

func TestCheckoutCompletedRejectsUnknownPlan(t *testing.T) {
	current := State{Plan: PlanMonthly, Status: StatusActive}
	next, err := Transition(OpCheckoutCompleted, current, Event{UserID: "u1", Plan: "weekly", SessionStatus: "complete"})
	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Equal(t, current, next)
}

func TestHasActiveSubscription(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{State{}, false},
		{State{Plan: PlanMonthly, Status: StatusActive}, true},
		{State{Plan: PlanMonthly, Status: StatusCanceled}, true},
		{State{Plan: PlanMonthly, Status: StatusPastDue}, false},
		{State{Plan: PlanNone, Status: StatusActive}, false},
		{State{Plan: PlanLifetime, Status: "trialing"}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.HasActiveSubscription(), "%+v", tt.state)
	}
}
