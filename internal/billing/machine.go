package billing

// Classify maps an event to the operation it triggers.
func Classify(ev Event) (Operation, error) {
	switch ev.Type {
	case EventCheckoutCompleted:
		return OpCheckoutCompleted, nil
	case EventCheckoutExpired:
		return OpCheckoutExpired, nil
	case EventSubscriptionUpdated:
		if ev.CancelAtPeriodEnd {
			return OpSubscriptionCanceled, nil
		}
		return OpSubscriptionUpdated, nil
	case EventSubscriptionDeleted:
		return OpSubscriptionDeleted, nil
	case EventInvoicePaymentFailed:
		return OpPaymentFailed, nil
	case EventInvoicePaymentOK:
		return OpPaymentSucceeded, nil
	default:
		return "", ErrUnsupportedEvent
	}
}

// Transition derives the target state of an operation from the current
// state and the event. Every branch sets absolute values so replaying an
// event yields the same state.
func Transition(op Operation, current State, ev Event) (State, error) {
	next := current
	switch op {
	case OpCheckoutCompleted:
		if ev.SessionStatus == "expired" {
			return current, nil
		}
		plan, err := ParsePlan(ev.Plan)
		if err != nil {
			return current, err
		}
		next.Plan = plan
		next.Status = StatusActive
		next.SubscriptionID = ev.SubscriptionID
		if next.SubscriptionID == "" {
			next.SubscriptionID = ev.SessionID
		}
		if ev.CustomerID != "" {
			next.CustomerID = ev.CustomerID
		}
		if ev.PaymentMethod != "" {
			next.PaymentMethod = ev.PaymentMethod
		}
	case OpCheckoutExpired:
		return current, nil
	case OpSubscriptionUpdated:
		next.Status = Status(ev.SubscriptionStatus)
		if plan, err := ParsePlan(ev.Plan); err == nil {
			next.Plan = plan
		}
		if ev.SubscriptionID != "" {
			next.SubscriptionID = ev.SubscriptionID
		}
		if ev.CustomerID != "" {
			next.CustomerID = ev.CustomerID
		}
	case OpSubscriptionCanceled:
		next.Status = StatusCanceled
	case OpSubscriptionDeleted:
		next.Status = StatusInactive
		next.Plan = PlanNone
	case OpPaymentFailed:
		next.Status = StatusPastDue
	case OpPaymentSucceeded:
		if next.Status != StatusActive {
			next.Status = StatusActive
		}
	default:
		return current, ErrUnsupportedEvent
	}
	return next, nil
}
