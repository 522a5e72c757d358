package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/shared/telemetry"
)

// Accounts resolves and persists billing state on user profiles.
type Accounts interface {
	FindByID(ctx context.Context, userID string) (Account, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (Account, error)
	FindByCustomerID(ctx context.Context, customerID string) (Account, error)
	SaveState(ctx context.Context, userID string, state State) error
}

// Result reports how an event was handled. Flagged events were acknowledged
// without a state change and sent for manual reconciliation.
type Result struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId,omitempty"`
	Changed   bool      `json:"changed"`
	Flagged   bool      `json:"flagged"`
	Reason    string    `json:"reason,omitempty"`
	State     State     `json:"-"`
}

// Service applies billing events to accounts.
type Service struct {
	Accounts Accounts
	Flagger  Flagger
	Now      func() time.Time
}

func NewService(accounts Accounts, flagger Flagger) *Service {
	if flagger == nil {
		flagger = LogFlagger{}
	}
	return &Service{Accounts: accounts, Flagger: flagger, Now: time.Now}
}

// Handle resolves the account for ev, applies the transition and persists
// the result. A non-nil error is a non-fatal failure signal: the event has
// already been flagged and should still be acknowledged.
func (s *Service) Handle(ctx context.Context, ev Event) (Result, error) {
	if s == nil || s.Accounts == nil {
		return Result{}, errors.New("billing service not configured")
	}
	op, err := Classify(ev)
	if err != nil {
		return Result{}, err
	}
	res := Result{Operation: op}
	if op == OpCheckoutExpired {
		return res, nil
	}
	if op == OpCheckoutCompleted && ev.SessionStatus == "expired" {
		return res, nil
	}

	acct, err := s.resolve(ctx, op, ev)
	if err != nil {
		return s.flag(ctx, ev, res, err)
	}
	res.UserID = acct.UserID

	next, err := Transition(op, acct.State, ev)
	if err != nil {
		return s.flag(ctx, ev, res, err)
	}
	res.State = next
	if next == acct.State {
		telemetry.Info("billing.event_noop", map[string]any{
			"event_id":  ev.ID,
			"operation": string(op),
			"user_id":   acct.UserID,
		})
		return res, nil
	}
	if err := s.Accounts.SaveState(ctx, acct.UserID, next); err != nil {
		return s.flag(ctx, ev, res, fmt.Errorf("save billing state: %w", err))
	}
	res.Changed = true
	telemetry.Info("billing.event_applied", map[string]any{
		"event_id":  ev.ID,
		"operation": string(op),
		"user_id":   acct.UserID,
		"plan":      string(next.Plan),
		"status":    string(next.Status),
	})
	return res, nil
}

func (s *Service) resolve(ctx context.Context, op Operation, ev Event) (Account, error) {
	switch op {
	case OpCheckoutCompleted:
		if ev.UserID == "" {
			return Account{}, ErrIdentityUnresolved
		}
		acct, err := s.Accounts.FindByID(ctx, ev.UserID)
		if errors.Is(err, ErrAccountNotFound) {
			return Account{UserID: ev.UserID}, nil
		}
		return acct, err
	case OpSubscriptionUpdated:
		if ev.UserID != "" {
			acct, err := s.Accounts.FindByID(ctx, ev.UserID)
			if err == nil || !errors.Is(err, ErrAccountNotFound) {
				return acct, err
			}
		}
		return s.bySubscription(ctx, ev)
	case OpPaymentSucceeded:
		acct, err := s.bySubscription(ctx, ev)
		if !errors.Is(err, ErrIdentityUnresolved) || ev.CustomerID == "" {
			return acct, err
		}
		telemetry.Warn("billing.resolve_by_customer", map[string]any{
			"event_id":        ev.ID,
			"subscription_id": ev.SubscriptionID,
			"customer_id":     ev.CustomerID,
		})
		acct, err = s.Accounts.FindByCustomerID(ctx, ev.CustomerID)
		if errors.Is(err, ErrAccountNotFound) {
			return Account{}, ErrIdentityUnresolved
		}
		return acct, err
	default:
		return s.bySubscription(ctx, ev)
	}
}

func (s *Service) bySubscription(ctx context.Context, ev Event) (Account, error) {
	if ev.SubscriptionID == "" {
		return Account{}, ErrIdentityUnresolved
	}
	acct, err := s.Accounts.FindBySubscriptionID(ctx, ev.SubscriptionID)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, ErrIdentityUnresolved
	}
	return acct, err
}

func (s *Service) flag(ctx context.Context, ev Event, res Result, cause error) (Result, error) {
	res.Flagged = true
	res.Reason = cause.Error()
	telemetry.Error("billing.event_failed", map[string]any{
		"event_id":        ev.ID,
		"event_type":      string(ev.Type),
		"operation":       string(res.Operation),
		"subscription_id": ev.SubscriptionID,
		"customer_id":     ev.CustomerID,
		"error":           cause.Error(),
	})
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	f := Flag{
		EventID:   ev.ID,
		EventType: ev.Type,
		Operation: res.Operation,
		UserID:    firstNonEmpty(res.UserID, ev.UserID),
		Reason:    res.Reason,
		FlaggedAt: now().UTC(),
	}
	if s.Flagger != nil {
		if err := s.Flagger.Flag(ctx, f); err != nil {
			telemetry.Error("billing.flag_failed", map[string]any{"event_id": ev.ID, "error": err.Error()})
		}
	}
	return res, cause
}
