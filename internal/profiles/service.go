package profiles

import (
	"context"
	"errors"
	"strings"

	"resume-builder/internal/billing"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/wizard"
)

type Service struct {
	Repo Repo
	Flow *wizard.Flow
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Flow: wizard.OnboardingFlow()}
}

// UpsertFromAuth persists the identity returned by OAuth.
func (s *Service) UpsertFromAuth(ctx context.Context, p Profile) error {
	if s == nil || s.Repo == nil {
		return errors.New("profiles service not configured")
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Email) == "" {
		return errors.New("profile id and email are required")
	}
	return s.Repo.Upsert(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// HasActiveSubscription reports paid access; unknown users have none.
func (s *Service) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	p, err := s.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.HasActiveSubscription(), nil
}

// OnboardingView is the onboarding state presented to the client.
type OnboardingView struct {
	Question    *wizard.Question `json:"question,omitempty"`
	Position    wizard.Position  `json:"position"`
	Completed   bool             `json:"completed"`
	NeedsUpsell bool             `json:"needsUpsell"`
}

func (s *Service) Onboarding(ctx context.Context, userID string) (OnboardingView, error) {
	p, sess, err := s.onboardingSession(ctx, userID)
	if err != nil {
		return OnboardingView{}, err
	}
	return s.view(p, sess), nil
}

// OnboardingNext answers the current onboarding question.
func (s *Service) OnboardingNext(ctx context.Context, userID, value string) (OnboardingView, error) {
	p, sess, err := s.onboardingSession(ctx, userID)
	if err != nil {
		return OnboardingView{}, err
	}
	ans, err := sess.Next(value)
	if err != nil {
		return OnboardingView{}, err
	}
	p.OnboardingAnswers[ans.Key] = ans.Value
	p.OnboardingCompleted = p.OnboardingCompleted || sess.Done()
	if err := s.save(ctx, p, sess); err != nil {
		return OnboardingView{}, err
	}
	if sess.Done() {
		telemetry.Info("onboarding.completed", map[string]any{
			"user_id":      userID,
			"needs_upsell": !p.HasActiveSubscription(),
		})
	}
	return s.view(p, sess), nil
}

func (s *Service) OnboardingBack(ctx context.Context, userID string) (OnboardingView, error) {
	p, sess, err := s.onboardingSession(ctx, userID)
	if err != nil {
		return OnboardingView{}, err
	}
	if sess.Back() {
		if err := s.save(ctx, p, sess); err != nil {
			return OnboardingView{}, err
		}
	}
	return s.view(p, sess), nil
}

func (s *Service) onboardingSession(ctx context.Context, userID string) (Profile, *wizard.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, nil, errors.New("user id is required")
	}
	p, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		p = Profile{ID: userID}
	} else if err != nil {
		return Profile{}, nil, err
	}
	if p.OnboardingAnswers == nil {
		p.OnboardingAnswers = map[string]string{}
	}
	flags := s.Flow.FlagsFrom(p.OnboardingAnswers)
	return p, wizard.Restore(s.Flow, flags, p.OnboardingStep), nil
}

func (s *Service) save(ctx context.Context, p Profile, sess *wizard.Session) error {
	return s.Repo.SaveOnboarding(ctx, p.ID, Onboarding{
		Step:      sess.Checkpoint(),
		Answers:   p.OnboardingAnswers,
		Completed: p.OnboardingCompleted,
	})
}

func (s *Service) view(p Profile, sess *wizard.Session) OnboardingView {
	v := OnboardingView{
		Position:  sess.Position(),
		Completed: p.OnboardingCompleted,
	}
	if q, ok := sess.Current(); ok {
		v.Question = &q
	}
	if sess.Done() {
		v.NeedsUpsell = !p.HasActiveSubscription()
	}
	return v
}

// BillingAccounts adapts the profile store to billing.Accounts.
type BillingAccounts struct {
	Repo Repo
}

func (a BillingAccounts) FindByID(ctx context.Context, userID string) (billing.Account, error) {
	return toAccount(a.Repo.GetByID(ctx, userID))
}

func (a BillingAccounts) FindBySubscriptionID(ctx context.Context, subscriptionID string) (billing.Account, error) {
	return toAccount(a.Repo.GetBySubscriptionID(ctx, subscriptionID))
}

func (a BillingAccounts) FindByCustomerID(ctx context.Context, customerID string) (billing.Account, error) {
	return toAccount(a.Repo.GetByCustomerID(ctx, customerID))
}

func (a BillingAccounts) SaveState(ctx context.Context, userID string, st billing.State) error {
	return a.Repo.SaveBilling(ctx, userID, st)
}

func toAccount(p Profile, err error) (billing.Account, error) {
	if errors.Is(err, ErrNotFound) {
		return billing.Account{}, billing.ErrAccountNotFound
	}
	if err != nil {
		return billing.Account{}, err
	}
	return billing.Account{UserID: p.ID, State: p.Billing}, nil
}

var _ billing.Accounts = BillingAccounts{}
