package profiles

import (
	"context"
	"sync"
	"time"

	"resume-builder/internal/billing"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, p Profile) error {
	return r.update(ctx, p.ID, func(existing *Profile) {
		existing.Email = p.Email
		existing.FullName = p.FullName
		existing.PictureURL = p.PictureURL
	})
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (Profile, error) {
	return r.find(ctx, func(p Profile) bool { return p.ID == userID })
}

func (r *MemoryRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (Profile, error) {
	if subscriptionID == "" {
		return Profile{}, ErrNotFound
	}
	return r.find(ctx, func(p Profile) bool { return p.Billing.SubscriptionID == subscriptionID })
}

func (r *MemoryRepo) GetByCustomerID(ctx context.Context, customerID string) (Profile, error) {
	if customerID == "" {
		return Profile{}, ErrNotFound
	}
	return r.find(ctx, func(p Profile) bool { return p.Billing.CustomerID == customerID })
}

func (r *MemoryRepo) SaveBilling(ctx context.Context, userID string, st billing.State) error {
	return r.update(ctx, userID, func(existing *Profile) {
		existing.Billing = st
	})
}

func (r *MemoryRepo) SaveOnboarding(ctx context.Context, userID string, o Onboarding) error {
	answers := make(map[string]string, len(o.Answers))
	for k, v := range o.Answers {
		answers[k] = v
	}
	return r.update(ctx, userID, func(existing *Profile) {
		existing.OnboardingStep = o.Step
		existing.OnboardingAnswers = answers
		existing.OnboardingCompleted = o.Completed
	})
}

func (r *MemoryRepo) find(ctx context.Context, match func(Profile) bool) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found Profile
	ok := false
	for _, p := range r.profiles {
		if match(p) && (!ok || p.UpdatedAt.After(found.UpdatedAt)) {
			found = p
			ok = true
		}
	}
	if !ok {
		return Profile{}, ErrNotFound
	}
	return found, nil
}

func (r *MemoryRepo) update(ctx context.Context, userID string, fn func(*Profile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p, ok := r.profiles[userID]
	if !ok {
		p = Profile{ID: userID, CreatedAt: now}
	}
	fn(&p)
	p.UpdatedAt = now
	r.profiles[userID] = p
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
