package profiles

import (
	"context"

	"resume-builder/internal/billing"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "profile not found" }

type Repo interface {
	Upsert(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, userID string) (Profile, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (Profile, error)
	GetByCustomerID(ctx context.Context, customerID string) (Profile, error)
	// SaveBilling creates the profile row when missing.
	SaveBilling(ctx context.Context, userID string, st billing.State) error
	// SaveOnboarding creates the profile row when missing.
	SaveOnboarding(ctx context.Context, userID string, o Onboarding) error
}
