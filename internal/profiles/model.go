package profiles

import (
	"time"

	"resume-builder/internal/billing"
)

// Profile is the per-user identity, billing and onboarding record.
type Profile struct {
	ID                  string            `json:"id"`
	Email               string            `json:"email"`
	FullName            string            `json:"fullName"`
	PictureURL          string            `json:"pictureUrl"`
	Billing             billing.State     `json:"billing"`
	OnboardingStep      int               `json:"onboardingStep"`
	OnboardingAnswers   map[string]string `json:"onboardingAnswers"`
	OnboardingCompleted bool              `json:"onboardingCompleted"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

func (p Profile) HasActiveSubscription() bool {
	return p.Billing.HasActiveSubscription()
}

// Onboarding is the stored progress through the onboarding flow.
type Onboarding struct {
	Step      int
	Answers   map[string]string
	Completed bool
}
