package profiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/billing"
	"resume-builder/internal/wizard"
)

func TestBillingAccountsMapsNotFound(t *testing.T) {
	accounts := BillingAccounts{Repo: NewMemoryRepo()}
	_, err := accounts.FindBySubscriptionID(context.Background(), "sub_missing")
	assert.ErrorIs(t, err, billing.ErrAccountNotFound)
}

func TestBillingScenarioThroughProfiles(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, Profile{ID: "u1", Email: "u1@example.com"}))
	svc := billing.NewService(BillingAccounts{Repo: repo}, nil)

	_, err := svc.Handle(ctx, billing.Event{
		ID: "evt_1", Type: billing.EventCheckoutCompleted, UserID: "u1", Plan: "monthly",
		SessionID: "cs_1", SessionStatus: "complete", SubscriptionID: "sub_123",
	})
	require.NoError(t, err)
	_, err = svc.Handle(ctx, billing.Event{ID: "evt_2", Type: billing.EventInvoicePaymentFailed, SubscriptionID: "sub_123"})
	require.NoError(t, err)

	p, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPastDue, p.Billing.Status)
	assert.Equal(t, billing.PlanMonthly, p.Billing.Plan)
	assert.Equal(t, "u1@example.com", p.Email)
}

func TestOnboardingFlowPersistsAndResumes(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	view, err := svc.Onboarding(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, view.Question)
	assert.Equal(t, "purpose", view.Question.Field)

	_, err = svc.OnboardingNext(ctx, "u1", "")
	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = svc.OnboardingNext(ctx, "u1", "career_change")
	require.NoError(t, err)
	view, err = svc.OnboardingNext(ctx, "u1", "false")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRecipientDetails, view.Position.StepType)

	// A fresh request rebuilds the same position from storage.
	view, err = svc.Onboarding(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRecipientDetails, view.Position.StepType)

	view, err = svc.OnboardingBack(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRecipient, view.Position.StepType)
}

func TestOnboardingCompletionReportsUpsell(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	for _, answer := range []string{"job_search", "true", "mid", "fintech"} {
		_, err := svc.OnboardingNext(ctx, "u1", answer)
		require.NoError(t, err)
	}
	view, err := svc.Onboarding(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, view.Completed)
	assert.True(t, view.NeedsUpsell)
	assert.Nil(t, view.Question)
}

func TestRequireActiveSubscription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.SaveBilling(ctx, "paid", billing.State{Plan: billing.PlanYearly, Status: billing.StatusCanceled}))
	require.NoError(t, repo.SaveBilling(ctx, "lapsed", billing.State{Status: billing.StatusInactive}))
	svc := NewService(repo)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User"))
		c.Next()
	})
	r.POST("/resumes", RequireActiveSubscription(svc), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for user, want := range map[string]int{
		"paid":    http.StatusCreated,
		"lapsed":  http.StatusPaymentRequired,
		"unknown": http.StatusPaymentRequired,
	} {
		req := httptest.NewRequest(http.MethodPost, "/resumes", nil)
		req.Header.Set("X-User", user)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		assert.Equal(t, want, resp.Code, user)
		if want == http.StatusPaymentRequired {
			assert.Contains(t, resp.Body.String(), `"redirect":"/pricing"`)
		}
	}
}
