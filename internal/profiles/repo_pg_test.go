package profiles

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-builder/internal/billing"
)

func TestPGRepoSaveBillingUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles (id, subscription_plan")).
		WithArgs("u1", "yearly", "active", "sub_123", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SaveBilling(context.Background(), "u1", billing.State{
		Plan: billing.PlanYearly, Status: billing.StatusActive, SubscriptionID: "sub_123",
	})
	if err != nil {
		t.Fatalf("SaveBilling: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetBySubscriptionID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "email", "full_name", "picture_url", "subscription_plan", "subscription_status", "subscription_id",
		"stripe_customer_id", "payment_method", "onboarding_step", "onboarding_answers", "onboarding_completed",
		"created_at", "updated_at",
	}).AddRow("u1", "u1@example.com", nil, nil, "monthly", "past_due", "sub_123", "cus_1", "card", 2,
		[]byte(`{"goal.purpose":"job_search"}`), false, now, now)
	mock.ExpectQuery("FROM profiles WHERE subscription_id = \\$1").
		WithArgs("sub_123").
		WillReturnRows(rows)

	p, err := repo.GetBySubscriptionID(context.Background(), "sub_123")
	if err != nil {
		t.Fatalf("GetBySubscriptionID: %v", err)
	}
	if p.Billing.Plan != billing.PlanMonthly || p.Billing.Status != billing.StatusPastDue {
		t.Fatalf("unexpected billing state: %+v", p.Billing)
	}
	if p.OnboardingAnswers["goal.purpose"] != "job_search" {
		t.Fatalf("unexpected onboarding answers: %+v", p.OnboardingAnswers)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("FROM profiles WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
