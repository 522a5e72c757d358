package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"resume-builder/internal/billing"
)

type PGRepo struct {
	DB *sql.DB
}

const profileColumns = `id, email, full_name, picture_url, subscription_plan, subscription_status, subscription_id,
stripe_customer_id, payment_method, onboarding_step, onboarding_answers, onboarding_completed, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (id, email, full_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Email,
		nullableString(p.FullName),
		nullableString(p.PictureURL),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE subscription_id = $1 LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, subscriptionID))
}

func (r *PGRepo) GetByCustomerID(ctx context.Context, customerID string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE stripe_customer_id = $1 ORDER BY updated_at DESC LIMIT 1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, customerID))
}

func (r *PGRepo) SaveBilling(ctx context.Context, userID string, st billing.State) error {
	const query = `
INSERT INTO profiles (id, subscription_plan, subscription_status, subscription_id, stripe_customer_id, payment_method, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (id) DO UPDATE SET
  subscription_plan = EXCLUDED.subscription_plan,
  subscription_status = EXCLUDED.subscription_status,
  subscription_id = EXCLUDED.subscription_id,
  stripe_customer_id = EXCLUDED.stripe_customer_id,
  payment_method = EXCLUDED.payment_method,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		userID,
		nullableString(string(st.Plan)),
		nullableString(string(st.Status)),
		nullableString(st.SubscriptionID),
		nullableString(st.CustomerID),
		nullableString(st.PaymentMethod),
	)
	return err
}

func (r *PGRepo) SaveOnboarding(ctx context.Context, userID string, o Onboarding) error {
	answers := o.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO profiles (id, onboarding_step, onboarding_answers, onboarding_completed, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, now(), now())
ON CONFLICT (id) DO UPDATE SET
  onboarding_step = EXCLUDED.onboarding_step,
  onboarding_answers = EXCLUDED.onboarding_answers,
  onboarding_completed = EXCLUDED.onboarding_completed,
  updated_at = now()`
	_, err = r.DB.ExecContext(ctx, query, userID, o.Step, string(payload), o.Completed)
	return err
}

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	var fullName, pictureURL, plan, status, subscriptionID, customerID, paymentMethod sql.NullString
	var answers []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.Email,
		&fullName,
		&pictureURL,
		&plan,
		&status,
		&subscriptionID,
		&customerID,
		&paymentMethod,
		&p.OnboardingStep,
		&answers,
		&p.OnboardingCompleted,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.FullName = fullName.String
	p.PictureURL = pictureURL.String
	p.Billing = billing.State{
		Plan:           billing.Plan(plan.String),
		Status:         billing.Status(status.String),
		SubscriptionID: subscriptionID.String,
		CustomerID:     customerID.String,
		PaymentMethod:  paymentMethod.String,
	}
	p.OnboardingAnswers = map[string]string{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &p.OnboardingAnswers); err != nil {
			return Profile{}, err
		}
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	} else {
		p.UpdatedAt = time.Now().UTC()
	}
	return p, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
