package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoUpdateSectionTouchesSingleColumn(t *testing.T) {
	repo, mock := newMockRepo(t)
	payload := json.RawMessage(`[{"jobTitle":"Engineer","responsibilities":["a","b"]}]`)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE resumes SET work_experience = $1::jsonb, updated_at = now() WHERE id = $2 AND user_id = $3`)).
		WithArgs(string(payload), "resume-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateSection(context.Background(), "user-1", "resume-1", SectionWorkExperience, payload); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateSectionRejectsUnknownSection(t *testing.T) {
	repo, mock := newMockRepo(t)
	err := repo.UpdateSection(context.Background(), "user-1", "resume-1", SectionName("title; DROP TABLE resumes"), json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateSectionNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE resumes SET skills").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSection(context.Background(), "user-1", "missing", SectionSkills, json.RawMessage(`{"hardSkills":[],"softSkills":[]}`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateCurrentStepIsMonotonic(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("SET current_step = GREATEST(current_step, $3)")).
		WithArgs("resume-1", "user-1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateCurrentStep(context.Background(), "user-1", "resume-1", 4); err != nil {
		t.Fatalf("UpdateCurrentStep: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetCurrentStepCanLower(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("SET current_step = $3, updated_at = now() WHERE id = $1 AND user_id = $2")).
		WithArgs("resume-1", "user-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetCurrentStep(context.Background(), "user-1", "resume-1", 2); err != nil {
		t.Fatalf("SetCurrentStep: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSavePresetGuardsOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("WHERE resume_profiles.user_id = EXCLUDED.user_id")).
		WithArgs("preset-1", "intruder", "mine", `{"fullName":"Eve","email":"","phone":""}`, true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SavePreset(context.Background(), Preset{
		ID: "preset-1", UserID: "intruder", Label: "mine",
		PersonalInfo: PersonalInfo{FullName: "Eve"}, IsDefault: true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// The owner's default flags are left alone.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSavePresetClearsOtherDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resume_profiles")).
		WithArgs("preset-1", "user-1", "work", `{"fullName":"Jane","email":"","phone":""}`, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE resume_profiles SET is_default = FALSE WHERE user_id = $1 AND id <> $2")).
		WithArgs("user-1", "preset-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.SavePreset(context.Background(), Preset{
		ID: "preset-1", UserID: "user-1", Label: "work",
		PersonalInfo: PersonalInfo{FullName: "Jane"}, IsDefault: true,
	})
	if err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusGuardsTransition(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE resumes SET completion_status = $1, updated_at = now() WHERE id = $2 AND completion_status IN ($3)`)).
		WithArgs("completed", "resume-1", "enhancing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("resume-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdateStatus(context.Background(), "resume-1", StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesSections(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "template_id", "personal_info", "professional_summary", "work_experience",
		"education", "certifications", "skills", "languages", "projects", "completion_status", "current_step",
		"created_at", "updated_at",
	}).AddRow(
		"resume-1", "user-1", "My resume", "modern",
		[]byte(`{"fullName":"Jane","email":"jane@example.com","phone":"1"}`),
		[]byte(`{"title":"Engineer","summary":"Builds things"}`),
		[]byte(`[{"jobTitle":"Engineer","companyName":"Acme","startDate":"2020","endDate":"","isCurrentJob":true,"responsibilities":["Ship"]}]`),
		[]byte(`[]`), []byte(`[]`),
		[]byte(`{"hardSkills":["Go"],"softSkills":[]}`),
		[]byte(`[]`), []byte(`[]`),
		"draft", 3, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM resumes WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("resume-1", "user-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.PersonalInfo.FullName != "Jane" || doc.TemplateID != "modern" || doc.CurrentStep != 3 {
		t.Fatalf("unexpected resume: %+v", doc)
	}
	if len(doc.WorkExperience) != 1 || doc.WorkExperience[0].Responsibilities[0] != "Ship" {
		t.Fatalf("unexpected work experience: %+v", doc.WorkExperience)
	}
	if doc.CompletionStatus != StatusDraft {
		t.Fatalf("unexpected status %q", doc.CompletionStatus)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM resumes").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
