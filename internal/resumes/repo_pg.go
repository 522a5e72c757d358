package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, template_id, personal_info, professional_summary, work_experience,
education, certifications, skills, languages, projects, completion_status, current_step, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, doc Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	payloads := make([]any, 0, len(Sections()))
	for _, name := range Sections() {
		b, err := SectionPayload(doc, name)
		if err != nil {
			return err
		}
		payloads = append(payloads, string(b))
	}
	args := []any{doc.ID, doc.UserID, doc.Title, doc.TemplateID}
	args = append(args, payloads...)
	args = append(args, string(doc.CompletionStatus), doc.CurrentStep, doc.CreatedAt, doc.UpdatedAt)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	return scanResume(r.DB.QueryRowContext(ctx, query, resumeID, userID))
}

func (r *PGRepo) Get(ctx context.Context, resumeID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`
	return scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	builder := psql.Select(resumeColumns).
		From("resumes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		doc, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// UpdateSection writes only the column backing name; sibling columns are untouched.
func (r *PGRepo) UpdateSection(ctx context.Context, userID, resumeID string, name SectionName, payload json.RawMessage) error {
	column, err := Column(name)
	if err != nil {
		return err
	}
	if !json.Valid(payload) {
		return fmt.Errorf("%w: %s payload is not JSON", ErrInvalidValue, name)
	}
	query, args, err := psql.Update("resumes").
		Set(column, sq.Expr("?::jsonb", string(payload))).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": resumeID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build section update: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) UpdateTemplate(ctx context.Context, userID, resumeID, templateID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET template_id = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		resumeID, userID, templateID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, resumeID string, status CompletionStatus) error {
	from := make([]string, 0, 2)
	for _, s := range AllowedFrom(status) {
		from = append(from, string(s))
	}
	if len(from) == 0 {
		return ErrInvalidTransition
	}
	query, args, err := psql.Update("resumes").
		Set("completion_status", string(status)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": resumeID}).
		Where(sq.Eq{"completion_status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if err := expectOne(res); !errors.Is(err, ErrNotFound) {
		return err
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM resumes WHERE id = $1)`, resumeID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrInvalidTransition
	}
	return ErrNotFound
}

func (r *PGRepo) UpdateCurrentStep(ctx context.Context, userID, resumeID string, step int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET current_step = GREATEST(current_step, $3), updated_at = now() WHERE id = $1 AND user_id = $2`,
		resumeID, userID, step)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) SetCurrentStep(ctx context.Context, userID, resumeID string, step int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET current_step = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		resumeID, userID, step)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) SaveQuizResponse(ctx context.Context, resp QuizResponse) error {
	const query = `
INSERT INTO resume_quiz_responses (resume_id, question_key, response, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (resume_id, question_key) DO UPDATE SET
  response = EXCLUDED.response,
  created_at = now()`
	_, err := r.DB.ExecContext(ctx, query, resp.ResumeID, resp.QuestionKey, resp.Response)
	return err
}

func (r *PGRepo) ListQuizResponses(ctx context.Context, resumeID string) ([]QuizResponse, error) {
	const query = `
SELECT resume_id, question_key, response, created_at
FROM resume_quiz_responses
WHERE resume_id = $1
ORDER BY created_at, question_key`
	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]QuizResponse, 0)
	for rows.Next() {
		var resp QuizResponse
		if err := rows.Scan(&resp.ResumeID, &resp.QuestionKey, &resp.Response, &resp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListPresets(ctx context.Context, userID string) ([]Preset, error) {
	const query = `
SELECT id, user_id, label, personal_info, is_default, created_at, updated_at
FROM resume_profiles
WHERE user_id = $1
ORDER BY is_default DESC, updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Preset, 0)
	for rows.Next() {
		var p Preset
		var info []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.Label, &info, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(info, &p.PersonalInfo); err != nil {
			return nil, fmt.Errorf("decode preset %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SavePreset upserts p. A default preset clears the flag on the user's other
// presets. An id owned by another user is reported as ErrNotFound.
func (r *PGRepo) SavePreset(ctx context.Context, p Preset) error {
	info, err := json.Marshal(p.PersonalInfo)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO resume_profiles (id, user_id, label, personal_info, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  label = EXCLUDED.label,
  personal_info = EXCLUDED.personal_info,
  is_default = EXCLUDED.is_default,
  updated_at = now()
WHERE resume_profiles.user_id = EXCLUDED.user_id`
	res, err := r.DB.ExecContext(ctx, query, p.ID, p.UserID, p.Label, string(info), p.IsDefault)
	if err != nil {
		return err
	}
	if err := expectOne(res); err != nil {
		return err
	}
	if p.IsDefault {
		if _, err := r.DB.ExecContext(ctx,
			`UPDATE resume_profiles SET is_default = FALSE WHERE user_id = $1 AND id <> $2`, p.UserID, p.ID); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var doc Resume
	var status string
	raw := make([][]byte, len(Sections()))
	dest := []any{&doc.ID, &doc.UserID, &doc.Title, &doc.TemplateID}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	dest = append(dest, &status, &doc.CurrentStep, &doc.CreatedAt, &doc.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	doc.CompletionStatus = CompletionStatus(status)
	body := make(map[SectionName]json.RawMessage, len(raw))
	for i, name := range Sections() {
		if len(raw[i]) > 0 {
			body[name] = raw[i]
		}
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Resume{}, err
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return Resume{}, fmt.Errorf("decode resume %s: %w", doc.ID, err)
	}
	return doc, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
