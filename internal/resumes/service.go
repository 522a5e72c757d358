package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
)

// TemplateLookup checks template ids against the catalog.
type TemplateLookup interface {
	Exists(ctx context.Context, templateID string) (bool, error)
}

// Service contains business logic for resumes.
type Service struct {
	Repo      Repo
	Templates TemplateLookup
	// PersistWait bounds how long a field update waits to report persistence.
	PersistWait time.Duration
	Now         func() time.Time
}

func NewService(repo Repo, templates TemplateLookup) *Service {
	return &Service{Repo: repo, Templates: templates, PersistWait: 3 * time.Second, Now: time.Now}
}

// CreateInput describes a new resume.
type CreateInput struct {
	Title        string
	TemplateID   string
	PersonalInfo *PersonalInfo
}

// Create stores a new draft resume.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	templateID := strings.TrimSpace(in.TemplateID)
	if templateID == "" {
		templateID = DefaultTemplateID
	}
	if err := s.checkTemplate(ctx, templateID); err != nil {
		return Resume{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Untitled resume"
	}
	now := s.now()
	doc := Resume{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            title,
		TemplateID:       templateID,
		WorkExperience:   []Experience{},
		Education:        []Education{},
		Certifications:   []Certification{},
		Skills:           Skills{HardSkills: []string{}, SoftSkills: []string{}},
		Languages:        []Language{},
		Projects:         []Project{},
		CompletionStatus: StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.PersonalInfo != nil {
		doc.PersonalInfo = *in.PersonalInfo
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{"resume_id": doc.ID, "user_id": userID, "template_id": templateID})
	return doc, nil
}

func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if strings.TrimSpace(resumeID) == "" {
		return Resume{}, fmt.Errorf("%w: resume id required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	return s.Repo.Delete(ctx, userID, resumeID)
}

// Update is the result of a subsection edit. Persisted is false when the
// write failed or had not finished within PersistWait; the edit is kept
// either way.
type Update struct {
	Resume    Resume
	Section   SectionName
	Value     any
	Persisted bool
	Warning   string
}

func (s *Service) UpdateField(ctx context.Context, userID, resumeID string, name SectionName, index *int, field string, value json.RawMessage) (Update, error) {
	return s.edit(ctx, userID, resumeID, func(e *Editor) (Edit, error) {
		return e.UpdateField(name, index, field, value)
	})
}

func (s *Service) AddItem(ctx context.Context, userID, resumeID string, name SectionName) (Update, error) {
	return s.edit(ctx, userID, resumeID, func(e *Editor) (Edit, error) {
		return e.AddItem(name)
	})
}

func (s *Service) RemoveItem(ctx context.Context, userID, resumeID string, name SectionName, index int) (Update, error) {
	return s.edit(ctx, userID, resumeID, func(e *Editor) (Edit, error) {
		return e.RemoveItem(name, index)
	})
}

func (s *Service) ReplaceSection(ctx context.Context, userID, resumeID string, name SectionName, value json.RawMessage) (Update, error) {
	return s.edit(ctx, userID, resumeID, func(e *Editor) (Edit, error) {
		return e.Replace(name, value)
	})
}

func (s *Service) edit(ctx context.Context, userID, resumeID string, op func(*Editor) (Edit, error)) (Update, error) {
	doc, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Update{}, err
	}
	editor := NewEditor(doc, s.Repo, func(w Warning) {
		telemetry.Warn("resume.persist_failed", map[string]any{
			"resume_id": w.ResumeID,
			"section":   string(w.Section),
			"error":     w.Message,
		})
	})
	ed, err := op(editor)
	if err != nil {
		return Update{}, err
	}
	out := Update{Resume: editor.Document(), Section: ed.Section, Value: ed.Value}
	out.Resume.CompletionStatus = s.reopen(ctx, doc)

	wait := s.PersistWait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case err := <-ed.Persisted:
		if err != nil {
			out.Warning = "your change was kept but could not be saved; it will be lost on reload"
		} else {
			out.Persisted = true
		}
	case <-timer.C:
		out.Warning = "your change is still being saved"
	case <-ctx.Done():
		out.Warning = "your change is still being saved"
	}
	return out, nil
}

// SetTemplate changes only the template id.
func (s *Service) SetTemplate(ctx context.Context, userID, resumeID, templateID string) (Resume, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return Resume{}, fmt.Errorf("%w: templateId required", ErrInvalidInput)
	}
	if err := s.checkTemplate(ctx, templateID); err != nil {
		return Resume{}, err
	}
	doc, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if err := s.Repo.UpdateTemplate(ctx, userID, resumeID, templateID); err != nil {
		return Resume{}, err
	}
	s.reopen(ctx, doc)
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// reopen moves a completed or failed resume back to draft after an edit and
// returns the resulting status. An enhancing resume is left alone.
func (s *Service) reopen(ctx context.Context, doc Resume) CompletionStatus {
	switch doc.CompletionStatus {
	case StatusCompleted, StatusError:
	default:
		return doc.CompletionStatus
	}
	if err := s.Repo.UpdateStatus(ctx, doc.ID, StatusDraft); err != nil {
		telemetry.Warn("resume.reopen_failed", map[string]any{"resume_id": doc.ID, "error": err.Error()})
		return doc.CompletionStatus
	}
	telemetry.Info("resume.status_changed", map[string]any{"resume_id": doc.ID, "status": string(StatusDraft)})
	return StatusDraft
}

// Transition moves the completion status, enforcing the lifecycle.
func (s *Service) Transition(ctx context.Context, resumeID string, to CompletionStatus) error {
	if err := s.Repo.UpdateStatus(ctx, resumeID, to); err != nil {
		return err
	}
	telemetry.Info("resume.status_changed", map[string]any{"resume_id": resumeID, "status": string(to)})
	return nil
}

// Checkpoint records the wizard position; lower values are ignored.
func (s *Service) Checkpoint(ctx context.Context, userID, resumeID string, step int) error {
	if step < 0 {
		return fmt.Errorf("%w: step must not be negative", ErrInvalidInput)
	}
	return s.Repo.UpdateCurrentStep(ctx, userID, resumeID, step)
}

// ResetCheckpoint moves the wizard position to step even when it is lower.
// It is used when an earlier answer changes the shape of the flow.
func (s *Service) ResetCheckpoint(ctx context.Context, userID, resumeID string, step int) error {
	if step < 0 {
		return fmt.Errorf("%w: step must not be negative", ErrInvalidInput)
	}
	if err := s.Repo.SetCurrentStep(ctx, userID, resumeID, step); err != nil {
		return err
	}
	telemetry.Info("resume.checkpoint_reset", map[string]any{"resume_id": resumeID, "step": step})
	return nil
}

func (s *Service) SaveQuizResponse(ctx context.Context, resumeID, key, value string) error {
	return s.Repo.SaveQuizResponse(ctx, QuizResponse{
		ResumeID:    resumeID,
		QuestionKey: key,
		Response:    value,
		CreatedAt:   s.now(),
	})
}

// QuizAnswers returns stored answers by question key.
func (s *Service) QuizAnswers(ctx context.Context, resumeID string) (map[string]string, error) {
	responses, err := s.Repo.ListQuizResponses(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(responses))
	for _, r := range responses {
		out[r.QuestionKey] = r.Response
	}
	return out, nil
}

func (s *Service) Presets(ctx context.Context, userID string) ([]Preset, error) {
	return s.Repo.ListPresets(ctx, userID)
}

// DefaultPreset returns the default preset, or the most recent one.
func (s *Service) DefaultPreset(ctx context.Context, userID string) (Preset, bool, error) {
	presets, err := s.Repo.ListPresets(ctx, userID)
	if err != nil || len(presets) == 0 {
		return Preset{}, false, err
	}
	return presets[0], true, nil
}

func (s *Service) SavePreset(ctx context.Context, userID string, p Preset) (Preset, error) {
	if strings.TrimSpace(p.PersonalInfo.FullName) == "" {
		return Preset{}, fmt.Errorf("%w: personalInfo.fullName required", ErrInvalidInput)
	}
	now := s.now()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UserID = userID
	p.UpdatedAt = now
	if err := s.Repo.SavePreset(ctx, p); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func (s *Service) checkTemplate(ctx context.Context, templateID string) error {
	if s.Templates == nil {
		return nil
	}
	ok, err := s.Templates.Exists(ctx, templateID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// IsClientError reports errors caused by the request rather than the store.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput, ErrUnknownSection, ErrUnknownField, ErrInvalidValue,
		ErrIndexOutOfRange, ErrNotList, ErrUnknownTemplate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
