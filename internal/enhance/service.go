package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

const (
	DefaultPollEvery = 2 * time.Second
	DefaultMaxPolls  = 30

	processTimeout = 5 * time.Minute
	fanOut         = 4
)

// Documents is the storage the pipeline reads and writes.
type Documents interface {
	GetByID(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
	UpdateSection(ctx context.Context, userID, resumeID string, name resumes.SectionName, payload json.RawMessage) error
	UpdateStatus(ctx context.Context, resumeID string, status resumes.CompletionStatus) error
}

// Service runs AI enhancement of resume text.
type Service struct {
	Docs Documents
	LLM  llm.Client
	// Dispatcher is nil when jobs run in this process.
	Dispatcher Dispatcher
	Notifier   *Notifier
	PollEvery  time.Duration
	MaxPolls   int

	wg sync.WaitGroup
}

func NewService(docs Documents, client llm.Client, dispatcher Dispatcher) *Service {
	return &Service{
		Docs:       docs,
		LLM:        client,
		Dispatcher: dispatcher,
		Notifier:   NewNotifier(),
		PollEvery:  DefaultPollEvery,
		MaxPolls:   DefaultMaxPolls,
	}
}

// EnhanceText rewrites a single piece of text. An empty provider answer
// returns the original text.
func (s *Service) EnhanceText(ctx context.Context, req llm.Request) (string, error) {
	original := strings.TrimSpace(req.Text)
	if original == "" {
		return "", ErrEmptyText
	}
	req.Text = original
	out, err := s.LLM.Enhance(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if strings.TrimSpace(out) == "" {
		return original, nil
	}
	return strings.TrimSpace(out), nil
}

// Start moves the resume to enhancing and hands it to the dispatcher.
// Completed or failed resumes are reset to draft first. A resume that is
// already enhancing is left alone.
func (s *Service) Start(ctx context.Context, userID, resumeID string) error {
	doc, err := s.Docs.GetByID(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	switch doc.CompletionStatus {
	case resumes.StatusEnhancing:
		return nil
	case resumes.StatusCompleted, resumes.StatusError:
		if err := s.Docs.UpdateStatus(ctx, resumeID, resumes.StatusDraft); err != nil {
			return err
		}
	}
	if err := s.Docs.UpdateStatus(ctx, resumeID, resumes.StatusEnhancing); err != nil {
		return err
	}
	metrics.IncEnhancementStarted()
	telemetry.Info("enhance.started", map[string]any{"user_id": userID, "resume_id": resumeID})

	job := Job{UserID: userID, ResumeID: resumeID}
	if s.Dispatcher == nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
			defer cancel()
			_ = s.Process(ctx, job.UserID, job.ResumeID)
		}()
		return nil
	}
	if err := s.Dispatcher.Dispatch(ctx, job); err != nil {
		s.fail(resumeID, fmt.Errorf("dispatch: %w", err), time.Now())
		return err
	}
	return nil
}

// Wait blocks until in-process jobs finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Process enhances the summary and every responsibility. Any failure moves
// the resume to error and keeps the original text.
func (s *Service) Process(ctx context.Context, userID, resumeID string) (err error) {
	startedAt := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			s.fail(resumeID, err, startedAt)
		}
	}()

	doc, err := s.Docs.GetByID(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if doc.CompletionStatus != resumes.StatusEnhancing {
		telemetry.Warn("enhance.skipped", map[string]any{"resume_id": resumeID, "status": string(doc.CompletionStatus)})
		return nil
	}

	summary, experience, err := s.enhanceDocument(ctx, doc)
	if err != nil {
		s.fail(resumeID, err, startedAt)
		return err
	}
	if err := s.store(ctx, userID, resumeID, summary, experience); err != nil {
		s.fail(resumeID, err, startedAt)
		return err
	}
	if err := s.Docs.UpdateStatus(ctx, resumeID, resumes.StatusCompleted); err != nil {
		err = fmt.Errorf("mark completed: %w", err)
		s.fail(resumeID, err, startedAt)
		return err
	}
	s.Notifier.Publish(resumeID, resumes.StatusCompleted)
	metrics.IncEnhancementCompleted()
	metrics.ObserveEnhancementDurationMs(float64(time.Since(startedAt).Milliseconds()))
	telemetry.Info("enhance.completed", map[string]any{
		"user_id":     userID,
		"resume_id":   resumeID,
		"duration_ms": time.Since(startedAt).Milliseconds(),
	})
	return nil
}

func (s *Service) enhanceDocument(ctx context.Context, doc resumes.Resume) (resumes.ProfessionalSummary, []resumes.Experience, error) {
	summary := doc.ProfessionalSummary
	experience := make([]resumes.Experience, len(doc.WorkExperience))
	for i, exp := range doc.WorkExperience {
		exp.Responsibilities = append([]string(nil), exp.Responsibilities...)
		experience[i] = exp
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	if strings.TrimSpace(summary.Summary) != "" {
		g.Go(func() error {
			out, err := s.EnhanceText(gctx, llm.Request{Kind: llm.KindSummary, Text: summary.Summary, JobTitle: summary.Title})
			if err != nil {
				return fmt.Errorf("summary: %w", err)
			}
			summary.Summary = out
			return nil
		})
	}
	for i := range experience {
		for j, text := range experience[i].Responsibilities {
			if strings.TrimSpace(text) == "" {
				continue
			}
			g.Go(func() error {
				out, err := s.EnhanceText(gctx, llm.Request{Kind: llm.KindResponsibility, Text: text, JobTitle: experience[i].JobTitle})
				if err != nil {
					return fmt.Errorf("workExperience[%d].responsibilities[%d]: %w", i, j, err)
				}
				experience[i].Responsibilities[j] = out
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return resumes.ProfessionalSummary{}, nil, err
	}
	return summary, experience, nil
}

func (s *Service) store(ctx context.Context, userID, resumeID string, summary resumes.ProfessionalSummary, experience []resumes.Experience) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := s.Docs.UpdateSection(ctx, userID, resumeID, resumes.SectionProfessionalSummary, payload); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	if len(experience) == 0 {
		return nil
	}
	payload, err = json.Marshal(experience)
	if err != nil {
		return err
	}
	if err := s.Docs.UpdateSection(ctx, userID, resumeID, resumes.SectionWorkExperience, payload); err != nil {
		return fmt.Errorf("store work experience: %w", err)
	}
	return nil
}

func (s *Service) fail(resumeID string, cause error, startedAt time.Time) {
	// The caller's context may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Docs.UpdateStatus(ctx, resumeID, resumes.StatusError); err != nil && !errors.Is(err, resumes.ErrInvalidTransition) {
		telemetry.Error("enhance.fail_update", map[string]any{"resume_id": resumeID, "error": err.Error()})
	}
	s.failed(resumeID, cause, startedAt)
}

func (s *Service) failed(resumeID string, cause error, startedAt time.Time) {
	s.Notifier.Publish(resumeID, resumes.StatusError)
	metrics.IncEnhancementFailed()
	metrics.ObserveEnhancementDurationMs(float64(time.Since(startedAt).Milliseconds()))
	telemetry.Error("enhance.failed", map[string]any{"resume_id": resumeID, "error": sanitizeError(cause)})
}

// Await waits until the resume leaves enhancing. It wakes on in-process
// notifications and otherwise polls storage, so jobs finished by another
// process are seen too. Running out of polls moves the resume to error and
// returns ErrAwaitTimeout, so a later Start can retry it.
func (s *Service) Await(ctx context.Context, userID, resumeID string) (resumes.Resume, error) {
	startedAt := time.Now()
	updates, cancel := s.Notifier.Subscribe(resumeID)
	defer cancel()

	every := s.PollEvery
	if every <= 0 {
		every = DefaultPollEvery
	}
	maxPolls := s.MaxPolls
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for polls := 0; ; polls++ {
		doc, err := s.Docs.GetByID(ctx, userID, resumeID)
		if err != nil {
			return resumes.Resume{}, err
		}
		if doc.CompletionStatus != resumes.StatusEnhancing {
			return doc, nil
		}
		if polls >= maxPolls {
			return s.expire(ctx, userID, resumeID, startedAt)
		}
		select {
		case <-ctx.Done():
			return doc, ctx.Err()
		case <-updates:
		case <-ticker.C:
		}
	}
}

// expire fails a resume whose enhancement outlived the wait. A job that
// finished in the meantime wins and its result is returned as is.
func (s *Service) expire(ctx context.Context, userID, resumeID string, startedAt time.Time) (resumes.Resume, error) {
	err := s.Docs.UpdateStatus(ctx, resumeID, resumes.StatusError)
	expired := err == nil
	switch {
	case expired:
		s.failed(resumeID, ErrAwaitTimeout, startedAt)
	case errors.Is(err, resumes.ErrInvalidTransition):
	default:
		return resumes.Resume{}, err
	}
	doc, err := s.Docs.GetByID(ctx, userID, resumeID)
	if err != nil {
		return resumes.Resume{}, err
	}
	if expired {
		return doc, ErrAwaitTimeout
	}
	return doc, nil
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ").Replace(err.Error()))
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
