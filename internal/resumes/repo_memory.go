package resumes

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in dev and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
	answers map[string]map[string]QuizResponse
	presets map[string][]Preset
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes: make(map[string]Resume),
		answers: make(map[string]map[string]QuizResponse),
		presets: make(map[string][]Preset),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resumes[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	doc, err := r.Get(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if doc.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) Get(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.resumes[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser returns resumes newest-updated first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	docs := make([]Resume, 0)
	for _, doc := range r.resumes {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	if offset >= len(docs) {
		return []Resume{}, nil
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.resumes[resumeID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	delete(r.resumes, resumeID)
	delete(r.answers, resumeID)
	return nil
}

func (r *MemoryRepo) UpdateSection(ctx context.Context, userID, resumeID string, name SectionName, payload json.RawMessage) error {
	return r.mutate(ctx, userID, resumeID, func(doc *Resume) error {
		next, err := Replace(*doc, name, payload)
		if err != nil {
			return err
		}
		*doc = next
		return nil
	})
}

func (r *MemoryRepo) UpdateTemplate(ctx context.Context, userID, resumeID, templateID string) error {
	return r.mutate(ctx, userID, resumeID, func(doc *Resume) error {
		doc.TemplateID = templateID
		return nil
	})
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, resumeID string, status CompletionStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.resumes[resumeID]
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(doc.CompletionStatus, status) {
		return ErrInvalidTransition
	}
	doc.CompletionStatus = status
	doc.UpdatedAt = time.Now().UTC()
	r.resumes[resumeID] = doc
	return nil
}

func (r *MemoryRepo) SetCurrentStep(ctx context.Context, userID, resumeID string, step int) error {
	return r.mutate(ctx, userID, resumeID, func(doc *Resume) error {
		doc.CurrentStep = step
		return nil
	})
}

func (r *MemoryRepo) UpdateCurrentStep(ctx context.Context, userID, resumeID string, step int) error {
	return r.mutate(ctx, userID, resumeID, func(doc *Resume) error {
		if step > doc.CurrentStep {
			doc.CurrentStep = step
		}
		return nil
	})
}

func (r *MemoryRepo) SaveQuizResponse(ctx context.Context, resp QuizResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[resp.ResumeID]; !ok {
		return ErrNotFound
	}
	if r.answers[resp.ResumeID] == nil {
		r.answers[resp.ResumeID] = make(map[string]QuizResponse)
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	r.answers[resp.ResumeID][resp.QuestionKey] = resp
	return nil
}

func (r *MemoryRepo) ListQuizResponses(ctx context.Context, resumeID string) ([]QuizResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]QuizResponse, 0, len(r.answers[resumeID]))
	for _, resp := range r.answers[resumeID] {
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].QuestionKey < out[j].QuestionKey
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListPresets returns the default preset first, then most recently updated.
func (r *MemoryRepo) ListPresets(ctx context.Context, userID string) ([]Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Preset(nil), r.presets[userID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) SavePreset(ctx context.Context, p Preset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for owner, presets := range r.presets {
		if owner == p.UserID {
			continue
		}
		for _, other := range presets {
			if other.ID == p.ID {
				return ErrNotFound
			}
		}
	}
	list := r.presets[p.UserID]
	for i := range list {
		if p.IsDefault {
			list[i].IsDefault = false
		}
	}
	replaced := false
	for i := range list {
		if list[i].ID == p.ID {
			p.CreatedAt = list[i].CreatedAt
			list[i] = p
			replaced = true
		}
	}
	if !replaced {
		list = append(list, p)
	}
	r.presets[p.UserID] = list
	return nil
}

func (r *MemoryRepo) mutate(ctx context.Context, userID, resumeID string, fn func(*Resume) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.resumes[resumeID]
	if !ok || doc.UserID != userID {
		return ErrNotFound
	}
	if err := fn(&doc); err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	r.resumes[resumeID] = doc
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
