package resumes

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Persister writes one subsection of a resume.
type Persister interface {
	UpdateSection(ctx context.Context, userID, resumeID string, name SectionName, payload json.RawMessage) error
}

// Warning reports a failed background persist. The local document keeps the edit.
type Warning struct {
	ResumeID string      `json:"resumeId"`
	Section  SectionName `json:"section"`
	Message  string      `json:"message"`
	At       time.Time   `json:"at"`
}

// Edit is the outcome of a local edit. Persisted receives the result of the
// background write exactly once.
type Edit struct {
	Section   SectionName
	Value     any
	Persisted <-chan error
}

// Editor applies edits to a local copy of a resume and persists the touched
// subsection in the background. Local state is authoritative: failures are
// reported through the warning callback and never rolled back. Writes are not
// ordered; the last write to complete wins.
type Editor struct {
	persister Persister
	onWarning func(Warning)
	timeout   time.Duration

	mu  sync.Mutex
	doc Resume
	wg  sync.WaitGroup
}

// NewEditor wraps doc. onWarning may be nil.
func NewEditor(doc Resume, p Persister, onWarning func(Warning)) *Editor {
	return &Editor{persister: p, onWarning: onWarning, timeout: 10 * time.Second, doc: doc}
}

// Document returns the local copy.
func (e *Editor) Document() Resume {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *Editor) UpdateField(name SectionName, index *int, field string, value json.RawMessage) (Edit, error) {
	return e.edit(name, func(doc Resume) (Resume, error) {
		return UpdateField(doc, name, index, field, value)
	})
}

func (e *Editor) AddItem(name SectionName) (Edit, error) {
	return e.edit(name, func(doc Resume) (Resume, error) {
		return AddItem(doc, name)
	})
}

func (e *Editor) RemoveItem(name SectionName, index int) (Edit, error) {
	return e.edit(name, func(doc Resume) (Resume, error) {
		return RemoveItem(doc, name, index)
	})
}

func (e *Editor) Replace(name SectionName, value json.RawMessage) (Edit, error) {
	return e.edit(name, func(doc Resume) (Resume, error) {
		return Replace(doc, name, value)
	})
}

// Wait blocks until every background write has finished.
func (e *Editor) Wait() {
	e.wg.Wait()
}

func (e *Editor) edit(name SectionName, op func(Resume) (Resume, error)) (Edit, error) {
	e.mu.Lock()
	next, err := op(e.doc)
	if err != nil {
		e.mu.Unlock()
		return Edit{}, err
	}
	e.doc = next
	e.mu.Unlock()

	value, _ := SectionValue(next, name)
	payload, err := SectionPayload(next, name)
	if err != nil {
		return Edit{}, err
	}

	done := make(chan error, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		err := e.persister.UpdateSection(ctx, next.UserID, next.ID, name, payload)
		if err != nil && e.onWarning != nil {
			e.onWarning(Warning{
				ResumeID: next.ID,
				Section:  name,
				Message:  err.Error(),
				At:       time.Now().UTC(),
			})
		}
		done <- err
	}()
	return Edit{Section: name, Value: value, Persisted: done}, nil
}
