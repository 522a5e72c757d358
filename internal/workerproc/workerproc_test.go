package workerproc

import (
	"context"
	"errors"
	"testing"

	"resume-builder/internal/queue"
)

type processorFunc func(ctx context.Context, userID, resumeID string) error

func (f processorFunc) Process(ctx context.Context, userID, resumeID string) error {
	return f(ctx, userID, resumeID)
}

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage("  "); !errors.As(err, &ErrEmptyBody{}) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	var decodeErr ErrDecode
	if _, meta, err := ParseMessage("{bad"); !errors.As(err, &decodeErr) || meta.BodySHA == "" {
		t.Fatalf("expected ErrDecode with meta, got %v", err)
	}
	var missing ErrMissingResumeID
	if _, _, err := ParseMessage(`{"resumeId":"r-1","requestId":"req"}`); !errors.As(err, &missing) || missing.RequestID != "req" {
		t.Fatalf("expected ErrMissingResumeID, got %v", err)
	}
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	boom := errors.New("boom")
	var gotUser, gotResume string
	proc := processorFunc(func(_ context.Context, userID, resumeID string) error {
		gotUser, gotResume = userID, resumeID
		return boom
	})

	err := HandleMessage(context.Background(), proc, queue.Message{ResumeID: "r-1", UserID: "u-1", RequestID: "req-1"})
	var procErr ErrProcess
	if !errors.As(err, &procErr) || procErr.ResumeID != "r-1" || !errors.Is(err, boom) {
		t.Fatalf("expected ErrProcess wrapping boom, got %v", err)
	}
	if gotUser != "u-1" || gotResume != "r-1" {
		t.Fatalf("processor got %q/%q", gotUser, gotResume)
	}
}
