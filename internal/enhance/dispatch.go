package enhance

import (
	"context"
	"time"

	"resume-builder/internal/queue"
)

// Job identifies a resume to enhance.
type Job struct {
	UserID    string
	ResumeID  string
	RequestID string
}

// Dispatcher hands a job to whatever runs Process.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// QueueDispatcher sends jobs to the worker queue.
type QueueDispatcher struct {
	Queue queue.Client
	Now   func() time.Time
}

func (d QueueDispatcher) Dispatch(ctx context.Context, job Job) error {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return d.Queue.Send(ctx, queue.Message{
		ResumeID:   job.ResumeID,
		UserID:     job.UserID,
		RequestID:  job.RequestID,
		EnqueuedAt: now().UTC().Format(time.RFC3339),
		Version:    queue.CurrentVersion,
	})
}

var _ Dispatcher = QueueDispatcher{}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, job Job) error

func (f DispatcherFunc) Dispatch(ctx context.Context, job Job) error {
	return f(ctx, job)
}
