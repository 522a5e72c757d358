package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

// DefaultRetryDelay is the pause before the single retry.
const DefaultRetryDelay = 300 * time.Millisecond

type retrying struct {
	base  Client
	delay time.Duration
}

// WithRetry wraps base so transient failures are retried once.
func WithRetry(base Client, delay time.Duration) Client {
	if base == nil {
		return nil
	}
	return retrying{base: base, delay: delay}
}

func (r retrying) Enhance(ctx context.Context, req Request) (string, error) {
	out, err := r.base.Enhance(ctx, req)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}
	telemetry.Warn("llm.retry", map[string]any{"kind": string(req.Kind), "error": err.Error()})
	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.base.Enhance(ctx, req)
}

// ShouldRetry reports whether err looks transient.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "http status 429") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") {
		return true
	}
	for _, marker := range []string{"connection reset", "connection refused", "connection closed", "broken pipe", "eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
