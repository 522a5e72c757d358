package llm

import (
	"context"
	"errors"
	"strings"
)

// Kind selects the prompt used for an enhancement.
type Kind string

const (
	KindSummary        Kind = "summary"
	KindResponsibility Kind = "responsibility"
)

// Request is a single piece of resume text to rewrite.
type Request struct {
	Kind     Kind
	Text     string
	JobTitle string
}

// Client abstracts LLM providers for text enhancement.
type Client interface {
	Enhance(ctx context.Context, req Request) (string, error)
}

// ErrEmptyInput is returned when there is nothing to enhance.
var ErrEmptyInput = errors.New("llm: empty input")

// PlaceholderClient is used when no provider is configured. It returns the
// input unchanged so the enhancement pipeline still completes locally.
type PlaceholderClient struct{}

func (PlaceholderClient) Enhance(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

var _ Client = PlaceholderClient{}
