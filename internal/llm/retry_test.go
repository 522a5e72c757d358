package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	errs  []error
	calls int
}

func (s *scripted) Enhance(ctx context.Context, req Request) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return "better " + req.Text, nil
}

func TestWithRetryRetriesTransientOnce(t *testing.T) {
	base := &scripted{errs: []error{errors.New("openai http status 503: busy")}}
	out, err := WithRetry(base, 0).Enhance(context.Background(), Request{Kind: KindSummary, Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "better x", out)
	assert.Equal(t, 2, base.calls)
}

func TestWithRetryStopsAfterSecondFailure(t *testing.T) {
	transient := errors.New("connection reset by peer")
	base := &scripted{errs: []error{transient, transient, nil}}
	_, err := WithRetry(base, 0).Enhance(context.Background(), Request{Text: "x"})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 2, base.calls)
}

func TestWithRetrySkipsPermanentErrors(t *testing.T) {
	base := &scripted{errs: []error{errors.New("openai http status 400: bad request")}}
	_, err := WithRetry(base, 0).Enhance(context.Background(), Request{Text: "x"})
	assert.Error(t, err)
	assert.Equal(t, 1, base.calls)
}

func TestPlaceholderEchoesInput(t *testing.T) {
	out, err := PlaceholderClient{}.Enhance(context.Background(), Request{Text: "  led a team  "})
	require.NoError(t, err)
	assert.Equal(t, "led a team", out)

	_, err = PlaceholderClient{}.Enhance(context.Background(), Request{Text: " "})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestUserPromptIncludesJobTitle(t *testing.T) {
	got := UserPrompt(Request{Text: "built things", JobTitle: "Engineer"})
	assert.Equal(t, "Job title: Engineer\n\nText:\nbuilt things", got)
	assert.Contains(t, SystemPrompt(KindSummary), "professional summary")
	assert.Contains(t, SystemPrompt(KindResponsibility), "bullet point")
}
