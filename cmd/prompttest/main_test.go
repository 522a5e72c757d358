package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/config"
)

func TestPromptTestWithPlaceholderProvider(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(config.Config{LLMProvider: "none"}, strings.NewReader("led the billing migration"), &out)
	cmd.SetArgs([]string{"--kind", "responsibility", "--job-title", "SRE", "-"})

	require.NoError(t, cmd.Execute())
	text := out.String()
	assert.Contains(t, text, "Job title: SRE")
	assert.Contains(t, text, "--- result (none")
	assert.Contains(t, text, "led the billing migration")
}

func TestPromptOnlySkipsProvider(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(config.Config{LLMProvider: "openai"}, strings.NewReader(""), &out)
	cmd.SetArgs([]string{"--kind", "summary", "--prompt-only", "Go engineer"})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, out.String(), "--- result")
}
