package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/summary.txt
	summaryPrompt string
	//go:embed prompts/responsibility.txt
	responsibilityPrompt string
)

// SystemPrompt returns the instruction text for kind. Unknown kinds use the
// responsibility prompt.
func SystemPrompt(kind Kind) string {
	if kind == KindSummary {
		return strings.TrimSpace(summaryPrompt)
	}
	return strings.TrimSpace(responsibilityPrompt)
}

// UserPrompt renders the text to rewrite with its optional job title.
func UserPrompt(req Request) string {
	var b strings.Builder
	if title := strings.TrimSpace(req.JobTitle); title != "" {
		b.WriteString("Job title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString("Text:\n")
	b.WriteString(strings.TrimSpace(req.Text))
	return b.String()
}
