package openai

import (
	"strings"

	"resume-builder/internal/llm"
)

// BuildMessages creates the chat messages for an enhancement request.
func BuildMessages(req llm.Request) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: llm.SystemPrompt(req.Kind)},
		{Role: "user", Content: llm.UserPrompt(req)},
	}
}

// cleanOutput strips wrappers models add despite instructions.
func cleanOutput(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "- ")
	text = strings.TrimPrefix(text, "• ")
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	return strings.TrimSpace(text)
}
