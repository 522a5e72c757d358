package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CurrentVersion is the message layout this build produces.
const CurrentVersion = 1

var ErrInvalidMessage = errors.New("invalid queue message")

// Client sends enhancement jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Message asks the worker to enhance one resume for its owner.
type Message struct {
	ResumeID   string `json:"resumeId"`
	UserID     string `json:"userId"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// Validate rejects jobs the worker cannot act on.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.ResumeID) == "":
		return fmt.Errorf("%w: resumeId missing", ErrInvalidMessage)
	case strings.TrimSpace(m.UserID) == "":
		return fmt.Errorf("%w: userId missing", ErrInvalidMessage)
	case m.Version > CurrentVersion:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidMessage, m.Version)
	}
	return nil
}

func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Version == 0 {
		msg.Version = CurrentVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a job payload; callers decide when to Validate.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
