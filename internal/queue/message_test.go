package queue

import (
	"errors"
	"testing"
)

func TestDecodeMessageAcceptsWorkerPayload(t *testing.T) {
	got, err := DecodeMessage([]byte(`{"resumeId":"r-1","userId":"u-1","requestId":"req-1","version":1,"extra":true}`))
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.ResumeID != "r-1" || got.UserID != "u-1" || got.RequestID != "req-1" || got.Version != 1 {
		t.Fatalf("unexpected message %+v", got)
	}
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{bad")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestValidateRejectsIncompleteOrNewerMessages(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
	}{
		{"missing resume", Message{UserID: "u-1", Version: 1}},
		{"missing user", Message{ResumeID: "r-1", Version: 1}},
		{"newer version", Message{ResumeID: "r-1", UserID: "u-1", Version: CurrentVersion + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.msg.Validate(); !errors.Is(err, ErrInvalidMessage) {
				t.Fatalf("expected ErrInvalidMessage, got %v", err)
			}
		})
	}
	if err := (Message{ResumeID: "r-1", UserID: "u-1"}).Validate(); err != nil {
		t.Fatalf("unversioned message should validate: %v", err)
	}
}

func TestEncodeMessageStampsVersion(t *testing.T) {
	body, err := EncodeMessage(Message{ResumeID: "r-1", UserID: "u-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != CurrentVersion {
		t.Fatalf("expected version %d, got %d", CurrentVersion, got.Version)
	}
}
