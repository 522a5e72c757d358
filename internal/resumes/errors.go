package resumes

import "errors"

var (
	ErrNotFound          = errors.New("resume not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid field value")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNotList           = errors.New("section is not a list")
	ErrInvalidTransition = errors.New("invalid completion status transition")
	ErrUnknownTemplate   = errors.New("unknown template")
)
