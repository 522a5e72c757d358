package billing

import "errors"

var (
	ErrIdentityUnresolved = errors.New("billing identity unresolved")
	ErrAccountNotFound    = errors.New("billing account not found")
	ErrInvalidPlan        = errors.New("invalid subscription plan")
	ErrUnsupportedEvent   = errors.New("unsupported billing event")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrInvalidPayload     = errors.New("invalid webhook payload")
)
