package generator

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonCredentialsMissing Reason = "credentials_missing"
	ReasonNetwork            Reason = "network"
	ReasonServiceFailure     Reason = "service_failure"
	ReasonMalformedResponse  Reason = "malformed_response"
	ReasonTimeout            Reason = "timeout"
)

const (
	userMessageDefault     = "Could not generate workout. Please try again."
	userMessageCredentials = "Workout generation is not configured. Please contact the administrator."
	userMessageTimeout     = "The workout generator took too long to respond. Please try again."
)

// GenerationError is the only error type Generate returns.
type GenerationError struct {
	Reason Reason
	Step   string
	Err    error
}

func newError(reason Reason, step string, err error) *GenerationError {
	return &GenerationError{
		Reason: reason,
		Step:   step,
		Err:    err,
	}
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generate workout [%s] at %s", e.Reason, e.Step)
	}
	return fmt.Sprintf("generate workout [%s] at %s: %s", e.Reason, e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) FailureReason() string {
	return string(e.Reason)
}

// UserMessage is safe to show to the user.
func (e *GenerationError) UserMessage() string {
	switch e.Reason {
	case ReasonCredentialsMissing:
		return userMessageCredentials
	case ReasonTimeout:
		return userMessageTimeout
	default:
		return userMessageDefault
	}
}

var (
	ErrMissingAPIKey      = errors.New("assistant api key is not set")
	ErrMissingAssistantID = errors.New("assistant id is not set")
)
