package llm

import (
	"errors"
	"fmt"
)

// Error represents a provider-neutral chatkit error.
type Error struct {
	Type      ErrorType
	Message   string
	Retryable bool
	Attempts  int   // Set on request_failed errors: how many attempts were made
	Cause     error // Original underlying error, if any
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeProviderNotFound  ErrorType = "provider_not_found"
	ErrorTypeEmptyConversation ErrorType = "empty_conversation"
	ErrorTypeNoUserTurn        ErrorType = "no_user_turn"
	ErrorTypeBackend           ErrorType = "backend"
	ErrorTypeRequestFailed     ErrorType = "request_failed"
	ErrorTypeMissingCredential ErrorType = "missing_credential"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsProviderNotFoundError checks if an error is a provider-not-found error.
func IsProviderNotFoundError(err error) bool {
	return hasType(err, ErrorTypeProviderNotFound)
}

// IsEmptyConversationError checks if an error is an empty-conversation error.
func IsEmptyConversationError(err error) bool {
	return hasType(err, ErrorTypeEmptyConversation)
}

// IsNoUserTurnError checks if an error is a no-user-turn error.
func IsNoUserTurnError(err error) bool {
	return hasType(err, ErrorTypeNoUserTurn)
}

// IsBackendError checks if an error is a backend error.
func IsBackendError(err error) bool {
	return hasType(err, ErrorTypeBackend)
}

// IsRequestFailedError checks if an error is a terminal request-failed error.
func IsRequestFailedError(err error) bool {
	return hasType(err, ErrorTypeRequestFailed)
}

// IsMissingCredentialError checks if an error is a missing-credential error.
func IsMissingCredentialError(err error) bool {
	return hasType(err, ErrorTypeMissingCredential)
}

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	var ckErr *Error
	if errors.As(err, &ckErr) {
		return ckErr.Retryable
	}
	return false
}

// ExtractAttempts extracts the attempt count from a request-failed error.
// Returns 0 for any other error.
func ExtractAttempts(err error) int {
	var ckErr *Error
	if errors.As(err, &ckErr) {
		return ckErr.Attempts
	}
	return 0
}

func hasType(err error, t ErrorType) bool {
	var ckErr *Error
	if errors.As(err, &ckErr) {
		return ckErr.Type == t
	}
	return false
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewProviderNotFoundError creates a new provider-not-found error.
func NewProviderNotFoundError(providerID string) *Error {
	return &Error{
		Type:    ErrorTypeProviderNotFound,
		Message: fmt.Sprintf("provider %q is not registered", providerID),
	}
}

// NewEmptyConversationError creates a new empty-conversation error.
func NewEmptyConversationError() *Error {
	return &Error{
		Type:    ErrorTypeEmptyConversation,
		Message: "conversation has no messages and no system prompt",
	}
}

// NewNoUserTurnError creates a new no-user-turn error.
func NewNoUserTurnError() *Error {
	return &Error{
		Type:    ErrorTypeNoUserTurn,
		Message: "conversation has no user message to dispatch",
	}
}

// NewBackendError creates a new backend error. Backend failures are opaque
// to the orchestration core and always eligible for retry.
func NewBackendError(message string, cause error) *Error {
	return &Error{
		Type:      ErrorTypeBackend,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRequestFailedError creates the terminal wrapper emitted after the retry
// loop has exhausted its configured attempts.
func NewRequestFailedError(cause error, attempts int) *Error {
	return &Error{
		Type:     ErrorTypeRequestFailed,
		Message:  fmt.Sprintf("request failed after %d attempts", attempts),
		Attempts: attempts,
		Cause:    cause,
	}
}

// NewMissingCredentialError creates a new missing-credential error.
func NewMissingCredentialError(message string) *Error {
	return &Error{
		Type:    ErrorTypeMissingCredential,
		Message: message,
	}
}
