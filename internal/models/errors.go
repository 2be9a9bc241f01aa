package models

// ErrorType classifies an activity failure for retry decisions.
type ErrorType string

const (
	// ErrorTypeFatal is a permanent failure (bad request, auth, not found).
	ErrorTypeFatal ErrorType = "fatal"
	// ErrorTypeTransient is a temporary failure worth retrying (5xx, network).
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypeAPILimit is a rate-limit response; retryable with backoff.
	ErrorTypeAPILimit ErrorType = "api_limit"
	// ErrorTypeContextOverflow means the prompt exceeded the model's context
	// window. Retrying the same request cannot succeed.
	ErrorTypeContextOverflow ErrorType = "context_overflow"
)

// ActivityError is a classified activity failure. Workflows inspect Type and
// Retryable to decide whether Temporal should retry the activity.
type ActivityError struct {
	Type      ErrorType `json:"type"`
	Retryable bool      `json:"retryable"`
	Message   string    `json:"message"`
}

func (e *ActivityError) Error() string {
	return string(e.Type) + ": " + e.Message
}

// NewActivityError builds a classified activity error.
func NewActivityError(t ErrorType, retryable bool, message string) *ActivityError {
	return &ActivityError{Type: t, Retryable: retryable, Message: message}
}
