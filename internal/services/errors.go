package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers missing rows and rows the caller may not see yet
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is known but not allowed
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrUnauthenticated is returned when an operation needs an identity
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
)

// Rejection reasons reported by ValidationError.Reason
const (
	ReasonDuplicate         = "duplicate"
	ReasonInvalidVote       = "invalid_vote"
	ReasonInvalidPrediction = "invalid_prediction"
	ReasonConcluded         = "concluded"
	ReasonInvalidInput      = "invalid_input"
)

// ValidationError is a rejected write the caller can fix
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
