package registry

import "errors"

// Reason classifies a rejected mutation.
type Reason string

const (
	ReasonMissingName     Reason = "missing_name"
	ReasonMissingURL      Reason = "missing_url"
	ReasonMissingDocument Reason = "missing_document"
	ReasonInvalidDocument Reason = "invalid_document"
	ReasonDuplicate       Reason = "duplicate"
	ReasonCollision       Reason = "identifier_collision"
	ReasonUnknownMode     Reason = "unknown_mode"
)

// ValidationError is returned for requests the registry refuses. Message is
// meant to be shown to the user as is.
type ValidationError struct {
	Reason  Reason
	Message string
}

func newValidationError(reason Reason, msg string) *ValidationError {
	return &ValidationError{Reason: reason, Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
