package apperrors

import "errors"

// Validation errors: user-correctable, never fatal to the process.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrBadRequest       = errors.New("bad request")
)

// Persistence and allocation errors: fatal to the request.
var (
	// ErrReferenceExists is returned by a repository when the generated
	// reference number is already in use; the service retries.
	ErrReferenceExists = errors.New("reference number already exists")

	// ErrReferenceExhausted is returned when the bounded retry budget
	// for reference allocation runs out. Distinct from a generic
	// persistence failure so it can be observed separately.
	ErrReferenceExhausted = errors.New("reference number allocation exhausted")

	// ErrPersistenceFailed is returned when the storage sink cannot
	// durably record an accepted application.
	ErrPersistenceFailed = errors.New("failed to persist application")
)

// Lookup errors.
var (
	ErrApplicationNotFound = errors.New("application not found")
)

// FieldError records a single failed field from the required-field
// sweep. The sweep collects every failure rather than stopping at the
// first one.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "Field '" + e.Field + "' is required"
}

// ValidationError aggregates field errors for a rejected submission.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Messages flattens the aggregated errors into user-facing strings.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return msgs
}

// Is reports whether err matches target or any error in errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
