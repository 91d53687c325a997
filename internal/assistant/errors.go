package assistant

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by RequestUpdate and Apply is an *UpdateError
// that matches exactly one of these with errors.Is.
var (
	// ErrConfiguration means no API key is configured. No request was sent.
	ErrConfiguration = errors.New("API key not configured")
	// ErrTransport covers network failures, timeouts, cancellation and API status errors.
	ErrTransport = errors.New("request to model failed")
	// ErrSchema means the response was not a JSON object of the expected shape, or
	// named project or resource ids the document does not have.
	ErrSchema = errors.New("response does not match the document schema")
	// ErrBusy means another update is already in flight.
	ErrBusy = errors.New("an AI update is already in progress")
	// ErrStale means the document was edited while the model was working.
	ErrStale = errors.New("document changed while the AI update was running")
)

// UpdateError is the single failure surfaced for an AI update. The document it was
// computed from is never modified when one is returned.
type UpdateError struct {
	Kind error // one of the Err* kinds above
	Err  error // underlying cause, may be nil
}

func (e *UpdateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("AI update failed: %v", e.Kind)
	}
	return fmt.Sprintf("AI update failed: %v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *UpdateError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func failure(kind, cause error) *UpdateError {
	return &UpdateError{Kind: kind, Err: cause}
}

// KindOf returns the failure kind of err, or nil if err is not an AI update failure.
func KindOf(err error) error {
	var ue *UpdateError
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return nil
}
