package api

import (
	"errors"
	"fmt"
)

// callError is the raw failure produced by Client.do. Status is zero for
// transport-level failures; Payload holds the server's error message when the
// response carried one.
type callError struct {
	Status  int
	Payload string
	Err     error
}

func (e *callError) Error() string {
	switch {
	case e.Payload != "" && e.Status > 0:
		return fmt.Sprintf("lead service error (status %d): %s", e.Status, e.Payload)
	case e.Payload != "":
		return "lead service error: " + e.Payload
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "lead service error"
	}
}

func (e *callError) Unwrap() error { return e.Err }

// Message returns the server payload when present, else the transport message.
func (e *callError) Message() string {
	if e.Payload != "" {
		return e.Payload
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

// asCall normalizes any error into a callError value for wrapping.
func asCall(err error) callError {
	var ce *callError
	if errors.As(err, &ce) {
		return *ce
	}
	return callError{Err: err}
}

// FetchError reports a failed lead list or search.
type FetchError struct{ callError }

// CreateError reports a failed lead creation.
type CreateError struct{ callError }

// UpdateError reports a failed lead update.
type UpdateError struct{ callError }

// DeleteError reports a failed lead deletion.
type DeleteError struct{ callError }

// NoteOpError reports a failed note operation.
type NoteOpError struct{ callError }

// ReminderOpError reports a failed reminder operation.
type ReminderOpError struct{ callError }

// NotFoundError reports a lead id that did not resolve.
type NotFoundError struct {
	ID string
	callError
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lead %s not found", e.ID)
}
