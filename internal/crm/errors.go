package crm

import "fmt"

// MalformedResponseError reports a CRM response that is syntactically valid
// JSON but does not have the shape the decoder requires.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed CRM response: %s", e.Reason)
}

func malformed(format string, args ...any) *MalformedResponseError {
	return &MalformedResponseError{Reason: fmt.Sprintf(format, args...)}
}

// StatusError reports a non-2xx HTTP status from the CRM.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm: %s: unexpected status %d", e.Operation, e.StatusCode)
}
