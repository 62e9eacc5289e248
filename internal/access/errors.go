package access

import "errors"

var (
	// ErrAccessDenied is returned by gated operations while the gate is unauthenticated.
	ErrAccessDenied = errors.New("access denied: no capability selected")

	// ErrAccessRequestFailed is returned when the capability provider cannot grant access.
	ErrAccessRequestFailed = errors.New("access request failed")
)
