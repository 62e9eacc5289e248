package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNoAPIKey is returned when no API key is available to select.
	ErrNoAPIKey = errors.New("no Gemini API key available")

	// ErrNoKeySelected is returned by generators called before a key was selected.
	ErrNoKeySelected = errors.New("no Gemini API key selected")
)
