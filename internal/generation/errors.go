package generation

import "errors"

// Common errors returned by generation services
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from generation model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by generation model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrCredentialInvalid is returned when the remote service rejects the
	// selected credential. It is surfaced through the invalidation callback,
	// never through the workflow's error message.
	ErrCredentialInvalid = errors.New("credential rejected by generation service")
)

// Errors describing which stage of the workflow failed
var (
	// ErrPosterGeneration wraps any failure of a poster generation request
	ErrPosterGeneration = errors.New("poster generation failed")

	// ErrLocationGeneration wraps any failure of a single location video request
	ErrLocationGeneration = errors.New("location video generation failed")
)
