package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAspectRatio is returned when an aspect ratio is not one of
	// the supported values.
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")

	// ErrInvalidVideoStatus is returned when a video status is not valid.
	ErrInvalidVideoStatus = errors.New("invalid video status")

	// ErrEmptyPrompt is returned when a location prompt is empty.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
