package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/posterdrop/internal/access"
	"github.com/phrazzld/posterdrop/internal/api/shared"
	"github.com/phrazzld/posterdrop/internal/dataurl"
	"github.com/phrazzld/posterdrop/internal/domain"
	"github.com/phrazzld/posterdrop/internal/task"
	"github.com/phrazzld/posterdrop/internal/workflow"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, access.ErrAccessDenied),
		errors.Is(err, access.ErrAccessRequestFailed):
		return http.StatusForbidden

	case errors.Is(err, workflow.ErrPosterInFlight),
		errors.Is(err, workflow.ErrVideosInFlight),
		errors.Is(err, workflow.ErrPosterChanged):
		return http.StatusConflict

	case errors.Is(err, dataurl.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, workflow.ErrNoProductImage),
		errors.Is(err, workflow.ErrNothingToDispatch),
		errors.Is(err, domain.ErrInvalidAspectRatio),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, dataurl.ErrRead),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, task.ErrRunnerStopped):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, access.ErrAccessDenied):
		return "Access required: select an API key first"
	case errors.Is(err, access.ErrAccessRequestFailed):
		return "No API key could be selected"

	case errors.Is(err, workflow.ErrPosterInFlight):
		return "A poster is already being generated"
	case errors.Is(err, workflow.ErrVideosInFlight):
		return "Videos are already being generated"
	case errors.Is(err, workflow.ErrPosterChanged):
		return "The poster changed, request the videos again"
	case errors.Is(err, workflow.ErrNoProductImage):
		return "Upload a product image first"
	case errors.Is(err, workflow.ErrNothingToDispatch):
		return "Generate a poster and add at least one location first"

	case errors.Is(err, dataurl.ErrUnsupportedType):
		return "Only PNG, JPEG and WEBP images are supported"
	case errors.Is(err, dataurl.ErrRead):
		return workflow.MessageUploadFailed

	case errors.Is(err, domain.ErrInvalidAspectRatio):
		return "Invalid aspect ratio"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, task.ErrRunnerStopped):
		return "Server is shutting down"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field(), getValidationTagMessage(fieldErr.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
