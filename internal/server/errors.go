// Package server provides the HTTP API for the post composer.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/generation"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		restoreErr    *dashboard.RestoreError
		actionErr     *dashboard.InvalidActionError
		dashUnknown   *dashboard.UnknownPlatformError
		genUnknown    *generation.UnknownPlatformError
		genErr        *generation.GenerationError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &restoreErr),
		errors.As(err, &actionErr),
		errors.As(err, &dashUnknown),
		errors.As(err, &genUnknown),
		errors.Is(err, dashboard.ErrNoPlatforms),
		errors.Is(err, dashboard.ErrNoScheduleDate),
		errors.Is(err, dashboard.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text shown to API callers. Upstream model
// failures are reported generically; the detail goes to the log only.
func publicMessage(err error) string {
	var genErr *generation.GenerationError
	if errors.As(err, &genErr) {
		return "Failed to generate content"
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
