package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Details
// is only populated for validation failures.
type errorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// Domain sentinels grouped by the HTTP status they map to. Matching against
// the sentinel (not err.Error()) keeps internal wrap prefixes out of
// responses.
var (
	unauthorizedErrors = []error{
		domain.ErrInvalidCredentials,
		domain.ErrUserInactive,
		domain.ErrTokenRevoked,
	}

	notFoundErrors = []error{
		domain.ErrUserNotFound,
		domain.ErrBeneficiaryNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrMemberNotFound,
		domain.ErrEntryNotFound,
		domain.ErrWorkshopNotFound,
		domain.ErrEnrollmentNotFound,
		domain.ErrCertificateNotFound,
	}

	conflictErrors = []error{
		domain.ErrInvalidTransition,
		domain.ErrDuplicateEmail,
		domain.ErrDuplicateCategory,
		domain.ErrDuplicateDuesPayment,
		domain.ErrDuplicateEnrollment,
		domain.ErrDuplicateCertificate,
		domain.ErrBootstrapClosed,
		domain.ErrWorkshopClosed,
		domain.ErrWorkshopNotCompleted,
		domain.ErrCategoryInactive,
		domain.ErrFollowUpNotFlagged,
	}
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, details := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg, Details: details})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []domain.FieldError) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Input validation carries per-field messages.
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "validation failed", verr.Fields
	}

	// Enrollment beyond capacity is a state conflict, not bad input.
	var cerr *domain.CapacityError
	if errors.As(err, &cerr) {
		return http.StatusConflict, cerr.Error(), nil
	}

	if msg, ok := matchSentinel(err, unauthorizedErrors); ok {
		return http.StatusUnauthorized, msg, nil
	}
	if errors.Is(err, domain.ErrForbidden) {
		return http.StatusForbidden, "access forbidden", nil
	}
	if msg, ok := matchSentinel(err, notFoundErrors); ok {
		return http.StatusNotFound, msg, nil
	}
	if msg, ok := matchSentinel(err, conflictErrors); ok {
		return http.StatusConflict, msg, nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}

func matchSentinel(err error, targets []error) (string, bool) {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}
