package handler

import (
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// parseDate parses a calendar date into a UTC midnight instant. The field
// name feeds the validation error shown to the caller.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in "+dateLayout+" format")
	}
	return t, nil
}

// parseOptionalDate treats an empty value as the zero time, which query
// filters interpret as an open bound.
func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(field, value)
}

// parseMonth parses a 2006-01 value into the first instant of that month.
func parseMonth(field, value string) (time.Time, error) {
	t, err := time.Parse(monthLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a month in "+monthLayout+" format")
	}
	return t, nil
}
