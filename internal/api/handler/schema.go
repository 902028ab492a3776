package handler

import "github.com/aprodmayo/management-system/internal/core/domain"

// Transport-owned envelope types shared by every handler. These are
// intentionally separate from ports/domain types so the JSON contract is not
// coupled to internal service changes.

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type statusResponse struct {
	Status string `json:"status"`
}
