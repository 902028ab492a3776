package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// SearchBeneficiariesFilter carries all query parameters for the case search.
type SearchBeneficiariesFilter struct {
	Name         string // optional: substring match on first or last names (case-insensitive)
	ViolenceType string // optional: filter by violence type
	FollowUp     *bool  // optional: filter by follow-up-required flag
	ActiveOnly   bool   // when true, exclude deactivated records
	Page         int    // 1-based
	Limit        int    // max rows per page (capped at 100 by service)
}

// ViolenceTypeCount is one row of the counts-by-violence-type aggregate.
type ViolenceTypeCount struct {
	ViolenceType string `json:"violence_type"`
	Count        int64  `json:"count"`
}

// BeneficiaryRepository defines persistence operations for case records.
type BeneficiaryRepository interface {
	Create(ctx context.Context, b *domain.Beneficiary) (*domain.Beneficiary, error)
	FindByID(ctx context.Context, id uint) (*domain.Beneficiary, error)
	Update(ctx context.Context, b *domain.Beneficiary) error
	// SetFollowUp atomically updates the follow-up flag and notes on one record.
	SetFollowUp(ctx context.Context, id uint, required bool, notes string) (*domain.Beneficiary, error)
	// Search returns a page of records ordered by intake date descending and
	// the total match count.
	Search(ctx context.Context, filter SearchBeneficiariesFilter) ([]*domain.Beneficiary, int64, error)

	AddVisit(ctx context.Context, v *domain.FollowUpVisit) (*domain.FollowUpVisit, error)
	ListVisits(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error)

	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountFollowUpRequired(ctx context.Context) (int64, error)
	CountIntakesBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByViolenceType(ctx context.Context) ([]ViolenceTypeCount, error)
	// CountByBirthDateRange counts records whose birth date falls inside
	// [from, to). Records without a birth date are never counted.
	CountByBirthDateRange(ctx context.Context, from, to time.Time) (int64, error)
}
