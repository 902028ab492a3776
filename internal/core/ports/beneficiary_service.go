package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// CreateBeneficiaryInput carries all data captured at the intake interview.
type CreateBeneficiaryInput struct {
	FirstNames           string
	LastNames            string
	DocumentType         string
	DocumentNumber       string
	BirthDate            *time.Time
	Phone                string
	Address              string
	IntakeAt             time.Time
	ViolenceType         string
	SituationDescription string
	HealthNotes          string
	DependentsCount      int
	HousingStatus        string
	IntakeUserID         uint
}

// UpdateBeneficiaryInput is a partial update; nil fields are left unchanged.
// Only changed fields are re-validated.
type UpdateBeneficiaryInput struct {
	FirstNames           *string
	LastNames            *string
	DocumentType         *string
	DocumentNumber       *string
	BirthDate            *time.Time
	Phone                *string
	Address              *string
	ViolenceType         *string
	SituationDescription *string
	HealthNotes          *string
	DependentsCount      *int
	HousingStatus        *string
	FollowUpNotes        *string
}

// VisitInput carries one follow-up visit record.
type VisitInput struct {
	VisitAt          time.Time
	AttentionType    string
	Notes            string
	RecordedByUserID uint
}

// SearchBeneficiariesResult is one page of the case search.
type SearchBeneficiariesResult struct {
	Items      []*domain.Beneficiary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BeneficiaryService defines use-case operations for case records.
type BeneficiaryService interface {
	Create(ctx context.Context, input CreateBeneficiaryInput) (*domain.Beneficiary, error)
	Get(ctx context.Context, id uint) (*domain.Beneficiary, error)
	Update(ctx context.Context, id uint, patch UpdateBeneficiaryInput) (*domain.Beneficiary, error)
	// FlagFollowUp sets the follow-up flag and appends notes. The flag is
	// never cleared automatically; clearing requires ClearFollowUp.
	FlagFollowUp(ctx context.Context, id uint, notes string) (*domain.Beneficiary, error)
	ClearFollowUp(ctx context.Context, id uint) (*domain.Beneficiary, error)
	AddVisit(ctx context.Context, beneficiaryID uint, input VisitInput) (*domain.FollowUpVisit, error)
	ListVisits(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error)
	Search(ctx context.Context, filter SearchBeneficiariesFilter) (*SearchBeneficiariesResult, error)
	Deactivate(ctx context.Context, id uint) error
}
