package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// BeneficiaryService implements case-record use cases.
type BeneficiaryService struct {
	repo   ports.BeneficiaryRepository
	logger zerolog.Logger
}

func NewBeneficiaryService(repo ports.BeneficiaryRepository, logger zerolog.Logger) *BeneficiaryService {
	return &BeneficiaryService{repo: repo, logger: logger}
}

// Create registers a new case record from the intake interview.
func (s *BeneficiaryService) Create(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error) {
	now := time.Now().UTC()

	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.FirstNames) == "" {
		verr.Add("first_names", "first names are required")
	}
	if strings.TrimSpace(input.LastNames) == "" {
		verr.Add("last_names", "last names are required")
	}
	if !domain.DocumentType(input.DocumentType).IsValid() {
		verr.Add("document_type", "unknown document type")
	}
	if input.BirthDate != nil && input.BirthDate.After(now) {
		verr.Add("birth_date", "birth date cannot be in the future")
	}
	if input.IntakeAt.IsZero() {
		verr.Add("intake_at", "intake date is required")
	} else if input.IntakeAt.After(now) {
		verr.Add("intake_at", "intake date cannot be in the future")
	}
	if !domain.ViolenceType(input.ViolenceType).IsValid() {
		verr.Add("violence_type", "unknown violence type")
	}
	if input.DependentsCount < 0 {
		verr.Add("dependents_count", "dependents count cannot be negative")
	}
	if !domain.HousingStatus(input.HousingStatus).IsValid() {
		verr.Add("housing_status", "unknown housing status")
	}
	if input.IntakeUserID == 0 {
		verr.Add("intake_user_id", "intake user is required")
	}
	if verr.HasFields() {
		return nil, verr
	}

	b := &domain.Beneficiary{
		Code:                 generateBeneficiaryCode(),
		FirstNames:           strings.TrimSpace(input.FirstNames),
		LastNames:            strings.TrimSpace(input.LastNames),
		DocumentType:         domain.DocumentType(input.DocumentType),
		DocumentNumber:       strings.TrimSpace(input.DocumentNumber),
		BirthDate:            input.BirthDate,
		Phone:                strings.TrimSpace(input.Phone),
		Address:              strings.TrimSpace(input.Address),
		IntakeAt:             input.IntakeAt,
		ViolenceType:         domain.ViolenceType(input.ViolenceType),
		SituationDescription: input.SituationDescription,
		HealthNotes:          input.HealthNotes,
		DependentsCount:      input.DependentsCount,
		HousingStatus:        domain.HousingStatus(input.HousingStatus),
		IntakeUserID:         input.IntakeUserID,
		Active:               true,
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create beneficiary")
		return nil, err
	}

	s.logger.Info().Str("code", created.Code).Str("violence_type", string(created.ViolenceType)).Msg("beneficiary registered")
	return created, nil
}

func (s *BeneficiaryService) Get(ctx context.Context, id uint) (*domain.Beneficiary, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update, re-validating only the fields present.
// Follow-up notes can only change here while the record is flagged.
func (s *BeneficiaryService) Update(ctx context.Context, id uint, patch ports.UpdateBeneficiaryInput) (*domain.Beneficiary, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	verr := &domain.ValidationError{}

	if patch.FirstNames != nil {
		name := strings.TrimSpace(*patch.FirstNames)
		if name == "" {
			verr.Add("first_names", "first names cannot be empty")
		}
		b.FirstNames = name
	}
	if patch.LastNames != nil {
		name := strings.TrimSpace(*patch.LastNames)
		if name == "" {
			verr.Add("last_names", "last names cannot be empty")
		}
		b.LastNames = name
	}
	if patch.DocumentType != nil {
		if !domain.DocumentType(*patch.DocumentType).IsValid() {
			verr.Add("document_type", "unknown document type")
		}
		b.DocumentType = domain.DocumentType(*patch.DocumentType)
	}
	if patch.DocumentNumber != nil {
		b.DocumentNumber = strings.TrimSpace(*patch.DocumentNumber)
	}
	if patch.BirthDate != nil {
		if patch.BirthDate.After(now) {
			verr.Add("birth_date", "birth date cannot be in the future")
		}
		b.BirthDate = patch.BirthDate
	}
	if patch.Phone != nil {
		b.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		b.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.ViolenceType != nil {
		if !domain.ViolenceType(*patch.ViolenceType).IsValid() {
			verr.Add("violence_type", "unknown violence type")
		}
		b.ViolenceType = domain.ViolenceType(*patch.ViolenceType)
	}
	if patch.SituationDescription != nil {
		b.SituationDescription = *patch.SituationDescription
	}
	if patch.HealthNotes != nil {
		b.HealthNotes = *patch.HealthNotes
	}
	if patch.DependentsCount != nil {
		if *patch.DependentsCount < 0 {
			verr.Add("dependents_count", "dependents count cannot be negative")
		}
		b.DependentsCount = *patch.DependentsCount
	}
	if patch.HousingStatus != nil {
		if !domain.HousingStatus(*patch.HousingStatus).IsValid() {
			verr.Add("housing_status", "unknown housing status")
		}
		b.HousingStatus = domain.HousingStatus(*patch.HousingStatus)
	}
	if patch.FollowUpNotes != nil {
		if !b.FollowUpRequired {
			return nil, domain.ErrFollowUpNotFlagged
		}
		b.FollowUpNotes = *patch.FollowUpNotes
	}
	if verr.HasFields() {
		return nil, verr
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("beneficiary_id", b.ID).Msg("beneficiary updated")
	return b, nil
}

// FlagFollowUp marks the record for follow-up, appending a dated note line.
func (s *BeneficiaryService) FlagFollowUp(ctx context.Context, id uint, notes string) (*domain.Beneficiary, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	combined := b.FollowUpNotes
	if note := strings.TrimSpace(notes); note != "" {
		line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02"), note)
		if combined == "" {
			combined = line
		} else {
			combined = combined + "\n" + line
		}
	}

	updated, err := s.repo.SetFollowUp(ctx, id, true, combined)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("beneficiary_id", id).Msg("follow-up flagged")
	return updated, nil
}

// ClearFollowUp removes the flag and its notes.
func (s *BeneficiaryService) ClearFollowUp(ctx context.Context, id uint) (*domain.Beneficiary, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetFollowUp(ctx, id, false, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("beneficiary_id", id).Msg("follow-up cleared")
	return updated, nil
}

// AddVisit records one follow-up attention for an existing case.
func (s *BeneficiaryService) AddVisit(ctx context.Context, beneficiaryID uint, input ports.VisitInput) (*domain.FollowUpVisit, error) {
	if _, err := s.repo.FindByID(ctx, beneficiaryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	verr := &domain.ValidationError{}
	if input.VisitAt.IsZero() {
		verr.Add("visit_at", "visit date is required")
	} else if input.VisitAt.After(now) {
		verr.Add("visit_at", "visit date cannot be in the future")
	}
	if !domain.AttentionType(input.AttentionType).IsValid() {
		verr.Add("attention_type", "unknown attention type")
	}
	if input.RecordedByUserID == 0 {
		verr.Add("recorded_by_user_id", "recording user is required")
	}
	if verr.HasFields() {
		return nil, verr
	}

	visit := &domain.FollowUpVisit{
		BeneficiaryID:    beneficiaryID,
		VisitAt:          input.VisitAt,
		AttentionType:    domain.AttentionType(input.AttentionType),
		Notes:            input.Notes,
		RecordedByUserID: input.RecordedByUserID,
	}

	created, err := s.repo.AddVisit(ctx, visit)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("beneficiary_id", beneficiaryID).Str("attention_type", string(created.AttentionType)).Msg("visit recorded")
	return created, nil
}

func (s *BeneficiaryService) ListVisits(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error) {
	if _, err := s.repo.FindByID(ctx, beneficiaryID); err != nil {
		return nil, err
	}
	return s.repo.ListVisits(ctx, beneficiaryID)
}

// Search returns one page of matching records, newest intake first.
func (s *BeneficiaryService) Search(ctx context.Context, filter ports.SearchBeneficiariesFilter) (*ports.SearchBeneficiariesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.ViolenceType != "" && !domain.ViolenceType(filter.ViolenceType).IsValid() {
		return nil, domain.NewValidationError("violence_type", "unknown violence type")
	}

	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &ports.SearchBeneficiariesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Deactivate closes the case record without deleting its history.
func (s *BeneficiaryService) Deactivate(ctx context.Context, id uint) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.Active {
		return nil
	}
	b.Active = false
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}
	s.logger.Info().Uint("beneficiary_id", id).Msg("beneficiary deactivated")
	return nil
}

// generateBeneficiaryCode returns a case code in the format BEN-XXXXXXXX.
func generateBeneficiaryCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("BEN-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("BEN-%08X", b)
}
