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

// WorkshopService implements the workshop register use cases.
type WorkshopService struct {
	repo          ports.WorkshopRepository
	beneficiaries ports.BeneficiaryRepository
	logger        zerolog.Logger
}

func NewWorkshopService(repo ports.WorkshopRepository, beneficiaries ports.BeneficiaryRepository, logger zerolog.Logger) *WorkshopService {
	return &WorkshopService{repo: repo, beneficiaries: beneficiaries, logger: logger}
}

// Schedule creates a workshop in the scheduled state.
func (s *WorkshopService) Schedule(ctx context.Context, input ports.ScheduleWorkshopInput) (*domain.Workshop, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "name is required")
	}
	if input.StartDate.IsZero() {
		verr.Add("start_date", "start date is required")
	}
	if input.EndDate.IsZero() {
		verr.Add("end_date", "end date is required")
	} else if !input.StartDate.IsZero() && input.EndDate.Before(input.StartDate) {
		verr.Add("end_date", "end date precedes start date")
	}
	if input.Capacity <= 0 {
		verr.Add("capacity", "capacity must be greater than zero")
	}
	if verr.HasFields() {
		return nil, verr
	}

	w := &domain.Workshop{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		ScheduleText: strings.TrimSpace(input.ScheduleText),
		Location:     strings.TrimSpace(input.Location),
		Capacity:     input.Capacity,
		Facilitator:  strings.TrimSpace(input.Facilitator),
		Status:       domain.StatusScheduled,
		Notes:        input.Notes,
	}

	created, err := s.repo.Create(ctx, w)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to schedule workshop")
		return nil, err
	}

	s.logger.Info().Uint("workshop_id", created.ID).Str("name", created.Name).Msg("workshop scheduled")
	return created, nil
}

func (s *WorkshopService) Get(ctx context.Context, id uint) (*domain.Workshop, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. Terminal workshops are read-only, and
// capacity may not drop below the current active enrollment.
func (s *WorkshopService) Update(ctx context.Context, id uint, patch ports.UpdateWorkshopInput) (*domain.Workshop, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status == domain.StatusCompleted || w.Status == domain.StatusCancelled {
		return nil, domain.ErrWorkshopClosed
	}

	verr := &domain.ValidationError{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			verr.Add("name", "name cannot be empty")
		}
		w.Name = name
	}
	if patch.Description != nil {
		w.Description = *patch.Description
	}
	if patch.StartDate != nil {
		w.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		w.EndDate = *patch.EndDate
	}
	if w.EndDate.Before(w.StartDate) {
		verr.Add("end_date", "end date precedes start date")
	}
	if patch.ScheduleText != nil {
		w.ScheduleText = strings.TrimSpace(*patch.ScheduleText)
	}
	if patch.Location != nil {
		w.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Capacity != nil {
		if *patch.Capacity <= 0 {
			verr.Add("capacity", "capacity must be greater than zero")
		} else {
			enrolled, err := s.repo.CountActiveEnrollments(ctx, id)
			if err != nil {
				return nil, err
			}
			if int64(*patch.Capacity) < enrolled {
				verr.Add("capacity", fmt.Sprintf("capacity cannot drop below current enrollment (%d)", enrolled))
			}
		}
		w.Capacity = *patch.Capacity
	}
	if patch.Facilitator != nil {
		w.Facilitator = strings.TrimSpace(*patch.Facilitator)
	}
	if patch.Notes != nil {
		w.Notes = *patch.Notes
	}
	if verr.HasFields() {
		return nil, verr
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("workshop_id", w.ID).Msg("workshop updated")
	return w, nil
}

func (s *WorkshopService) List(ctx context.Context, filter ports.ListWorkshopsFilter) (*ports.ListWorkshopsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Status != "" {
		switch domain.WorkshopStatus(filter.Status) {
		case domain.StatusScheduled, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled:
		default:
			return nil, domain.NewValidationError("status", "unknown workshop status")
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &ports.ListWorkshopsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Transition moves the workshop through the status machine.
func (s *WorkshopService) Transition(ctx context.Context, id uint, next string) (*domain.Workshop, error) {
	target := domain.WorkshopStatus(next)
	switch target {
	case domain.StatusScheduled, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled:
	default:
		return nil, domain.NewValidationError("status", "unknown workshop status")
	}

	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.Status.CanTransitionTo(target) {
		s.logger.Warn().Uint("workshop_id", id).Str("from", string(w.Status)).Str("to", string(target)).Msg("rejected status transition")
		return nil, domain.ErrInvalidTransition
	}

	w.Status = target
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("workshop_id", id).Str("status", string(target)).Msg("workshop transitioned")
	return w, nil
}

// RefreshStatuses advances workshop statuses from the calendar: scheduled
// workshops whose start date has been reached move to in_progress, and
// in-progress workshops whose end date has passed move to completed. Both
// steps may apply in one pass. Cancelled workshops are never touched.
func (s *WorkshopService) RefreshStatuses(ctx context.Context, today time.Time) (int, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	workshops, err := s.repo.ListByStatuses(ctx, domain.StatusScheduled, domain.StatusInProgress)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, w := range workshops {
		changed := false
		if w.Status == domain.StatusScheduled && !startOfDay(w.StartDate).After(day) && w.Status.CanTransitionTo(domain.StatusInProgress) {
			w.Status = domain.StatusInProgress
			changed = true
		}
		if w.Status == domain.StatusInProgress && startOfDay(w.EndDate).Before(day) && w.Status.CanTransitionTo(domain.StatusCompleted) {
			w.Status = domain.StatusCompleted
			changed = true
		}
		if !changed {
			continue
		}
		if err := s.repo.Update(ctx, w); err != nil {
			return updated, err
		}
		s.logger.Info().Uint("workshop_id", w.ID).Str("status", string(w.Status)).Msg("workshop status refreshed")
		updated++
	}
	return updated, nil
}

// Enroll adds a beneficiary to a workshop. The repository re-checks status
// and capacity under a row lock; the checks here give fast failures and
// precise errors for the common cases.
func (s *WorkshopService) Enroll(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
	w, err := s.repo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if !w.Status.AcceptsEnrollments() {
		return nil, domain.ErrWorkshopClosed
	}
	if _, err := s.beneficiaries.FindByID(ctx, beneficiaryID); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enroll(ctx, workshopID, beneficiaryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("workshop_id", workshopID).Uint("beneficiary_id", beneficiaryID).Msg("beneficiary enrolled")
	return enrollment, nil
}

// Withdraw frees the seat held by a beneficiary. The enrollment row stays
// on record, inactive.
func (s *WorkshopService) Withdraw(ctx context.Context, workshopID, beneficiaryID uint) error {
	if _, err := s.repo.FindByID(ctx, workshopID); err != nil {
		return err
	}
	if err := s.repo.Withdraw(ctx, workshopID, beneficiaryID); err != nil {
		return err
	}
	s.logger.Info().Uint("workshop_id", workshopID).Uint("beneficiary_id", beneficiaryID).Msg("beneficiary withdrawn")
	return nil
}

func (s *WorkshopService) ListEnrollments(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error) {
	if _, err := s.repo.FindByID(ctx, workshopID); err != nil {
		return nil, err
	}
	return s.repo.ListEnrollments(ctx, workshopID)
}

// RecordAttendance upserts one attendance row per enrollment per session
// date. Attendance can only be taken once the workshop has started.
func (s *WorkshopService) RecordAttendance(ctx context.Context, workshopID uint, input ports.AttendanceInput) (*domain.Attendance, error) {
	w, err := s.repo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.StatusInProgress && w.Status != domain.StatusCompleted {
		return nil, domain.ErrWorkshopClosed
	}

	if input.SessionDate.IsZero() {
		return nil, domain.NewValidationError("session_date", "session date is required")
	}

	enrollment, err := s.repo.FindEnrollmentByID(ctx, input.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.WorkshopID != workshopID {
		return nil, domain.ErrEnrollmentNotFound
	}
	if !enrollment.Active {
		return nil, domain.ErrEnrollmentNotFound
	}

	a := &domain.Attendance{
		WorkshopID:   workshopID,
		EnrollmentID: enrollment.ID,
		SessionDate:  startOfDay(input.SessionDate),
		Present:      input.Present,
	}

	saved, err := s.repo.UpsertAttendance(ctx, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("workshop_id", workshopID).Uint("enrollment_id", enrollment.ID).Bool("present", saved.Present).Msg("attendance recorded")
	return saved, nil
}

// AttendanceRate reports the share of present records over all session
// records of one workshop.
func (s *WorkshopService) AttendanceRate(ctx context.Context, workshopID uint) (*ports.AttendanceRateResult, error) {
	if _, err := s.repo.FindByID(ctx, workshopID); err != nil {
		return nil, err
	}

	present, total, err := s.repo.AttendanceStats(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if total > 0 {
		rate = float64(present) / float64(total)
	}

	return &ports.AttendanceRateResult{
		WorkshopID: workshopID,
		Present:    present,
		Total:      total,
		Rate:       rate,
	}, nil
}

// IssueCertificate issues the completion certificate for one enrollment.
// Only completed workshops qualify, and each enrollment gets one certificate.
func (s *WorkshopService) IssueCertificate(ctx context.Context, enrollmentID uint) (*domain.Certificate, error) {
	enrollment, err := s.repo.FindEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.Active {
		return nil, domain.ErrEnrollmentNotFound
	}

	w, err := s.repo.FindByID(ctx, enrollment.WorkshopID)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.StatusCompleted {
		return nil, domain.ErrWorkshopNotCompleted
	}

	cert := &domain.Certificate{
		EnrollmentID: enrollment.ID,
		Code:         generateCertificateCode(),
		IssuedAt:     time.Now().UTC(),
	}

	created, err := s.repo.CreateCertificate(ctx, cert)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Str("code", created.Code).Msg("certificate issued")
	return created, nil
}

// RevokeCertificate invalidates an issued certificate by code. The row is
// kept so the code can never be reissued.
func (s *WorkshopService) RevokeCertificate(ctx context.Context, code string) (*domain.Certificate, error) {
	cert, err := s.repo.FindCertificateByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cert.Revoked {
		return cert, nil
	}

	cert.Revoked = true
	if err := s.repo.UpdateCertificate(ctx, cert); err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", cert.Code).Msg("certificate revoked")
	return cert, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// generateCertificateCode returns a certificate code in the format APRO-XXXXXXXX.
func generateCertificateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("APRO-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("APRO-%08X", b)
}
