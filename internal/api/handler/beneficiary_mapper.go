package handler

import (
	"time"

	"github.com/aprodmayo/management-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateBeneficiaryInput(req createBeneficiaryRequest, intakeUserID uint) (ports.CreateBeneficiaryInput, error) {
	in := ports.CreateBeneficiaryInput{
		FirstNames:           req.FirstNames,
		LastNames:            req.LastNames,
		DocumentType:         req.DocumentType,
		DocumentNumber:       req.DocumentNumber,
		Phone:                req.Phone,
		Address:              req.Address,
		ViolenceType:         req.ViolenceType,
		SituationDescription: req.SituationDescription,
		HealthNotes:          req.HealthNotes,
		DependentsCount:      req.DependentsCount,
		HousingStatus:        req.HousingStatus,
		IntakeUserID:         intakeUserID,
	}

	if req.BirthDate != "" {
		birth, err := parseDate("birth_date", req.BirthDate)
		if err != nil {
			return in, err
		}
		in.BirthDate = &birth
	}

	// Intake defaults to the day the record is captured.
	if req.IntakeAt == "" {
		now := time.Now().UTC()
		in.IntakeAt = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		intake, err := parseDate("intake_at", req.IntakeAt)
		if err != nil {
			return in, err
		}
		in.IntakeAt = intake
	}

	return in, nil
}

func toUpdateBeneficiaryInput(req updateBeneficiaryRequest) (ports.UpdateBeneficiaryInput, error) {
	patch := ports.UpdateBeneficiaryInput{
		FirstNames:           req.FirstNames,
		LastNames:            req.LastNames,
		DocumentType:         req.DocumentType,
		DocumentNumber:       req.DocumentNumber,
		Phone:                req.Phone,
		Address:              req.Address,
		ViolenceType:         req.ViolenceType,
		SituationDescription: req.SituationDescription,
		HealthNotes:          req.HealthNotes,
		DependentsCount:      req.DependentsCount,
		HousingStatus:        req.HousingStatus,
		FollowUpNotes:        req.FollowUpNotes,
	}

	if req.BirthDate != nil && *req.BirthDate != "" {
		birth, err := parseDate("birth_date", *req.BirthDate)
		if err != nil {
			return patch, err
		}
		patch.BirthDate = &birth
	}

	return patch, nil
}

func toVisitInput(req visitRequest, recordedBy uint) (ports.VisitInput, error) {
	visitAt, err := parseDate("visit_at", req.VisitAt)
	if err != nil {
		return ports.VisitInput{}, err
	}
	return ports.VisitInput{
		VisitAt:          visitAt,
		AttentionType:    req.AttentionType,
		Notes:            req.Notes,
		RecordedByUserID: recordedBy,
	}, nil
}

func toSearchFilter(req searchBeneficiariesRequest) ports.SearchBeneficiariesFilter {
	return ports.SearchBeneficiariesFilter{
		Name:         req.Name,
		ViolenceType: req.ViolenceType,
		FollowUp:     req.FollowUp,
		ActiveOnly:   !req.IncludeInactive,
		Page:         req.Page,
		Limit:        req.Limit,
	}
}

// --- Service result → HTTP response ---

func toSearchResponse(r *ports.SearchBeneficiariesResult) searchBeneficiariesResponse {
	return searchBeneficiariesResponse{
		Data: r.Items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
