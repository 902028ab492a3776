package handler

import "github.com/aprodmayo/management-system/internal/core/domain"

// Dates travel as 2006-01-02 strings; the mapper turns them into UTC
// midnight instants before anything reaches the service layer.

type createBeneficiaryRequest struct {
	FirstNames           string `json:"first_names"           validate:"required"`
	LastNames            string `json:"last_names"            validate:"required"`
	DocumentType         string `json:"document_type"         validate:"required,oneof=dni passport foreign_id other"`
	DocumentNumber       string `json:"document_number"`
	BirthDate            string `json:"birth_date"            validate:"omitempty,datetime=2006-01-02"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	IntakeAt             string `json:"intake_at"             validate:"omitempty,datetime=2006-01-02"`
	ViolenceType         string `json:"violence_type"         validate:"required,oneof=physical psychological sexual economic patrimonial other"`
	SituationDescription string `json:"situation_description"`
	HealthNotes          string `json:"health_notes"`
	DependentsCount      int    `json:"dependents_count"      validate:"gte=0"`
	HousingStatus        string `json:"housing_status"        validate:"required,oneof=owned rented family other"`
}

type updateBeneficiaryRequest struct {
	FirstNames           *string `json:"first_names"`
	LastNames            *string `json:"last_names"`
	DocumentType         *string `json:"document_type" validate:"omitempty,oneof=dni passport foreign_id other"`
	DocumentNumber       *string `json:"document_number"`
	BirthDate            *string `json:"birth_date"    validate:"omitempty,datetime=2006-01-02"`
	Phone                *string `json:"phone"`
	Address              *string `json:"address"`
	ViolenceType         *string `json:"violence_type" validate:"omitempty,oneof=physical psychological sexual economic patrimonial other"`
	SituationDescription *string `json:"situation_description"`
	HealthNotes          *string `json:"health_notes"`
	DependentsCount      *int    `json:"dependents_count" validate:"omitempty,gte=0"`
	HousingStatus        *string `json:"housing_status" validate:"omitempty,oneof=owned rented family other"`
	FollowUpNotes        *string `json:"follow_up_notes"`
}

type flagFollowUpRequest struct {
	Notes string `json:"notes"`
}

type visitRequest struct {
	VisitAt       string `json:"visit_at"       validate:"required,datetime=2006-01-02"`
	AttentionType string `json:"attention_type" validate:"required,oneof=psychological legal social medical other"`
	Notes         string `json:"notes"`
}

type searchBeneficiariesRequest struct {
	Name            string `query:"name"`
	ViolenceType    string `query:"violence_type"`
	FollowUp        *bool  `query:"follow_up"`
	IncludeInactive bool   `query:"include_inactive"`
	Page            int    `query:"page"`
	Limit           int    `query:"limit"`
}

type searchBeneficiariesResponse struct {
	Data       []*domain.Beneficiary `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
