package handler

import "github.com/aprodmayo/management-system/internal/core/domain"

type scheduleWorkshopRequest struct {
	Name         string `json:"name"          validate:"required"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"    validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date"      validate:"required,datetime=2006-01-02"`
	ScheduleText string `json:"schedule_text"`
	Location     string `json:"location"`
	Capacity     int    `json:"capacity"      validate:"required,gt=0"`
	Facilitator  string `json:"facilitator"`
	Notes        string `json:"notes"`
}

type updateWorkshopRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	StartDate    *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	ScheduleText *string `json:"schedule_text"`
	Location     *string `json:"location"`
	Capacity     *int    `json:"capacity"   validate:"omitempty,gt=0"`
	Facilitator  *string `json:"facilitator"`
	Notes        *string `json:"notes"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type enrollRequest struct {
	BeneficiaryID uint `json:"beneficiary_id" validate:"required"`
}

// Present is a pointer so an explicit false survives the required check.
type attendanceRequest struct {
	EnrollmentID uint   `json:"enrollment_id" validate:"required"`
	SessionDate  string `json:"session_date"  validate:"required,datetime=2006-01-02"`
	Present      *bool  `json:"present"       validate:"required"`
}

type listWorkshopsRequest struct {
	Status   string `query:"status"`
	Search   string `query:"search"`
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

type listWorkshopsResponse struct {
	Data       []*domain.Workshop `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type attendanceRateResponse struct {
	WorkshopID uint    `json:"workshop_id"`
	Present    int64   `json:"present"`
	Total      int64   `json:"total"`
	Rate       float64 `json:"rate"`
}
