package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// ScheduleWorkshopInput carries the data for a new workshop.
type ScheduleWorkshopInput struct {
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	ScheduleText string
	Location     string
	Capacity     int
	Facilitator  string
	Notes        string
}

// UpdateWorkshopInput is a partial update; nil fields are left unchanged.
type UpdateWorkshopInput struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	ScheduleText *string
	Location     *string
	Capacity     *int
	Facilitator  *string
	Notes        *string
}

// AttendanceInput records presence for one enrollment on one session date.
type AttendanceInput struct {
	EnrollmentID uint
	SessionDate  time.Time
	Present      bool
}

// ListWorkshopsResult is one page of the workshop register.
type ListWorkshopsResult struct {
	Items      []*domain.Workshop
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AttendanceRateResult reports the share of present session records.
type AttendanceRateResult struct {
	WorkshopID uint
	Present    int64
	Total      int64
	Rate       float64 // Present / Total; 0 when no sessions recorded
}

// WorkshopService defines use-case operations for the workshop register.
type WorkshopService interface {
	Schedule(ctx context.Context, input ScheduleWorkshopInput) (*domain.Workshop, error)
	Get(ctx context.Context, id uint) (*domain.Workshop, error)
	Update(ctx context.Context, id uint, patch UpdateWorkshopInput) (*domain.Workshop, error)
	List(ctx context.Context, filter ListWorkshopsFilter) (*ListWorkshopsResult, error)
	// Transition moves the workshop through the status machine; invalid
	// moves fail with ErrInvalidTransition.
	Transition(ctx context.Context, id uint, next string) (*domain.Workshop, error)
	// RefreshStatuses advances scheduled workshops whose start date has been
	// reached and in-progress workshops whose end date has passed. Cancelled
	// workshops are never touched. Returns the number updated.
	RefreshStatuses(ctx context.Context, today time.Time) (int, error)

	Enroll(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error)
	Withdraw(ctx context.Context, workshopID, beneficiaryID uint) error
	ListEnrollments(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error)

	RecordAttendance(ctx context.Context, workshopID uint, input AttendanceInput) (*domain.Attendance, error)
	AttendanceRate(ctx context.Context, workshopID uint) (*AttendanceRateResult, error)

	IssueCertificate(ctx context.Context, enrollmentID uint) (*domain.Certificate, error)
	RevokeCertificate(ctx context.Context, code string) (*domain.Certificate, error)
}
