package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// ListWorkshopsFilter carries all query parameters for listing workshops.
type ListWorkshopsFilter struct {
	Status   string    // optional: filter by status
	Search   string    // optional: substring match on name or facilitator
	DateFrom time.Time // optional: start_date >= DateFrom
	DateTo   time.Time // optional: start_date <= DateTo
	Page     int       // 1-based
	Limit    int       // max rows per page (capped at 100 by service)
}

// StatusCount is one row of the counts-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// WorkshopRepository defines persistence operations for the workshop register.
type WorkshopRepository interface {
	Create(ctx context.Context, w *domain.Workshop) (*domain.Workshop, error)
	FindByID(ctx context.Context, id uint) (*domain.Workshop, error)
	Update(ctx context.Context, w *domain.Workshop) error
	List(ctx context.Context, filter ListWorkshopsFilter) ([]*domain.Workshop, int64, error)
	ListByStatuses(ctx context.Context, statuses ...domain.WorkshopStatus) ([]*domain.Workshop, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// Enroll atomically locks the workshop row, re-checks that the status
	// accepts enrollments and that active enrollment is below capacity, and
	// inserts the enrollment. It returns CapacityError when full,
	// ErrWorkshopClosed on a terminal status, and ErrDuplicateEnrollment
	// when the beneficiary is already enrolled.
	Enroll(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error)
	// Withdraw marks the enrollment inactive, freeing its seat.
	Withdraw(ctx context.Context, workshopID, beneficiaryID uint) error
	FindEnrollmentByID(ctx context.Context, id uint) (*domain.Enrollment, error)
	ListEnrollments(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error)
	CountActiveEnrollments(ctx context.Context, workshopID uint) (int64, error)
	CountActiveEnrollmentsAll(ctx context.Context) (int64, error)

	// UpsertAttendance inserts or replaces the attendance row for one
	// enrollment and session date.
	UpsertAttendance(ctx context.Context, a *domain.Attendance) (*domain.Attendance, error)
	// AttendanceStats returns present and total session-attendance counts
	// for one workshop. Zero workshopID aggregates over all workshops.
	AttendanceStats(ctx context.Context, workshopID uint) (present, total int64, err error)

	CreateCertificate(ctx context.Context, c *domain.Certificate) (*domain.Certificate, error)
	FindCertificateByCode(ctx context.Context, code string) (*domain.Certificate, error)
	UpdateCertificate(ctx context.Context, c *domain.Certificate) error
}
