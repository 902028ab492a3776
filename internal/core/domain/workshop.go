package domain

import (
	"errors"
	"time"
)

// WorkshopStatus represents the lifecycle state of a workshop.
type WorkshopStatus string

const (
	StatusScheduled  WorkshopStatus = "scheduled"
	StatusInProgress WorkshopStatus = "in_progress"
	StatusCompleted  WorkshopStatus = "completed"
	StatusCancelled  WorkshopStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Completed and cancelled are terminal.
var validTransitions = map[WorkshopStatus][]WorkshopStatus{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrWorkshopNotFound = errors.New("workshop not found")
var ErrWorkshopClosed = errors.New("workshop does not accept enrollments")
var ErrEnrollmentNotFound = errors.New("enrollment not found")
var ErrDuplicateEnrollment = errors.New("beneficiary already enrolled")
var ErrCertificateNotFound = errors.New("certificate not found")
var ErrDuplicateCertificate = errors.New("certificate already issued")
var ErrWorkshopNotCompleted = errors.New("workshop is not completed")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s WorkshopStatus) CanTransitionTo(next WorkshopStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsEnrollments reports whether participants can still be enrolled.
func (s WorkshopStatus) AcceptsEnrollments() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// Workshop is a scheduled event with bounded capacity.
type Workshop struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:150;not null;index"`
	Description  string         `json:"description" gorm:"type:text"`
	StartDate    time.Time      `json:"start_date" gorm:"not null;index"`
	EndDate      time.Time      `json:"end_date" gorm:"not null"`
	ScheduleText string         `json:"schedule_text" gorm:"size:200"`
	Location     string         `json:"location" gorm:"size:200"`
	Capacity     int            `json:"capacity" gorm:"not null"`
	Facilitator  string         `json:"facilitator" gorm:"size:150"`
	Status       WorkshopStatus `json:"status" gorm:"size:20;not null;default:scheduled;index"`
	Notes        string         `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Enrollment ties a beneficiary to a workshop. Withdrawn enrollments stay on
// record with Active=false and free their seat.
type Enrollment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	WorkshopID    uint      `json:"workshop_id" gorm:"not null;uniqueIndex:idx_workshop_beneficiary"`
	BeneficiaryID uint      `json:"beneficiary_id" gorm:"not null;uniqueIndex:idx_workshop_beneficiary"`
	EnrolledAt    time.Time `json:"enrolled_at" gorm:"not null"`
	Active        bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Attendance records presence of one enrollment on one session date.
type Attendance struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	WorkshopID   uint      `json:"workshop_id" gorm:"not null;index"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_session"`
	SessionDate  time.Time `json:"session_date" gorm:"not null;uniqueIndex:idx_enrollment_session"`
	Present      bool      `json:"present" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Certificate is issued once per enrollment after a workshop completes.
type Certificate struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex"`
	Code         string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	IssuedAt     time.Time `json:"issued_at" gorm:"not null"`
	Revoked      bool      `json:"revoked" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
