package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

type WorkshopRepository struct {
	db *gorm.DB
}

func NewWorkshopRepository(db *gorm.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

func (r *WorkshopRepository) Create(ctx context.Context, w *domain.Workshop) (*domain.Workshop, error) {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, fmt.Errorf("insert workshop: %w", err)
	}
	return w, nil
}

func (r *WorkshopRepository) FindByID(ctx context.Context, id uint) (*domain.Workshop, error) {
	var w domain.Workshop
	err := r.db.WithContext(ctx).First(&w, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("find workshop: %w", err)
	}
	return &w, nil
}

func (r *WorkshopRepository) Update(ctx context.Context, w *domain.Workshop) error {
	if err := r.db.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("update workshop: %w", err)
	}
	return nil
}

func (r *WorkshopRepository) List(ctx context.Context, filter ports.ListWorkshopsFilter) ([]*domain.Workshop, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Workshop{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR facilitator ILIKE ?", pattern, pattern)
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("start_date >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		query = query.Where("start_date <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count workshops: %w", err)
	}

	var workshops []*domain.Workshop
	err := query.
		Order("start_date DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&workshops).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, total, nil
}

func (r *WorkshopRepository) ListByStatuses(ctx context.Context, statuses ...domain.WorkshopStatus) ([]*domain.Workshop, error) {
	var workshops []*domain.Workshop
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("start_date ASC").
		Find(&workshops).Error
	if err != nil {
		return nil, fmt.Errorf("list workshops by status: %w", err)
	}
	return workshops, nil
}

func (r *WorkshopRepository) CountByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	var rows []ports.StatusCount
	err := r.db.WithContext(ctx).
		Model(&domain.Workshop{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count workshops by status: %w", err)
	}
	return rows, nil
}

// Enroll locks the workshop row so the capacity check and the insert happen
// against a stable seat count.
func (r *WorkshopRepository) Enroll(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
	var enrollment *domain.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w domain.Workshop
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, workshopID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrWorkshopNotFound
			}
			return fmt.Errorf("lock workshop: %w", err)
		}
		if !w.Status.AcceptsEnrollments() {
			return domain.ErrWorkshopClosed
		}

		var active int64
		err = tx.Model(&domain.Enrollment{}).
			Where("workshop_id = ? AND active = ?", workshopID, true).
			Count(&active).Error
		if err != nil {
			return fmt.Errorf("count active enrollments: %w", err)
		}
		if active >= int64(w.Capacity) {
			return &domain.CapacityError{WorkshopID: workshopID, Capacity: w.Capacity}
		}

		var existing domain.Enrollment
		err = tx.Where("workshop_id = ? AND beneficiary_id = ?", workshopID, beneficiaryID).
			First(&existing).Error
		switch {
		case err == nil && existing.Active:
			return domain.ErrDuplicateEnrollment
		case err == nil:
			// Withdrawn earlier – reactivate the same row.
			existing.Active = true
			existing.EnrolledAt = time.Now().UTC()
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("reactivate enrollment: %w", err)
			}
			enrollment = &existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("find enrollment: %w", err)
		}

		e := domain.Enrollment{
			WorkshopID:    workshopID,
			BeneficiaryID: beneficiaryID,
			EnrolledAt:    time.Now().UTC(),
			Active:        true,
		}
		if err := tx.Create(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEnrollment
			}
			return fmt.Errorf("insert enrollment: %w", err)
		}
		enrollment = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Withdraw marks the enrollment inactive, freeing its seat.
func (r *WorkshopRepository) Withdraw(ctx context.Context, workshopID, beneficiaryID uint) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("workshop_id = ? AND beneficiary_id = ? AND active = ?", workshopID, beneficiaryID, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("withdraw enrollment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

func (r *WorkshopRepository) FindEnrollmentByID(ctx context.Context, id uint) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &e, nil
}

func (r *WorkshopRepository) ListEnrollments(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *WorkshopRepository) CountActiveEnrollments(ctx context.Context, workshopID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("workshop_id = ? AND active = ?", workshopID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return count, nil
}

func (r *WorkshopRepository) CountActiveEnrollmentsAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count all active enrollments: %w", err)
	}
	return count, nil
}

// UpsertAttendance inserts the session row or, when the enrollment already
// has one for that date, replaces its present flag.
func (r *WorkshopRepository) UpsertAttendance(ctx context.Context, a *domain.Attendance) (*domain.Attendance, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "session_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"present", "updated_at"}),
		}).
		Create(a).Error
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}

	// fetch back to get ID
	var saved domain.Attendance
	err = r.db.WithContext(ctx).
		Where("enrollment_id = ? AND session_date = ?", a.EnrollmentID, a.SessionDate).
		First(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &saved, nil
}

func (r *WorkshopRepository) AttendanceStats(ctx context.Context, workshopID uint) (int64, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Attendance{})
	if workshopID != 0 {
		query = query.Where("workshop_id = ?", workshopID)
	}

	var stats struct {
		Present int64
		Total   int64
	}
	err := query.
		Select("COALESCE(SUM(CASE WHEN present THEN 1 ELSE 0 END), 0) AS present, COUNT(*) AS total").
		Scan(&stats).Error
	if err != nil {
		return 0, 0, fmt.Errorf("attendance stats: %w", err)
	}
	return stats.Present, stats.Total, nil
}

func (r *WorkshopRepository) CreateCertificate(ctx context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateCertificate
		}
		return nil, fmt.Errorf("insert certificate: %w", err)
	}
	return c, nil
}

func (r *WorkshopRepository) FindCertificateByCode(ctx context.Context, code string) (*domain.Certificate, error) {
	var c domain.Certificate
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return &c, nil
}

func (r *WorkshopRepository) UpdateCertificate(ctx context.Context, c *domain.Certificate) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	return nil
}
