package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

type BeneficiaryRepository struct {
	db *gorm.DB
}

func NewBeneficiaryRepository(db *gorm.DB) *BeneficiaryRepository {
	return &BeneficiaryRepository{db: db}
}

func (r *BeneficiaryRepository) Create(ctx context.Context, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("insert beneficiary: %w", err)
	}
	return b, nil
}

func (r *BeneficiaryRepository) FindByID(ctx context.Context, id uint) (*domain.Beneficiary, error) {
	var b domain.Beneficiary
	err := r.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBeneficiaryNotFound
		}
		return nil, fmt.Errorf("find beneficiary: %w", err)
	}
	return &b, nil
}

func (r *BeneficiaryRepository) Update(ctx context.Context, b *domain.Beneficiary) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	return nil
}

// SetFollowUp flips the follow-up flag and notes in one statement and
// returns the reloaded record.
func (r *BeneficiaryRepository) SetFollowUp(ctx context.Context, id uint, required bool, notes string) (*domain.Beneficiary, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"follow_up_required": required,
			"follow_up_notes":    notes,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("set follow-up: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrBeneficiaryNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *BeneficiaryRepository) Search(ctx context.Context, filter ports.SearchBeneficiariesFilter) ([]*domain.Beneficiary, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Beneficiary{})

	if filter.Name != "" {
		pattern := "%" + filter.Name + "%"
		query = query.Where("first_names ILIKE ? OR last_names ILIKE ?", pattern, pattern)
	}
	if filter.ViolenceType != "" {
		query = query.Where("violence_type = ?", filter.ViolenceType)
	}
	if filter.FollowUp != nil {
		query = query.Where("follow_up_required = ?", *filter.FollowUp)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count beneficiaries: %w", err)
	}

	var records []*domain.Beneficiary
	err := query.
		Order("intake_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search beneficiaries: %w", err)
	}
	return records, total, nil
}

func (r *BeneficiaryRepository) AddVisit(ctx context.Context, v *domain.FollowUpVisit) (*domain.FollowUpVisit, error) {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}
	return v, nil
}

func (r *BeneficiaryRepository) ListVisits(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error) {
	var visits []*domain.FollowUpVisit
	err := r.db.WithContext(ctx).
		Where("beneficiary_id = ?", beneficiaryID).
		Order("visit_at DESC").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}

func (r *BeneficiaryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Beneficiary{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count beneficiaries: %w", err)
	}
	return count, nil
}

func (r *BeneficiaryRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active beneficiaries: %w", err)
	}
	return count, nil
}

func (r *BeneficiaryRepository) CountFollowUpRequired(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("active = ? AND follow_up_required = ?", true, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count follow-up beneficiaries: %w", err)
	}
	return count, nil
}

func (r *BeneficiaryRepository) CountIntakesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("intake_at >= ? AND intake_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count intakes: %w", err)
	}
	return count, nil
}

func (r *BeneficiaryRepository) CountByViolenceType(ctx context.Context) ([]ports.ViolenceTypeCount, error) {
	var rows []ports.ViolenceTypeCount
	err := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Select("violence_type, COUNT(*) AS count").
		Where("active = ?", true).
		Group("violence_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count by violence type: %w", err)
	}
	return rows, nil
}

// CountByBirthDateRange counts active records born inside [from, to).
// Records without a birth date never match.
func (r *BeneficiaryRepository) CountByBirthDateRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("active = ? AND birth_date IS NOT NULL AND birth_date >= ? AND birth_date < ?", true, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count by birth date: %w", err)
	}
	return count, nil
}
