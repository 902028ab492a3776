package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (*domain.Member, error) {
	var m domain.Member
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) Update(ctx context.Context, m *domain.Member) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *MemberRepository) List(ctx context.Context, filter ports.ListMembersFilter) ([]*domain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Member{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR document_number ILIKE ?", pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	var members []*domain.Member
	err := query.
		Order("full_name ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	return members, total, nil
}

func (r *MemberRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("status = ?", domain.MemberActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active members: %w", err)
	}
	return count, nil
}
