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

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}
	return e, nil
}

// CreateDuesPayment inserts a dues entry with the next sequential receipt
// number. Receipts are only issued here, so locking the dues category row
// serializes both the duplicate-month check and the receipt sequence.
func (r *LedgerRepository) CreateDuesPayment(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&category, e.CategoryID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("lock dues category: %w", err)
		}

		monthStart := time.Date(e.EntryDate.Year(), e.EntryDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := monthStart.AddDate(0, 1, 0)

		var existing int64
		err = tx.Model(&domain.LedgerEntry{}).
			Where("category_id = ? AND member_id = ? AND entry_date >= ? AND entry_date < ?",
				e.CategoryID, *e.MemberID, monthStart, nextMonth).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("check existing dues: %w", err)
		}
		if existing > 0 {
			return domain.ErrDuplicateDuesPayment
		}

		// Entries are never hard-deleted, so the receipt count is the
		// highest number issued.
		var issued int64
		err = tx.Model(&domain.LedgerEntry{}).
			Where("receipt_number <> ''").
			Count(&issued).Error
		if err != nil {
			return fmt.Errorf("count receipts: %w", err)
		}
		e.ReceiptNumber = fmt.Sprintf("REC-%06d", issued+1)

		if err := tx.Create(e).Error; err != nil {
			return fmt.Errorf("insert dues entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *LedgerRepository) FindByID(ctx context.Context, id uint) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
	return &e, nil
}

func (r *LedgerRepository) List(ctx context.Context, filter ports.ListEntriesFilter) ([]*domain.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.LedgerEntry{})

	if !filter.From.IsZero() {
		query = query.Where("entry_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("entry_date <= ?", filter.To)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.MinAmountCents != 0 {
		query = query.Where("amount_cents >= ?", filter.MinAmountCents)
	}
	if filter.MaxAmountCents != 0 {
		query = query.Where("amount_cents <= ?", filter.MaxAmountCents)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	var entries []*domain.LedgerEntry
	err := query.
		Order("entry_date DESC, id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, total, nil
}

func (r *LedgerRepository) SumByKind(ctx context.Context, from, to time.Time) (int64, int64, error) {
	type kindSum struct {
		Kind  domain.CategoryKind
		Total int64
	}

	query := r.db.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Select("kind, COALESCE(SUM(amount_cents), 0) AS total")
	if !from.IsZero() {
		query = query.Where("entry_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("entry_date <= ?", to)
	}

	var rows []kindSum
	if err := query.Group("kind").Scan(&rows).Error; err != nil {
		return 0, 0, fmt.Errorf("sum by kind: %w", err)
	}

	var incomeCents, expenseCents int64
	for _, row := range rows {
		switch row.Kind {
		case domain.KindIncome:
			incomeCents = row.Total
		case domain.KindExpense:
			expenseCents = row.Total
		}
	}
	return incomeCents, expenseCents, nil
}

func (r *LedgerRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]ports.CategoryTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Select("ledger_entries.category_id, categories.name AS category_name, ledger_entries.kind, COALESCE(SUM(ledger_entries.amount_cents), 0) AS total_cents").
		Joins("JOIN categories ON categories.id = ledger_entries.category_id")
	if !from.IsZero() {
		query = query.Where("ledger_entries.entry_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("ledger_entries.entry_date <= ?", to)
	}

	var rows []ports.CategoryTotal
	err := query.
		Group("ledger_entries.category_id, categories.name, ledger_entries.kind").
		Order("total_cents DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	return rows, nil
}

func (r *LedgerRepository) HasDuesEntry(ctx context.Context, memberID, categoryID uint, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Where("member_id = ? AND category_id = ? AND entry_date >= ? AND entry_date < ?",
			memberID, categoryID, from, to).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check dues entry: %w", err)
	}
	return count > 0, nil
}

func (r *LedgerRepository) CountMembersPaid(ctx context.Context, categoryID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.LedgerEntry{}).
		Where("category_id = ? AND member_id IS NOT NULL AND entry_date >= ? AND entry_date < ?",
			categoryID, from, to).
		Distinct("member_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count members paid: %w", err)
	}
	return count, nil
}
