package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// ListEntriesFilter carries all query parameters for listing ledger entries.
type ListEntriesFilter struct {
	From           time.Time // optional: entry_date >= From
	To             time.Time // optional: entry_date <= To
	CategoryID     uint      // optional: filter by category
	Kind           string    // optional: "income" or "expense"
	MemberID       uint      // optional: filter by payer
	MinAmountCents int64     // optional: amount_cents >= MinAmountCents
	MaxAmountCents int64     // optional: amount_cents <= MaxAmountCents
	Page           int       // 1-based
	Limit          int       // max rows per page (capped at 100 by service)
}

// CategoryTotal is one row of the per-category sums aggregate.
type CategoryTotal struct {
	CategoryID   uint                `json:"category_id"`
	CategoryName string              `json:"category_name"`
	Kind         domain.CategoryKind `json:"kind"`
	TotalCents   int64               `json:"total_cents"`
}

// ListMembersFilter carries query parameters for the member roster.
type ListMembersFilter struct {
	Search string // optional: substring match on full name or document number
	Status string // optional: "active" or "inactive"
	Page   int
	Limit  int
}

// CategoryRepository defines persistence operations for ledger categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	List(ctx context.Context, kind string, activeOnly bool) ([]*domain.Category, error)
}

// MemberRepository defines persistence operations for the member roster.
type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) (*domain.Member, error)
	FindByID(ctx context.Context, id uint) (*domain.Member, error)
	Update(ctx context.Context, m *domain.Member) error
	List(ctx context.Context, filter ListMembersFilter) ([]*domain.Member, int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// LedgerRepository defines persistence operations for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error)
	// CreateDuesPayment inserts a dues entry in one transaction: it locks the
	// receipt sequence, rejects a second payment for the same member and
	// month with ErrDuplicateDuesPayment, and assigns the next sequential
	// receipt number.
	CreateDuesPayment(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error)
	FindByID(ctx context.Context, id uint) (*domain.LedgerEntry, error)
	List(ctx context.Context, filter ListEntriesFilter) ([]*domain.LedgerEntry, int64, error)
	// SumByKind returns income and expense totals for entries dated within
	// [from, to].
	SumByKind(ctx context.Context, from, to time.Time) (incomeCents, expenseCents int64, err error)
	SumByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	// HasDuesEntry reports whether a dues-category entry referencing the
	// member exists with an entry date inside [from, to).
	HasDuesEntry(ctx context.Context, memberID, categoryID uint, from, to time.Time) (bool, error)
	// CountMembersPaid counts distinct members with a dues entry dated
	// inside [from, to).
	CountMembersPaid(ctx context.Context, categoryID uint, from, to time.Time) (int64, error)
}
