package ports

import (
	"context"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
)

// CreateCategoryInput carries the data for a new ledger category.
type CreateCategoryInput struct {
	Name string
	Kind string
}

// UpdateCategoryInput is a partial update; nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name   *string
	Active *bool
}

// CreateMemberInput carries the data for a new member.
type CreateMemberInput struct {
	FullName         string
	DocumentNumber   string
	Phone            string
	Email            string
	MonthlyDuesCents int64
	JoinedAt         time.Time
}

// UpdateMemberInput is a partial update; nil fields are left unchanged.
type UpdateMemberInput struct {
	FullName         *string
	DocumentNumber   *string
	Phone            *string
	Email            *string
	Status           *string
	MonthlyDuesCents *int64
}

// RecordEntryInput carries the data for one ledger entry.
type RecordEntryInput struct {
	CategoryID       uint
	AmountCents      int64
	EntryDate        time.Time
	Description      string
	MemberID         *uint
	RecordedByUserID uint
}

// DuesPaymentInput records one monthly dues payment for a member.
type DuesPaymentInput struct {
	MemberID uint
	// Period is any instant inside the month being paid.
	Period time.Time
	// AmountCents overrides the member's monthly dues when > 0.
	AmountCents      int64
	RecordedByUserID uint
}

// BalanceResult sums entries by kind within a date range.
type BalanceResult struct {
	From         time.Time
	To           time.Time
	IncomeCents  int64
	ExpenseCents int64
	NetCents     int64
}

// DuesStatusResult reports whether one member paid dues for one month.
// It is recomputed from the ledger on every call, never cached.
type DuesStatusResult struct {
	MemberID uint
	Month    time.Time
	Paid     bool
}

// ListEntriesResult is one page of ledger entries.
type ListEntriesResult struct {
	Items      []*domain.LedgerEntry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListMembersResult is one page of the member roster.
type ListMembersResult struct {
	Items      []*domain.Member
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// FinanceService defines use-case operations for the ledger.
type FinanceService interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch UpdateCategoryInput) (*domain.Category, error)
	ListCategories(ctx context.Context, kind string, activeOnly bool) ([]*domain.Category, error)

	CreateMember(ctx context.Context, input CreateMemberInput) (*domain.Member, error)
	GetMember(ctx context.Context, id uint) (*domain.Member, error)
	UpdateMember(ctx context.Context, id uint, patch UpdateMemberInput) (*domain.Member, error)
	ListMembers(ctx context.Context, filter ListMembersFilter) (*ListMembersResult, error)

	RecordEntry(ctx context.Context, input RecordEntryInput) (*domain.LedgerEntry, error)
	RecordDuesPayment(ctx context.Context, input DuesPaymentInput) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, filter ListEntriesFilter) (*ListEntriesResult, error)
	Balance(ctx context.Context, from, to time.Time) (*BalanceResult, error)
	BalanceByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	MemberDuesStatus(ctx context.Context, memberID uint, month time.Time) (*DuesStatusResult, error)
}
