package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// FinanceService implements the ledger, category and member use cases.
type FinanceService struct {
	categories ports.CategoryRepository
	members    ports.MemberRepository
	ledger     ports.LedgerRepository
	logger     zerolog.Logger
}

func NewFinanceService(categories ports.CategoryRepository, members ports.MemberRepository, ledger ports.LedgerRepository, logger zerolog.Logger) *FinanceService {
	return &FinanceService{categories: categories, members: members, ledger: ledger, logger: logger}
}

// CreateCategory adds a ledger category. Names are unique across both kinds.
func (s *FinanceService) CreateCategory(ctx context.Context, input ports.CreateCategoryInput) (*domain.Category, error) {
	verr := &domain.ValidationError{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		verr.Add("name", "name is required")
	}
	if !domain.CategoryKind(input.Kind).IsValid() {
		verr.Add("kind", "kind must be income or expense")
	}
	if verr.HasFields() {
		return nil, verr
	}

	created, err := s.categories.Create(ctx, &domain.Category{
		Name:   name,
		Kind:   domain.CategoryKind(input.Kind),
		Active: true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("name", created.Name).Str("kind", string(created.Kind)).Msg("category created")
	return created, nil
}

// UpdateCategory renames or (de)activates a category. The reserved dues
// category keeps its name and stays active.
func (s *FinanceService) UpdateCategory(ctx context.Context, id uint, patch ports.UpdateCategoryInput) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cat.Name == domain.DuesCategoryName {
		if patch.Name != nil && strings.TrimSpace(*patch.Name) != domain.DuesCategoryName {
			return nil, domain.NewValidationError("name", "the dues category cannot be renamed")
		}
		if patch.Active != nil && !*patch.Active {
			return nil, domain.NewValidationError("active", "the dues category cannot be deactivated")
		}
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "name cannot be empty")
		}
		cat.Name = name
	}
	if patch.Active != nil {
		cat.Active = *patch.Active
	}

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("category_id", cat.ID).Msg("category updated")
	return cat, nil
}

func (s *FinanceService) ListCategories(ctx context.Context, kind string, activeOnly bool) ([]*domain.Category, error) {
	if kind != "" && !domain.CategoryKind(kind).IsValid() {
		return nil, domain.NewValidationError("kind", "kind must be income or expense")
	}
	return s.categories.List(ctx, kind, activeOnly)
}

// CreateMember registers a dues-paying member.
func (s *FinanceService) CreateMember(ctx context.Context, input ports.CreateMemberInput) (*domain.Member, error) {
	verr := &domain.ValidationError{}
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		verr.Add("full_name", "full name is required")
	}
	if input.MonthlyDuesCents <= 0 {
		verr.Add("monthly_dues", "monthly dues must be greater than zero")
	}
	if verr.HasFields() {
		return nil, verr
	}

	joined := input.JoinedAt
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	member := &domain.Member{
		Code:             generateMemberCode(),
		FullName:         name,
		DocumentNumber:   strings.TrimSpace(input.DocumentNumber),
		Phone:            strings.TrimSpace(input.Phone),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Status:           domain.MemberActive,
		MonthlyDuesCents: input.MonthlyDuesCents,
		JoinedAt:         joined,
	}

	created, err := s.members.Create(ctx, member)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("code", created.Code).Msg("member registered")
	return created, nil
}

func (s *FinanceService) GetMember(ctx context.Context, id uint) (*domain.Member, error) {
	return s.members.FindByID(ctx, id)
}

// UpdateMember applies a partial update. A dues change affects future months
// only; past months are judged against the ledger, not the current rate.
func (s *FinanceService) UpdateMember(ctx context.Context, id uint, patch ports.UpdateMemberInput) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, domain.NewValidationError("full_name", "full name cannot be empty")
		}
		member.FullName = name
	}
	if patch.DocumentNumber != nil {
		member.DocumentNumber = strings.TrimSpace(*patch.DocumentNumber)
	}
	if patch.Phone != nil {
		member.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Status != nil {
		if *patch.Status != domain.MemberActive && *patch.Status != domain.MemberInactive {
			return nil, domain.NewValidationError("status", "status must be active or inactive")
		}
		member.Status = *patch.Status
	}
	if patch.MonthlyDuesCents != nil {
		if *patch.MonthlyDuesCents <= 0 {
			return nil, domain.NewValidationError("monthly_dues", "monthly dues must be greater than zero")
		}
		member.MonthlyDuesCents = *patch.MonthlyDuesCents
	}

	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("member_id", member.ID).Msg("member updated")
	return member, nil
}

func (s *FinanceService) ListMembers(ctx context.Context, filter ports.ListMembersFilter) (*ports.ListMembersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Status != "" && filter.Status != domain.MemberActive && filter.Status != domain.MemberInactive {
		return nil, domain.NewValidationError("status", "status must be active or inactive")
	}

	items, total, err := s.members.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &ports.ListMembersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// RecordEntry books one income or expense movement against a category.
func (s *FinanceService) RecordEntry(ctx context.Context, input ports.RecordEntryInput) (*domain.LedgerEntry, error) {
	verr := &domain.ValidationError{}
	if input.AmountCents <= 0 {
		verr.Add("amount", "amount must be greater than zero")
	}
	if input.EntryDate.IsZero() {
		verr.Add("entry_date", "entry date is required")
	}
	if input.RecordedByUserID == 0 {
		verr.Add("recorded_by_user_id", "recording user is required")
	}
	if verr.HasFields() {
		return nil, verr
	}

	category, err := s.categories.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, domain.ErrCategoryInactive
	}

	if input.MemberID != nil {
		if _, err := s.members.FindByID(ctx, *input.MemberID); err != nil {
			return nil, err
		}
	}

	entry := &domain.LedgerEntry{
		CategoryID:       category.ID,
		Kind:             category.Kind,
		AmountCents:      input.AmountCents,
		EntryDate:        input.EntryDate,
		Description:      strings.TrimSpace(input.Description),
		MemberID:         input.MemberID,
		RecordedByUserID: input.RecordedByUserID,
	}

	created, err := s.ledger.Create(ctx, entry)
	if err != nil {
		s.logger.Error().Err(err).Uint("category_id", category.ID).Msg("failed to record entry")
		return nil, err
	}

	s.logger.Info().Uint("entry_id", created.ID).Str("kind", string(created.Kind)).Int64("amount_cents", created.AmountCents).Msg("entry recorded")
	return created, nil
}

// RecordDuesPayment books one monthly dues payment for a member.
//
// The entry lands in the reserved dues category, dated the first day of the
// paid month, so that dues status can always be recomputed from the ledger.
func (s *FinanceService) RecordDuesPayment(ctx context.Context, input ports.DuesPaymentInput) (*domain.LedgerEntry, error) {
	if input.Period.IsZero() {
		return nil, domain.NewValidationError("period", "period is required")
	}
	if input.RecordedByUserID == 0 {
		return nil, domain.NewValidationError("recorded_by_user_id", "recording user is required")
	}

	member, err := s.members.FindByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindByName(ctx, domain.DuesCategoryName)
	if err != nil {
		return nil, err
	}

	amount := input.AmountCents
	if amount <= 0 {
		amount = member.MonthlyDuesCents
	}

	monthStart := time.Date(input.Period.Year(), input.Period.Month(), 1, 0, 0, 0, 0, time.UTC)
	memberID := member.ID

	entry := &domain.LedgerEntry{
		CategoryID:       category.ID,
		Kind:             category.Kind,
		AmountCents:      amount,
		EntryDate:        monthStart,
		Description:      fmt.Sprintf("Dues %s %s", member.Code, monthStart.Format("2006-01")),
		MemberID:         &memberID,
		RecordedByUserID: input.RecordedByUserID,
	}

	created, err := s.ledger.CreateDuesPayment(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("member_id", member.ID).Str("month", monthStart.Format("2006-01")).Str("receipt", created.ReceiptNumber).Msg("dues payment recorded")
	return created, nil
}

func (s *FinanceService) ListEntries(ctx context.Context, filter ports.ListEntriesFilter) (*ports.ListEntriesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Kind != "" && !domain.CategoryKind(filter.Kind).IsValid() {
		return nil, domain.NewValidationError("kind", "kind must be income or expense")
	}

	items, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &ports.ListEntriesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Balance sums the ledger within [from, to]. Net is always income minus
// expense; the three figures come from the same query.
func (s *FinanceService) Balance(ctx context.Context, from, to time.Time) (*ports.BalanceResult, error) {
	if !to.IsZero() && !from.IsZero() && to.Before(from) {
		return nil, domain.NewValidationError("to", "end of range precedes start")
	}

	income, expense, err := s.ledger.SumByKind(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &ports.BalanceResult{
		From:         from,
		To:           to,
		IncomeCents:  income,
		ExpenseCents: expense,
		NetCents:     income - expense,
	}, nil
}

func (s *FinanceService) BalanceByCategory(ctx context.Context, from, to time.Time) ([]ports.CategoryTotal, error) {
	if !to.IsZero() && !from.IsZero() && to.Before(from) {
		return nil, domain.NewValidationError("to", "end of range precedes start")
	}
	return s.ledger.SumByCategory(ctx, from, to)
}

// MemberDuesStatus recomputes whether the member paid the given month from
// the ledger. Nothing is cached: a deleted-by-correction or added entry is
// reflected immediately.
func (s *FinanceService) MemberDuesStatus(ctx context.Context, memberID uint, month time.Time) (*ports.DuesStatusResult, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindByName(ctx, domain.DuesCategoryName)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	paid, err := s.ledger.HasDuesEntry(ctx, member.ID, category.ID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	return &ports.DuesStatusResult{
		MemberID: member.ID,
		Month:    monthStart,
		Paid:     paid,
	}, nil
}

// generateMemberCode returns a member code in the format SOC-XXXXXXXX.
func generateMemberCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("SOC-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("SOC-%08X", b)
}
