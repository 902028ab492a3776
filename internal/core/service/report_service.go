package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// ReportService composes read-only summaries over the other stores. Every
// figure is recomputed on request; nothing is cached or persisted.
type ReportService struct {
	ledger        ports.LedgerRepository
	categories    ports.CategoryRepository
	members       ports.MemberRepository
	beneficiaries ports.BeneficiaryRepository
	workshops     ports.WorkshopRepository
	logger        zerolog.Logger
}

func NewReportService(
	ledger ports.LedgerRepository,
	categories ports.CategoryRepository,
	members ports.MemberRepository,
	beneficiaries ports.BeneficiaryRepository,
	workshops ports.WorkshopRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		ledger:        ledger,
		categories:    categories,
		members:       members,
		beneficiaries: beneficiaries,
		workshops:     workshops,
		logger:        logger,
	}
}

// FinancialReport compares the current month, the previous month and the
// all-time totals, with per-category detail for the current month.
func (s *ReportService) FinancialReport(ctx context.Context, today time.Time) (*ports.FinancialReport, error) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.AddDate(0, 0, -1)

	current, err := s.periodBalance(ctx, monthStart.Format("2006-01"), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	previous, err := s.periodBalance(ctx, prevStart.Format("2006-01"), prevStart, prevEnd)
	if err != nil {
		return nil, err
	}
	historical, err := s.periodBalance(ctx, "historical", time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	byCategory, err := s.ledger.SumByCategory(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("month", monthStart.Format("2006-01")).Msg("financial report generated")
	return &ports.FinancialReport{
		GeneratedAt:   time.Now().UTC(),
		CurrentMonth:  current,
		PreviousMonth: previous,
		Historical:    historical,
		ByCategory:    byCategory,
	}, nil
}

// BeneficiaryReport summarizes the case load as of the given day.
func (s *ReportService) BeneficiaryReport(ctx context.Context, today time.Time) (*ports.BeneficiaryReport, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	total, err := s.beneficiaries.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.beneficiaries.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	intakes, err := s.beneficiaries.CountIntakesBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}
	flagged, err := s.beneficiaries.CountFollowUpRequired(ctx)
	if err != nil {
		return nil, err
	}
	byViolence, err := s.beneficiaries.CountByViolenceType(ctx)
	if err != nil {
		return nil, err
	}
	byAge, err := s.ageBuckets(ctx, day)
	if err != nil {
		return nil, err
	}

	return &ports.BeneficiaryReport{
		GeneratedAt:      time.Now().UTC(),
		Total:            total,
		Active:           active,
		Inactive:         total - active,
		IntakesThisMonth: intakes,
		FollowUpFlagged:  flagged,
		ByViolenceType:   byViolence,
		ByAgeBucket:      byAge,
	}, nil
}

// WorkshopReport summarizes the workshop register.
func (s *ReportService) WorkshopReport(ctx context.Context, today time.Time) (*ports.WorkshopReport, error) {
	byStatus, err := s.workshops.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.workshops.CountActiveEnrollmentsAll(ctx)
	if err != nil {
		return nil, err
	}
	present, totalSessions, err := s.workshops.AttendanceStats(ctx, 0)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if totalSessions > 0 {
		rate = float64(present) / float64(totalSessions)
	}

	return &ports.WorkshopReport{
		GeneratedAt:       time.Now().UTC(),
		ByStatus:          byStatus,
		TotalEnrollment:   enrollment,
		AttendancePresent: present,
		AttendanceTotal:   totalSessions,
		AttendanceRate:    rate,
	}, nil
}

// Dashboard is the cross-store landing view.
func (s *ReportService) Dashboard(ctx context.Context, today time.Time) (*ports.DashboardSummary, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	last30, err := s.periodBalance(ctx, "last_30_days", day.AddDate(0, 0, -30), day)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.workshops.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var scheduled int64
	for _, row := range byStatus {
		if row.Status == string(domain.StatusScheduled) {
			scheduled = row.Count
		}
	}

	behind, err := s.membersBehindOnDues(ctx, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	flagged, err := s.beneficiaries.CountFollowUpRequired(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardSummary{
		GeneratedAt:           time.Now().UTC(),
		Last30Days:            last30,
		ScheduledWorkshops:    scheduled,
		MembersBehindOnDues:   behind,
		FollowUpBeneficiaries: flagged,
	}, nil
}

func (s *ReportService) periodBalance(ctx context.Context, label string, from, to time.Time) (ports.PeriodBalance, error) {
	income, expense, err := s.ledger.SumByKind(ctx, from, to)
	if err != nil {
		return ports.PeriodBalance{}, err
	}
	return ports.PeriodBalance{
		Label:        label,
		From:         from,
		To:           to,
		IncomeCents:  income,
		ExpenseCents: expense,
		NetCents:     income - expense,
	}, nil
}

// membersBehindOnDues recomputes from the ledger how many active members have
// no dues entry for the current month.
func (s *ReportService) membersBehindOnDues(ctx context.Context, monthStart, nextMonth time.Time) (int64, error) {
	activeMembers, err := s.members.CountActive(ctx)
	if err != nil {
		return 0, err
	}

	category, err := s.categories.FindByName(ctx, domain.DuesCategoryName)
	if err != nil {
		return 0, err
	}

	paid, err := s.ledger.CountMembersPaid(ctx, category.ID, monthStart, nextMonth)
	if err != nil {
		return 0, err
	}

	behind := activeMembers - paid
	if behind < 0 {
		behind = 0
	}
	return behind, nil
}

// ageBuckets counts beneficiaries by age as of the given day. Whole-year age
// boundaries translate to half-open birth-date windows; records without a
// birth date fall outside every bucket.
func (s *ReportService) ageBuckets(ctx context.Context, day time.Time) ([]ports.AgeBucketCount, error) {
	// birthBefore(n) is the exclusive upper bound for "age >= n":
	// anyone born before it has had their n-th birthday by day.
	birthBefore := func(years int) time.Time {
		return day.AddDate(-years, 0, 0).AddDate(0, 0, 1)
	}

	windows := []struct {
		bucket   string
		from, to time.Time
	}{
		{"<18", birthBefore(18), day.AddDate(0, 0, 1)},
		{"18-30", birthBefore(31), birthBefore(18)},
		{"31-45", birthBefore(46), birthBefore(31)},
		{"46-60", birthBefore(61), birthBefore(46)},
		{">60", time.Time{}, birthBefore(61)},
	}

	buckets := make([]ports.AgeBucketCount, 0, len(windows))
	for _, w := range windows {
		count, err := s.beneficiaries.CountByBirthDateRange(ctx, w.from, w.to)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, ports.AgeBucketCount{Bucket: w.bucket, Count: count})
	}
	return buckets, nil
}
