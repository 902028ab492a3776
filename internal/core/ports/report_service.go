package ports

import (
	"context"
	"time"
)

// PeriodBalance is one income/expense/net summary for a named period.
type PeriodBalance struct {
	Label        string    `json:"label"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	IncomeCents  int64     `json:"income_cents"`
	ExpenseCents int64     `json:"expense_cents"`
	NetCents     int64     `json:"net_cents"`
}

// FinancialReport compares the current month, the previous month and the
// historical totals, with per-category detail for the current month.
type FinancialReport struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	CurrentMonth  PeriodBalance   `json:"current_month"`
	PreviousMonth PeriodBalance   `json:"previous_month"`
	Historical    PeriodBalance   `json:"historical"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// AgeBucketCount is one row of the beneficiaries-by-age aggregate.
type AgeBucketCount struct {
	Bucket string `json:"bucket"`
	Count  int64  `json:"count"`
}

// BeneficiaryReport summarizes the case load.
type BeneficiaryReport struct {
	GeneratedAt      time.Time           `json:"generated_at"`
	Total            int64               `json:"total"`
	Active           int64               `json:"active"`
	Inactive         int64               `json:"inactive"`
	IntakesThisMonth int64               `json:"intakes_this_month"`
	FollowUpFlagged  int64               `json:"follow_up_flagged"`
	ByViolenceType   []ViolenceTypeCount `json:"by_violence_type"`
	ByAgeBucket      []AgeBucketCount    `json:"by_age_bucket"`
}

// WorkshopReport summarizes the workshop register.
type WorkshopReport struct {
	GeneratedAt       time.Time     `json:"generated_at"`
	ByStatus          []StatusCount `json:"by_status"`
	TotalEnrollment   int64         `json:"total_enrollment"`
	AttendancePresent int64         `json:"attendance_present"`
	AttendanceTotal   int64         `json:"attendance_total"`
	AttendanceRate    float64       `json:"attendance_rate"`
}

// DashboardSummary is the cross-store landing view.
type DashboardSummary struct {
	GeneratedAt           time.Time     `json:"generated_at"`
	Last30Days            PeriodBalance `json:"last_30_days"`
	ScheduledWorkshops    int64         `json:"scheduled_workshops"`
	MembersBehindOnDues   int64         `json:"members_behind_on_dues"`
	FollowUpBeneficiaries int64         `json:"follow_up_beneficiaries"`
}

// ReportService defines the read-only cross-store summaries. No mutation,
// no caching.
type ReportService interface {
	FinancialReport(ctx context.Context, today time.Time) (*FinancialReport, error)
	BeneficiaryReport(ctx context.Context, today time.Time) (*BeneficiaryReport, error)
	WorkshopReport(ctx context.Context, today time.Time) (*WorkshopReport, error)
	Dashboard(ctx context.Context, today time.Time) (*DashboardSummary, error)
}
