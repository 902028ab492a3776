package handler

import (
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

type periodBalanceResponse struct {
	Label   string     `json:"label,omitempty"`
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
	Income  string     `json:"income"`
	Expense string     `json:"expense"`
	Net     string     `json:"net"`
}

type financialReportResponse struct {
	GeneratedAt   time.Time               `json:"generated_at"`
	CurrentMonth  periodBalanceResponse   `json:"current_month"`
	PreviousMonth periodBalanceResponse   `json:"previous_month"`
	Historical    periodBalanceResponse   `json:"historical"`
	ByCategory    []categoryTotalResponse `json:"by_category"`
}

type dashboardResponse struct {
	GeneratedAt           time.Time             `json:"generated_at"`
	Last30Days            periodBalanceResponse `json:"last_30_days"`
	ScheduledWorkshops    int64                 `json:"scheduled_workshops"`
	MembersBehindOnDues   int64                 `json:"members_behind_on_dues"`
	FollowUpBeneficiaries int64                 `json:"follow_up_beneficiaries"`
}

func toPeriodBalanceResponse(p ports.PeriodBalance) periodBalanceResponse {
	resp := periodBalanceResponse{
		Label:   p.Label,
		Income:  domain.FormatAmount(p.IncomeCents),
		Expense: domain.FormatAmount(p.ExpenseCents),
		Net:     domain.FormatAmount(p.NetCents),
	}
	if !p.From.IsZero() {
		from := p.From
		resp.From = &from
	}
	if !p.To.IsZero() {
		to := p.To
		resp.To = &to
	}
	return resp
}

func toFinancialReportResponse(r *ports.FinancialReport) financialReportResponse {
	return financialReportResponse{
		GeneratedAt:   r.GeneratedAt,
		CurrentMonth:  toPeriodBalanceResponse(r.CurrentMonth),
		PreviousMonth: toPeriodBalanceResponse(r.PreviousMonth),
		Historical:    toPeriodBalanceResponse(r.Historical),
		ByCategory:    toCategoryTotalResponses(r.ByCategory),
	}
}

func toDashboardResponse(d *ports.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		GeneratedAt:           d.GeneratedAt,
		Last30Days:            toPeriodBalanceResponse(d.Last30Days),
		ScheduledWorkshops:    d.ScheduledWorkshops,
		MembersBehindOnDues:   d.MembersBehindOnDues,
		FollowUpBeneficiaries: d.FollowUpBeneficiaries,
	}
}
