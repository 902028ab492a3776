package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/core/ports"
)

type stubReportService struct {
	financialFn   func(ctx context.Context, today time.Time) (*ports.FinancialReport, error)
	beneficiaryFn func(ctx context.Context, today time.Time) (*ports.BeneficiaryReport, error)
	workshopFn    func(ctx context.Context, today time.Time) (*ports.WorkshopReport, error)
	dashboardFn   func(ctx context.Context, today time.Time) (*ports.DashboardSummary, error)
}

func (s *stubReportService) FinancialReport(ctx context.Context, today time.Time) (*ports.FinancialReport, error) {
	return s.financialFn(ctx, today)
}

func (s *stubReportService) BeneficiaryReport(ctx context.Context, today time.Time) (*ports.BeneficiaryReport, error) {
	return s.beneficiaryFn(ctx, today)
}

func (s *stubReportService) WorkshopReport(ctx context.Context, today time.Time) (*ports.WorkshopReport, error) {
	return s.workshopFn(ctx, today)
}

func (s *stubReportService) Dashboard(ctx context.Context, today time.Time) (*ports.DashboardSummary, error) {
	return s.dashboardFn(ctx, today)
}

func TestReportHandler_Financial_FormatsMoney(t *testing.T) {
	e := echo.New()
	stub := &stubReportService{
		financialFn: func(ctx context.Context, today time.Time) (*ports.FinancialReport, error) {
			if today.IsZero() {
				t.Fatalf("reference date must be passed through")
			}
			return &ports.FinancialReport{
				GeneratedAt: today,
				CurrentMonth: ports.PeriodBalance{
					Label:        "2025-06",
					IncomeCents:  150000,
					ExpenseCents: 42050,
					NetCents:     107950,
				},
				ByCategory: []ports.CategoryTotal{
					{CategoryID: 1, CategoryName: "Cuotas de Socios", Kind: "income", TotalCents: 90000},
				},
			}, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/reports/financial", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Financial(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp financialReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.CurrentMonth.Income != "1500.00" || resp.CurrentMonth.Net != "1079.50" {
		t.Fatalf("unexpected money strings: %+v", resp.CurrentMonth)
	}
	if len(resp.ByCategory) != 1 || resp.ByCategory[0].Total != "900.00" {
		t.Fatalf("unexpected category totals: %+v", resp.ByCategory)
	}
}

func TestReportHandler_Beneficiaries(t *testing.T) {
	e := echo.New()
	stub := &stubReportService{
		beneficiaryFn: func(ctx context.Context, today time.Time) (*ports.BeneficiaryReport, error) {
			return &ports.BeneficiaryReport{
				GeneratedAt:     today,
				Total:           120,
				Active:          95,
				Inactive:        25,
				FollowUpFlagged: 12,
			}, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/reports/beneficiaries", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Beneficiaries(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(120) || resp["follow_up_flagged"] != float64(12) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReportHandler_Dashboard(t *testing.T) {
	e := echo.New()
	stub := &stubReportService{
		dashboardFn: func(ctx context.Context, today time.Time) (*ports.DashboardSummary, error) {
			return &ports.DashboardSummary{
				GeneratedAt:           today,
				Last30Days:            ports.PeriodBalance{IncomeCents: 200000, ExpenseCents: 80000, NetCents: 120000},
				ScheduledWorkshops:    3,
				MembersBehindOnDues:   7,
				FollowUpBeneficiaries: 12,
			}, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Last30Days.Net != "1200.00" || resp.MembersBehindOnDues != 7 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReportHandler_Workshops_Error(t *testing.T) {
	e := echo.New()
	wantErr := errors.New("aggregate failed")
	stub := &stubReportService{
		workshopFn: func(ctx context.Context, today time.Time) (*ports.WorkshopReport, error) {
			return nil, wantErr
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/reports/workshops", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Workshops(c); !errors.Is(err, wantErr) {
		t.Fatalf("expected aggregate error, got %v", err)
	}
}
