package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/api/metrics"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// ReportHandler handles the read-only cross-store summaries.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// observe records one report generation for the metrics endpoint.
func observe(report string, start time.Time) {
	metrics.ReportsGeneratedTotal.WithLabelValues(report).Inc()
	metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
}

// Financial compares the current month, previous month and historical totals.
//
// @Summary      Financial report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  financialReportResponse
// @Failure      403  {object}  errorResponse
// @Router       /reports/financial [get]
func (h *ReportHandler) Financial(c echo.Context) error {
	start := time.Now()
	report, err := h.service.FinancialReport(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	observe("financial", start)
	return c.JSON(http.StatusOK, toFinancialReportResponse(report))
}

// Beneficiaries summarizes the case load.
//
// @Summary      Beneficiary report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.BeneficiaryReport
// @Failure      403  {object}  errorResponse
// @Router       /reports/beneficiaries [get]
func (h *ReportHandler) Beneficiaries(c echo.Context) error {
	start := time.Now()
	report, err := h.service.BeneficiaryReport(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	observe("beneficiaries", start)
	return c.JSON(http.StatusOK, report)
}

// Workshops summarizes the workshop register.
//
// @Summary      Workshop report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.WorkshopReport
// @Failure      403  {object}  errorResponse
// @Router       /reports/workshops [get]
func (h *ReportHandler) Workshops(c echo.Context) error {
	start := time.Now()
	report, err := h.service.WorkshopReport(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	observe("workshops", start)
	return c.JSON(http.StatusOK, report)
}

// Dashboard returns the cross-store landing view.
//
// @Summary      Dashboard summary
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	start := time.Now()
	summary, err := h.service.Dashboard(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}

	observe("dashboard", start)
	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}
