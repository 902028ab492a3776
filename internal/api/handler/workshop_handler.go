package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/api/metrics"
	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// WorkshopHandler handles HTTP requests for the workshop register.
type WorkshopHandler struct {
	service ports.WorkshopService
}

func NewWorkshopHandler(service ports.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{service: service}
}

// Schedule creates a workshop in the scheduled state.
//
// @Summary      Schedule a workshop
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scheduleWorkshopRequest  true  "Workshop details"
// @Success      201   {object}  domain.Workshop
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /workshops [post]
func (h *WorkshopHandler) Schedule(c echo.Context) error {
	var req scheduleWorkshopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toScheduleWorkshopInput(req)
	if err != nil {
		return err
	}

	created, err := h.service.Schedule(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get returns one workshop by id.
//
// @Summary      Get a workshop
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Workshop id"
// @Success      200  {object}  domain.Workshop
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workshops/{id} [get]
func (h *WorkshopHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	w, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// Update patches workshop details while it is scheduled or in progress.
//
// @Summary      Update a workshop
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Workshop id"
// @Param        body  body      updateWorkshopRequest  true  "Fields to change"
// @Success      200   {object}  domain.Workshop
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /workshops/{id} [put]
func (h *WorkshopHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateWorkshopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch, err := toUpdateWorkshopInput(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// List returns one page of the workshop register.
//
// @Summary      List workshops
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        search     query     string  false  "Substring match on name or facilitator"
// @Param        date_from  query     string  false  "Start date from (2006-01-02)"
// @Param        date_to    query     string  false  "Start date to (2006-01-02)"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Rows per page (max 100)"
// @Success      200  {object}  listWorkshopsResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /workshops [get]
func (h *WorkshopHandler) List(c echo.Context) error {
	var req listWorkshopsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	filter, err := toListWorkshopsFilter(req)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listWorkshopsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Transition moves the workshop through its status machine.
//
// @Summary      Transition workshop status
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Workshop id"
// @Param        body  body      transitionRequest  true  "Target status"
// @Success      200   {object}  domain.Workshop
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /workshops/{id}/transition [post]
func (h *WorkshopHandler) Transition(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	w, err := h.service.Transition(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// Enroll signs a beneficiary up for a workshop.
//
// @Summary      Enroll a beneficiary
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Workshop id"
// @Param        body  body      enrollRequest  true  "Beneficiary to enroll"
// @Success      201   {object}  domain.Enrollment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /workshops/{id}/enrollments [post]
func (h *WorkshopHandler) Enroll(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	enrollment, err := h.service.Enroll(c.Request().Context(), id, req.BeneficiaryID)
	if err != nil {
		var capErr *domain.CapacityError
		switch {
		case errors.As(err, &capErr):
			metrics.EnrollmentsTotal.WithLabelValues("full").Inc()
		case errors.Is(err, domain.ErrWorkshopClosed):
			metrics.EnrollmentsTotal.WithLabelValues("closed").Inc()
		case errors.Is(err, domain.ErrDuplicateEnrollment):
			metrics.EnrollmentsTotal.WithLabelValues("duplicate").Inc()
		}
		return err
	}

	metrics.EnrollmentsTotal.WithLabelValues("enrolled").Inc()
	return c.JSON(http.StatusCreated, enrollment)
}

// Withdraw releases a beneficiary's seat.
//
// @Summary      Withdraw an enrollment
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        id             path  int  true  "Workshop id"
// @Param        beneficiaryId  path  int  true  "Beneficiary id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workshops/{id}/enrollments/{beneficiaryId} [delete]
func (h *WorkshopHandler) Withdraw(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	beneficiaryID, err := pathID(c, "beneficiaryId")
	if err != nil {
		return err
	}

	if err := h.service.Withdraw(c.Request().Context(), id, beneficiaryID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEnrollments returns the active and withdrawn enrollments of a workshop.
//
// @Summary      List enrollments
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Workshop id"
// @Success      200  {array}   domain.Enrollment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workshops/{id}/enrollments [get]
func (h *WorkshopHandler) ListEnrollments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	enrollments, err := h.service.ListEnrollments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, enrollments)
}

// RecordAttendance upserts one presence record for a session date.
//
// @Summary      Record attendance
// @Tags         workshops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Workshop id"
// @Param        body  body      attendanceRequest  true  "Attendance record"
// @Success      200   {object}  domain.Attendance
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /workshops/{id}/attendance [post]
func (h *WorkshopHandler) RecordAttendance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req attendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toAttendanceInput(req)
	if err != nil {
		return err
	}

	record, err := h.service.RecordAttendance(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// AttendanceRate reports the share of present session records.
//
// @Summary      Workshop attendance rate
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Workshop id"
// @Success      200  {object}  attendanceRateResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workshops/{id}/attendance-rate [get]
func (h *WorkshopHandler) AttendanceRate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	rate, err := h.service.AttendanceRate(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attendanceRateResponse{
		WorkshopID: rate.WorkshopID,
		Present:    rate.Present,
		Total:      rate.Total,
		Rate:       rate.Rate,
	})
}

// IssueCertificate issues the completion certificate for an enrollment.
//
// @Summary      Issue a certificate
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Enrollment id"
// @Success      201  {object}  domain.Certificate
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /enrollments/{id}/certificate [post]
func (h *WorkshopHandler) IssueCertificate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	cert, err := h.service.IssueCertificate(c.Request().Context(), id)
	if err != nil {
		return err
	}

	metrics.CertificatesIssuedTotal.Inc()
	return c.JSON(http.StatusCreated, cert)
}

// RevokeCertificate marks a certificate revoked; revoking twice is a no-op.
//
// @Summary      Revoke a certificate
// @Tags         workshops
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      string  true  "Certificate code"
// @Success      200   {object}  domain.Certificate
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /certificates/{code}/revoke [post]
func (h *WorkshopHandler) RevokeCertificate(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid code")
	}

	cert, err := h.service.RevokeCertificate(c.Request().Context(), code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

// --- Request → Service input ---

func toScheduleWorkshopInput(req scheduleWorkshopRequest) (ports.ScheduleWorkshopInput, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return ports.ScheduleWorkshopInput{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return ports.ScheduleWorkshopInput{}, err
	}

	return ports.ScheduleWorkshopInput{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		ScheduleText: req.ScheduleText,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Facilitator:  req.Facilitator,
		Notes:        req.Notes,
	}, nil
}

func toUpdateWorkshopInput(req updateWorkshopRequest) (ports.UpdateWorkshopInput, error) {
	patch := ports.UpdateWorkshopInput{
		Name:         req.Name,
		Description:  req.Description,
		ScheduleText: req.ScheduleText,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Facilitator:  req.Facilitator,
		Notes:        req.Notes,
	}

	if req.StartDate != nil && *req.StartDate != "" {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			return patch, err
		}
		patch.EndDate = &end
	}

	return patch, nil
}

func toListWorkshopsFilter(req listWorkshopsRequest) (ports.ListWorkshopsFilter, error) {
	filter := ports.ListWorkshopsFilter{
		Status: req.Status,
		Search: req.Search,
		Page:   req.Page,
		Limit:  req.Limit,
	}

	from, err := parseOptionalDate("date_from", req.DateFrom)
	if err != nil {
		return filter, err
	}
	filter.DateFrom = from

	to, err := parseOptionalDate("date_to", req.DateTo)
	if err != nil {
		return filter, err
	}
	filter.DateTo = to

	return filter, nil
}

func toAttendanceInput(req attendanceRequest) (ports.AttendanceInput, error) {
	session, err := parseDate("session_date", req.SessionDate)
	if err != nil {
		return ports.AttendanceInput{}, err
	}
	return ports.AttendanceInput{
		EnrollmentID: req.EnrollmentID,
		SessionDate:  session,
		Present:      *req.Present,
	}, nil
}
