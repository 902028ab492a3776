package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/core/ports"
)

// BeneficiaryHandler handles HTTP requests for case records.
type BeneficiaryHandler struct {
	service ports.BeneficiaryService
}

func NewBeneficiaryHandler(service ports.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{service: service}
}

// Create registers a new case record from the intake interview.
//
// @Summary      Register a beneficiary
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBeneficiaryRequest  true  "Intake details"
// @Success      201   {object}  domain.Beneficiary
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /beneficiaries [post]
func (h *BeneficiaryHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createBeneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateBeneficiaryInput(req, userID)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get returns one case record by id.
//
// @Summary      Get a beneficiary
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Beneficiary id"
// @Success      200  {object}  domain.Beneficiary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /beneficiaries/{id} [get]
func (h *BeneficiaryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	b, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Update patches a case record; only provided fields change.
//
// @Summary      Update a beneficiary
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Beneficiary id"
// @Param        body  body      updateBeneficiaryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Beneficiary
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /beneficiaries/{id} [patch]
func (h *BeneficiaryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateBeneficiaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch, err := toUpdateBeneficiaryInput(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Search returns one page of matching case records.
//
// @Summary      Search beneficiaries
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        name              query     string  false  "Substring match on names"
// @Param        violence_type     query     string  false  "Filter by violence type"
// @Param        follow_up         query     bool    false  "Filter by follow-up flag"
// @Param        include_inactive  query     bool    false  "Include deactivated records"
// @Param        page              query     int     false  "Page (1-based)"
// @Param        limit             query     int     false  "Rows per page (max 100)"
// @Success      200  {object}  searchBeneficiariesResponse
// @Failure      403  {object}  errorResponse
// @Router       /beneficiaries [get]
func (h *BeneficiaryHandler) Search(c echo.Context) error {
	var req searchBeneficiariesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	result, err := h.service.Search(c.Request().Context(), toSearchFilter(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSearchResponse(result))
}

// FlagFollowUp marks the record for follow-up and appends a dated note.
//
// @Summary      Flag a beneficiary for follow-up
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true   "Beneficiary id"
// @Param        body  body      flagFollowUpRequest  false  "Optional note"
// @Success      200   {object}  domain.Beneficiary
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /beneficiaries/{id}/follow-up [post]
func (h *BeneficiaryHandler) FlagFollowUp(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req flagFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.FlagFollowUp(c.Request().Context(), id, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ClearFollowUp removes the follow-up flag and its notes.
//
// @Summary      Clear the follow-up flag
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Beneficiary id"
// @Success      200  {object}  domain.Beneficiary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /beneficiaries/{id}/follow-up [delete]
func (h *BeneficiaryHandler) ClearFollowUp(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	updated, err := h.service.ClearFollowUp(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// AddVisit records one follow-up attention for the case.
//
// @Summary      Record a follow-up visit
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Beneficiary id"
// @Param        body  body      visitRequest  true  "Visit details"
// @Success      201   {object}  domain.FollowUpVisit
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /beneficiaries/{id}/visits [post]
func (h *BeneficiaryHandler) AddVisit(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toVisitInput(req, userID)
	if err != nil {
		return err
	}

	visit, err := h.service.AddVisit(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, visit)
}

// ListVisits returns the visit log for one case, newest first.
//
// @Summary      List follow-up visits
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Beneficiary id"
// @Success      200  {array}   domain.FollowUpVisit
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /beneficiaries/{id}/visits [get]
func (h *BeneficiaryHandler) ListVisits(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	visits, err := h.service.ListVisits(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}

// Deactivate closes the case; the record is kept for reporting.
//
// @Summary      Deactivate a beneficiary
// @Tags         beneficiaries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Beneficiary id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /beneficiaries/{id}/deactivate [post]
func (h *BeneficiaryHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
