package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/api/metrics"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// FinanceHandler handles HTTP requests for the ledger, categories, members
// and dues.
type FinanceHandler struct {
	service ports.FinanceService
}

func NewFinanceHandler(service ports.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// CreateCategory adds a ledger category.
//
// @Summary      Create a category
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category details"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /finance/categories [post]
func (h *FinanceHandler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.service.CreateCategory(c.Request().Context(), ports.CreateCategoryInput{
		Name: req.Name,
		Kind: req.Kind,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames or (de)activates a category.
//
// @Summary      Update a category
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Category id"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Category
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /finance/categories/{id} [put]
func (h *FinanceHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.UpdateCategory(c.Request().Context(), id, ports.UpdateCategoryInput{
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// ListCategories returns categories, optionally filtered by kind.
//
// @Summary      List categories
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        kind         query     string  false  "income or expense"
// @Param        active_only  query     bool    false  "Exclude deactivated categories"
// @Success      200  {array}   domain.Category
// @Failure      403  {object}  errorResponse
// @Router       /finance/categories [get]
func (h *FinanceHandler) ListCategories(c echo.Context) error {
	kind := c.QueryParam("kind")
	activeOnly := c.QueryParam("active_only") == "true"

	categories, err := h.service.ListCategories(c.Request().Context(), kind, activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateMember registers a dues-paying member.
//
// @Summary      Create a member
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMemberRequest  true  "Member details"
// @Success      201   {object}  memberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /finance/members [post]
func (h *FinanceHandler) CreateMember(c echo.Context) error {
	var req createMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateMemberInput(req)
	if err != nil {
		return err
	}

	member, err := h.service.CreateMember(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// GetMember returns one member by id.
//
// @Summary      Get a member
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Member id"
// @Success      200  {object}  memberResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /finance/members/{id} [get]
func (h *FinanceHandler) GetMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	member, err := h.service.GetMember(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// UpdateMember patches member data; dues changes apply to future months only.
//
// @Summary      Update a member
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Member id"
// @Param        body  body      updateMemberRequest  true  "Fields to change"
// @Success      200   {object}  memberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /finance/members/{id} [put]
func (h *FinanceHandler) UpdateMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch, err := toUpdateMemberInput(req)
	if err != nil {
		return err
	}

	member, err := h.service.UpdateMember(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// ListMembers returns one page of the member roster.
//
// @Summary      List members
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Substring match on name or document"
// @Param        status  query     string  false  "active or inactive"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Success      200  {object}  listMembersResponse
// @Failure      403  {object}  errorResponse
// @Router       /finance/members [get]
func (h *FinanceHandler) ListMembers(c echo.Context) error {
	var req listMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	result, err := h.service.ListMembers(c.Request().Context(), ports.ListMembersFilter{
		Search: req.Search,
		Status: req.Status,
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListMembersResponse(result))
}

// DuesStatus reports whether a member paid dues for a given month. The
// answer is recomputed from the ledger on every request.
//
// @Summary      Member dues status for a month
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int     true  "Member id"
// @Param        month  query     string  true  "Month (2006-01)"
// @Success      200  {object}  duesStatusResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /finance/members/{id}/dues [get]
func (h *FinanceHandler) DuesStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	month, err := parseMonth("month", c.QueryParam("month"))
	if err != nil {
		return err
	}

	status, err := h.service.MemberDuesStatus(c.Request().Context(), id, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDuesStatusResponse(status))
}

// RecordDues registers one monthly dues payment for a member.
//
// @Summary      Record a dues payment
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Member id"
// @Param        body  body      duesPaymentRequest  true  "Month being paid"
// @Success      201   {object}  entryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /finance/members/{id}/dues [post]
func (h *FinanceHandler) RecordDues(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req duesPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toDuesPaymentInput(req, id, userID)
	if err != nil {
		return err
	}

	entry, err := h.service.RecordDuesPayment(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.DuesPaymentsTotal.Inc()
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// RecordEntry adds one income or expense movement to the ledger.
//
// @Summary      Record a ledger entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordEntryRequest  true  "Entry details"
// @Success      201   {object}  entryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /finance/entries [post]
func (h *FinanceHandler) RecordEntry(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req recordEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toRecordEntryInput(req, userID)
	if err != nil {
		return err
	}

	entry, err := h.service.RecordEntry(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.LedgerEntriesTotal.WithLabelValues(string(entry.Kind)).Inc()
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// ListEntries returns one page of ledger entries, newest first.
//
// @Summary      List ledger entries
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        from         query     string  false  "Start date (2006-01-02)"
// @Param        to           query     string  false  "End date (2006-01-02)"
// @Param        category_id  query     int     false  "Filter by category"
// @Param        kind         query     string  false  "income or expense"
// @Param        member_id    query     int     false  "Filter by member"
// @Param        min_amount   query     string  false  "Minimum amount"
// @Param        max_amount   query     string  false  "Maximum amount"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Rows per page (max 100)"
// @Success      200  {object}  listEntriesResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /finance/entries [get]
func (h *FinanceHandler) ListEntries(c echo.Context) error {
	var req listEntriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	filter, err := toListEntriesFilter(req)
	if err != nil {
		return err
	}

	result, err := h.service.ListEntries(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListEntriesResponse(result))
}

// Balance sums income and expenses within an optional date range.
//
// @Summary      Ledger balance
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (2006-01-02)"
// @Param        to    query     string  false  "End date (2006-01-02)"
// @Success      200  {object}  balanceResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /finance/balance [get]
func (h *FinanceHandler) Balance(c echo.Context) error {
	from, err := parseOptionalDate("from", c.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := parseOptionalDate("to", c.QueryParam("to"))
	if err != nil {
		return err
	}

	balance, err := h.service.Balance(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBalanceResponse(balance))
}

// BalanceByCategory breaks the range totals down per category.
//
// @Summary      Balance by category
// @Tags         finance
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "Start date (2006-01-02)"
// @Param        to    query     string  false  "End date (2006-01-02)"
// @Success      200  {array}   categoryTotalResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /finance/balance/categories [get]
func (h *FinanceHandler) BalanceByCategory(c echo.Context) error {
	from, err := parseOptionalDate("from", c.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := parseOptionalDate("to", c.QueryParam("to"))
	if err != nil {
		return err
	}

	totals, err := h.service.BalanceByCategory(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryTotalResponses(totals))
}
