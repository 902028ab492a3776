package handler

import (
	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// --- Request → Service input ---

// parseAmountField wraps domain.ParseAmount with a field-tagged validation
// error for the central handler.
func parseAmountField(field, value string) (int64, error) {
	cents, err := domain.ParseAmount(value)
	if err != nil {
		return 0, domain.NewValidationError(field, "must be a positive amount with up to two decimals")
	}
	return cents, nil
}

func toCreateMemberInput(req createMemberRequest) (ports.CreateMemberInput, error) {
	dues, err := parseAmountField("monthly_dues", req.MonthlyDues)
	if err != nil {
		return ports.CreateMemberInput{}, err
	}

	in := ports.CreateMemberInput{
		FullName:         req.FullName,
		DocumentNumber:   req.DocumentNumber,
		Phone:            req.Phone,
		Email:            req.Email,
		MonthlyDuesCents: dues,
	}

	if req.JoinedAt != "" {
		joined, err := parseDate("joined_at", req.JoinedAt)
		if err != nil {
			return in, err
		}
		in.JoinedAt = joined
	}

	return in, nil
}

func toUpdateMemberInput(req updateMemberRequest) (ports.UpdateMemberInput, error) {
	patch := ports.UpdateMemberInput{
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Status:         req.Status,
	}

	if req.MonthlyDues != nil {
		dues, err := parseAmountField("monthly_dues", *req.MonthlyDues)
		if err != nil {
			return patch, err
		}
		patch.MonthlyDuesCents = &dues
	}

	return patch, nil
}

func toRecordEntryInput(req recordEntryRequest, recordedBy uint) (ports.RecordEntryInput, error) {
	amount, err := parseAmountField("amount", req.Amount)
	if err != nil {
		return ports.RecordEntryInput{}, err
	}

	in := ports.RecordEntryInput{
		CategoryID:       req.CategoryID,
		AmountCents:      amount,
		Description:      req.Description,
		MemberID:         req.MemberID,
		RecordedByUserID: recordedBy,
	}

	if req.EntryDate != "" {
		entryDate, err := parseDate("entry_date", req.EntryDate)
		if err != nil {
			return in, err
		}
		in.EntryDate = entryDate
	}

	return in, nil
}

func toDuesPaymentInput(req duesPaymentRequest, memberID, recordedBy uint) (ports.DuesPaymentInput, error) {
	period, err := parseMonth("month", req.Month)
	if err != nil {
		return ports.DuesPaymentInput{}, err
	}

	in := ports.DuesPaymentInput{
		MemberID:         memberID,
		Period:           period,
		RecordedByUserID: recordedBy,
	}

	if req.Amount != "" {
		amount, err := parseAmountField("amount", req.Amount)
		if err != nil {
			return in, err
		}
		in.AmountCents = amount
	}

	return in, nil
}

func toListEntriesFilter(req listEntriesRequest) (ports.ListEntriesFilter, error) {
	filter := ports.ListEntriesFilter{
		CategoryID: req.CategoryID,
		Kind:       req.Kind,
		MemberID:   req.MemberID,
		Page:       req.Page,
		Limit:      req.Limit,
	}

	from, err := parseOptionalDate("from", req.From)
	if err != nil {
		return filter, err
	}
	filter.From = from

	to, err := parseOptionalDate("to", req.To)
	if err != nil {
		return filter, err
	}
	filter.To = to

	if req.MinAmount != "" {
		minCents, err := parseAmountField("min_amount", req.MinAmount)
		if err != nil {
			return filter, err
		}
		filter.MinAmountCents = minCents
	}
	if req.MaxAmount != "" {
		maxCents, err := parseAmountField("max_amount", req.MaxAmount)
		if err != nil {
			return filter, err
		}
		filter.MaxAmountCents = maxCents
	}

	return filter, nil
}

// --- Service result → HTTP response ---

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:             m.ID,
		Code:           m.Code,
		FullName:       m.FullName,
		DocumentNumber: m.DocumentNumber,
		Phone:          m.Phone,
		Email:          m.Email,
		Status:         m.Status,
		MonthlyDues:    domain.FormatAmount(m.MonthlyDuesCents),
		JoinedAt:       m.JoinedAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toEntryResponse(e *domain.LedgerEntry) entryResponse {
	return entryResponse{
		ID:               e.ID,
		CategoryID:       e.CategoryID,
		Kind:             string(e.Kind),
		Amount:           domain.FormatAmount(e.AmountCents),
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		MemberID:         e.MemberID,
		ReceiptNumber:    e.ReceiptNumber,
		RecordedByUserID: e.RecordedByUserID,
		CreatedAt:        e.CreatedAt,
	}
}

func toListEntriesResponse(r *ports.ListEntriesResult) listEntriesResponse {
	items := make([]entryResponse, len(r.Items))
	for i, e := range r.Items {
		items[i] = toEntryResponse(e)
	}
	return listEntriesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toListMembersResponse(r *ports.ListMembersResult) listMembersResponse {
	items := make([]memberResponse, len(r.Items))
	for i, m := range r.Items {
		items[i] = toMemberResponse(m)
	}
	return listMembersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toBalanceResponse(b *ports.BalanceResult) balanceResponse {
	resp := balanceResponse{
		Income:  domain.FormatAmount(b.IncomeCents),
		Expense: domain.FormatAmount(b.ExpenseCents),
		Net:     domain.FormatAmount(b.NetCents),
	}
	if !b.From.IsZero() {
		from := b.From
		resp.From = &from
	}
	if !b.To.IsZero() {
		to := b.To
		resp.To = &to
	}
	return resp
}

func toCategoryTotalResponses(totals []ports.CategoryTotal) []categoryTotalResponse {
	out := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = categoryTotalResponse{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Kind:         string(t.Kind),
			Total:        domain.FormatAmount(t.TotalCents),
		}
	}
	return out
}

func toDuesStatusResponse(s *ports.DuesStatusResult) duesStatusResponse {
	return duesStatusResponse{
		MemberID: s.MemberID,
		Month:    s.Month.Format(monthLayout),
		Paid:     s.Paid,
	}
}
