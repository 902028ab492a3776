package handler

import "time"

// Amounts travel as two-decimal strings ("1250.00"); the mapper converts to
// and from integer cents so no float ever touches the ledger.

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=income expense"`
}

type updateCategoryRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

type createMemberRequest struct {
	FullName       string `json:"full_name"       validate:"required"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"           validate:"omitempty,email"`
	MonthlyDues    string `json:"monthly_dues"    validate:"required"`
	JoinedAt       string `json:"joined_at"       validate:"omitempty,datetime=2006-01-02"`
}

type updateMemberRequest struct {
	FullName       *string `json:"full_name"`
	DocumentNumber *string `json:"document_number"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"  validate:"omitempty,email"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive"`
	MonthlyDues    *string `json:"monthly_dues"`
}

type recordEntryRequest struct {
	CategoryID  uint   `json:"category_id" validate:"required"`
	Amount      string `json:"amount"      validate:"required"`
	EntryDate   string `json:"entry_date"  validate:"omitempty,datetime=2006-01-02"`
	Description string `json:"description"`
	MemberID    *uint  `json:"member_id"`
}

type duesPaymentRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
	// Amount overrides the member's monthly dues when present.
	Amount string `json:"amount"`
}

type listEntriesRequest struct {
	From       string `query:"from"`
	To         string `query:"to"`
	CategoryID uint   `query:"category_id"`
	Kind       string `query:"kind"`
	MemberID   uint   `query:"member_id"`
	MinAmount  string `query:"min_amount"`
	MaxAmount  string `query:"max_amount"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

type listMembersRequest struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// Response-only types owned by the transport layer.

type memberResponse struct {
	ID             uint      `json:"id"`
	Code           string    `json:"code"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	MonthlyDues    string    `json:"monthly_dues"`
	JoinedAt       time.Time `json:"joined_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type entryResponse struct {
	ID               uint      `json:"id"`
	CategoryID       uint      `json:"category_id"`
	Kind             string    `json:"kind"`
	Amount           string    `json:"amount"`
	EntryDate        time.Time `json:"entry_date"`
	Description      string    `json:"description"`
	MemberID         *uint     `json:"member_id,omitempty"`
	ReceiptNumber    string    `json:"receipt_number,omitempty"`
	RecordedByUserID uint      `json:"recorded_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type listEntriesResponse struct {
	Data       []entryResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type listMembersResponse struct {
	Data       []memberResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type balanceResponse struct {
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
	Income  string     `json:"income"`
	Expense string     `json:"expense"`
	Net     string     `json:"net"`
}

type categoryTotalResponse struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Kind         string `json:"kind"`
	Total        string `json:"total"`
}

type duesStatusResponse struct {
	MemberID uint   `json:"member_id"`
	Month    string `json:"month"`
	Paid     bool   `json:"paid"`
}
