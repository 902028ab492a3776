package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

type stubBeneficiaryService struct {
	createFn        func(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error)
	getFn           func(ctx context.Context, id uint) (*domain.Beneficiary, error)
	updateFn        func(ctx context.Context, id uint, patch ports.UpdateBeneficiaryInput) (*domain.Beneficiary, error)
	flagFollowUpFn  func(ctx context.Context, id uint, notes string) (*domain.Beneficiary, error)
	clearFollowUpFn func(ctx context.Context, id uint) (*domain.Beneficiary, error)
	addVisitFn      func(ctx context.Context, beneficiaryID uint, input ports.VisitInput) (*domain.FollowUpVisit, error)
	listVisitsFn    func(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error)
	searchFn        func(ctx context.Context, filter ports.SearchBeneficiariesFilter) (*ports.SearchBeneficiariesResult, error)
	deactivateFn    func(ctx context.Context, id uint) error
}

func (s *stubBeneficiaryService) Create(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error) {
	return s.createFn(ctx, input)
}

func (s *stubBeneficiaryService) Get(ctx context.Context, id uint) (*domain.Beneficiary, error) {
	return s.getFn(ctx, id)
}

func (s *stubBeneficiaryService) Update(ctx context.Context, id uint, patch ports.UpdateBeneficiaryInput) (*domain.Beneficiary, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubBeneficiaryService) FlagFollowUp(ctx context.Context, id uint, notes string) (*domain.Beneficiary, error) {
	return s.flagFollowUpFn(ctx, id, notes)
}

func (s *stubBeneficiaryService) ClearFollowUp(ctx context.Context, id uint) (*domain.Beneficiary, error) {
	return s.clearFollowUpFn(ctx, id)
}

func (s *stubBeneficiaryService) AddVisit(ctx context.Context, beneficiaryID uint, input ports.VisitInput) (*domain.FollowUpVisit, error) {
	return s.addVisitFn(ctx, beneficiaryID, input)
}

func (s *stubBeneficiaryService) ListVisits(ctx context.Context, beneficiaryID uint) ([]*domain.FollowUpVisit, error) {
	return s.listVisitsFn(ctx, beneficiaryID)
}

func (s *stubBeneficiaryService) Search(ctx context.Context, filter ports.SearchBeneficiariesFilter) (*ports.SearchBeneficiariesResult, error) {
	return s.searchFn(ctx, filter)
}

func (s *stubBeneficiaryService) Deactivate(ctx context.Context, id uint) error {
	return s.deactivateFn(ctx, id)
}

// beneficiaryContext builds an authenticated POST context for the handler under test.
func beneficiaryContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(5))
	c.Set("role", domain.RoleStaff)
	return c, rec
}

func TestBeneficiaryHandler_Create_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubBeneficiaryService{
		createFn: func(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error) {
			if input.IntakeUserID != 5 {
				t.Fatalf("intake user should come from the token, got %d", input.IntakeUserID)
			}
			if input.BirthDate == nil || !input.BirthDate.Equal(time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected birth date: %v", input.BirthDate)
			}
			if !input.IntakeAt.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected intake date: %v", input.IntakeAt)
			}
			return &domain.Beneficiary{ID: 10, Code: "BEN-0000000A", FirstNames: input.FirstNames}, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, rec := beneficiaryContext(e, http.MethodPost, "/beneficiaries", `{
		"first_names": "María",
		"last_names": "Huamán",
		"document_type": "dni",
		"document_number": "44556677",
		"birth_date": "1990-03-15",
		"intake_at": "2025-06-02",
		"violence_type": "psychological",
		"housing_status": "rented"
	}`)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["code"] != "BEN-0000000A" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBeneficiaryHandler_Create_DefaultsIntakeDate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubBeneficiaryService{
		createFn: func(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error) {
			if input.IntakeAt.IsZero() {
				t.Fatalf("intake date should default to today")
			}
			h, m, s := input.IntakeAt.Clock()
			if h != 0 || m != 0 || s != 0 || input.IntakeAt.Location() != time.UTC {
				t.Fatalf("intake date should be UTC midnight, got %v", input.IntakeAt)
			}
			return &domain.Beneficiary{ID: 11}, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, rec := beneficiaryContext(e, http.MethodPost, "/beneficiaries", `{
		"first_names": "Julia",
		"last_names": "Paredes",
		"document_type": "dni",
		"violence_type": "economic",
		"housing_status": "family"
	}`)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBeneficiaryHandler_Create_BadDate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubBeneficiaryService{
		createFn: func(ctx context.Context, input ports.CreateBeneficiaryInput) (*domain.Beneficiary, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, _ := beneficiaryContext(e, http.MethodPost, "/beneficiaries", `{
		"first_names": "Julia",
		"last_names": "Paredes",
		"document_type": "dni",
		"birth_date": "15/03/1990",
		"violence_type": "economic",
		"housing_status": "family"
	}`)

	err := handler.Create(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBeneficiaryHandler_Search(t *testing.T) {
	e := echo.New()
	stub := &stubBeneficiaryService{
		searchFn: func(ctx context.Context, filter ports.SearchBeneficiariesFilter) (*ports.SearchBeneficiariesResult, error) {
			if filter.Name != "maria" || filter.FollowUp == nil || !*filter.FollowUp {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			if !filter.ActiveOnly {
				t.Fatalf("active records only unless include_inactive is set")
			}
			return &ports.SearchBeneficiariesResult{
				Items:      []*domain.Beneficiary{{ID: 1, FirstNames: "María"}},
				Total:      41,
				Page:       2,
				Limit:      20,
				TotalPages: 3,
			}, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, rec := beneficiaryContext(e, http.MethodGet, "/beneficiaries?name=maria&follow_up=true&page=2", "")

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp searchBeneficiariesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.Total != 41 || resp.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestBeneficiaryHandler_FlagFollowUp(t *testing.T) {
	e := echo.New()
	stub := &stubBeneficiaryService{
		flagFollowUpFn: func(ctx context.Context, id uint, notes string) (*domain.Beneficiary, error) {
			if id != 9 || notes != "needs legal orientation" {
				t.Fatalf("unexpected args: %d %q", id, notes)
			}
			return &domain.Beneficiary{ID: id, FollowUpRequired: true}, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, rec := beneficiaryContext(e, http.MethodPost, "/beneficiaries/9/follow-up", `{"notes":"needs legal orientation"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := handler.FlagFollowUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["follow_up_required"] != true {
		t.Fatalf("expected follow_up_required true: %+v", resp)
	}
}

func TestBeneficiaryHandler_AddVisit(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubBeneficiaryService{
		addVisitFn: func(ctx context.Context, beneficiaryID uint, input ports.VisitInput) (*domain.FollowUpVisit, error) {
			if beneficiaryID != 9 || input.RecordedByUserID != 5 {
				t.Fatalf("unexpected args: %d %d", beneficiaryID, input.RecordedByUserID)
			}
			if input.AttentionType != "legal" {
				t.Fatalf("unexpected attention type: %s", input.AttentionType)
			}
			return &domain.FollowUpVisit{ID: 3, BeneficiaryID: beneficiaryID}, nil
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, rec := beneficiaryContext(e, http.MethodPost, "/beneficiaries/9/visits", `{
		"visit_at": "2025-06-10",
		"attention_type": "legal",
		"notes": "derived to public defender"
	}`)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := handler.AddVisit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBeneficiaryHandler_Deactivate_NotFound(t *testing.T) {
	e := echo.New()
	stub := &stubBeneficiaryService{
		deactivateFn: func(ctx context.Context, id uint) error {
			return domain.ErrBeneficiaryNotFound
		},
	}
	handler := NewBeneficiaryHandler(stub)

	c, _ := beneficiaryContext(e, http.MethodPost, "/beneficiaries/99/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := handler.Deactivate(c); !errors.Is(err, domain.ErrBeneficiaryNotFound) {
		t.Fatalf("expected ErrBeneficiaryNotFound, got %v", err)
	}
}
