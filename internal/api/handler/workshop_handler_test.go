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

type stubWorkshopService struct {
	scheduleFn         func(ctx context.Context, input ports.ScheduleWorkshopInput) (*domain.Workshop, error)
	getFn              func(ctx context.Context, id uint) (*domain.Workshop, error)
	updateFn           func(ctx context.Context, id uint, patch ports.UpdateWorkshopInput) (*domain.Workshop, error)
	listFn             func(ctx context.Context, filter ports.ListWorkshopsFilter) (*ports.ListWorkshopsResult, error)
	transitionFn       func(ctx context.Context, id uint, next string) (*domain.Workshop, error)
	refreshStatusesFn  func(ctx context.Context, today time.Time) (int, error)
	enrollFn           func(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error)
	withdrawFn         func(ctx context.Context, workshopID, beneficiaryID uint) error
	listEnrollmentsFn  func(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error)
	recordAttendanceFn func(ctx context.Context, workshopID uint, input ports.AttendanceInput) (*domain.Attendance, error)
	attendanceRateFn   func(ctx context.Context, workshopID uint) (*ports.AttendanceRateResult, error)
	issueCertFn        func(ctx context.Context, enrollmentID uint) (*domain.Certificate, error)
	revokeCertFn       func(ctx context.Context, code string) (*domain.Certificate, error)
}

func (s *stubWorkshopService) Schedule(ctx context.Context, input ports.ScheduleWorkshopInput) (*domain.Workshop, error) {
	return s.scheduleFn(ctx, input)
}

func (s *stubWorkshopService) Get(ctx context.Context, id uint) (*domain.Workshop, error) {
	return s.getFn(ctx, id)
}

func (s *stubWorkshopService) Update(ctx context.Context, id uint, patch ports.UpdateWorkshopInput) (*domain.Workshop, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubWorkshopService) List(ctx context.Context, filter ports.ListWorkshopsFilter) (*ports.ListWorkshopsResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubWorkshopService) Transition(ctx context.Context, id uint, next string) (*domain.Workshop, error) {
	return s.transitionFn(ctx, id, next)
}

func (s *stubWorkshopService) RefreshStatuses(ctx context.Context, today time.Time) (int, error) {
	return s.refreshStatusesFn(ctx, today)
}

func (s *stubWorkshopService) Enroll(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
	return s.enrollFn(ctx, workshopID, beneficiaryID)
}

func (s *stubWorkshopService) Withdraw(ctx context.Context, workshopID, beneficiaryID uint) error {
	return s.withdrawFn(ctx, workshopID, beneficiaryID)
}

func (s *stubWorkshopService) ListEnrollments(ctx context.Context, workshopID uint) ([]*domain.Enrollment, error) {
	return s.listEnrollmentsFn(ctx, workshopID)
}

func (s *stubWorkshopService) RecordAttendance(ctx context.Context, workshopID uint, input ports.AttendanceInput) (*domain.Attendance, error) {
	return s.recordAttendanceFn(ctx, workshopID, input)
}

func (s *stubWorkshopService) AttendanceRate(ctx context.Context, workshopID uint) (*ports.AttendanceRateResult, error) {
	return s.attendanceRateFn(ctx, workshopID)
}

func (s *stubWorkshopService) IssueCertificate(ctx context.Context, enrollmentID uint) (*domain.Certificate, error) {
	return s.issueCertFn(ctx, enrollmentID)
}

func (s *stubWorkshopService) RevokeCertificate(ctx context.Context, code string) (*domain.Certificate, error) {
	return s.revokeCertFn(ctx, code)
}

func workshopContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func TestWorkshopHandler_Schedule(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		scheduleFn: func(ctx context.Context, input ports.ScheduleWorkshopInput) (*domain.Workshop, error) {
			if input.Capacity != 25 {
				t.Fatalf("unexpected capacity: %d", input.Capacity)
			}
			if !input.StartDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected start date: %v", input.StartDate)
			}
			return &domain.Workshop{ID: 6, Name: input.Name, Status: domain.StatusScheduled, Capacity: input.Capacity}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/workshops", `{
		"name": "Repostería básica",
		"start_date": "2025-07-01",
		"end_date": "2025-08-15",
		"capacity": 25,
		"facilitator": "Sra. Robles"
	}`)

	if err := handler.Schedule(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "scheduled" {
		t.Fatalf("new workshops must start scheduled: %+v", resp)
	}
}

func TestWorkshopHandler_Schedule_MissingDates(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		scheduleFn: func(ctx context.Context, input ports.ScheduleWorkshopInput) (*domain.Workshop, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/workshops", `{"name":"Sin fechas","capacity":10}`)

	err := handler.Schedule(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkshopHandler_Transition(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		transitionFn: func(ctx context.Context, id uint, next string) (*domain.Workshop, error) {
			if id != 6 || next != "in_progress" {
				t.Fatalf("unexpected args: %d %s", id, next)
			}
			return &domain.Workshop{ID: id, Status: domain.StatusInProgress}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/workshops/6/transition", `{"status":"in_progress"}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.Transition(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWorkshopHandler_Transition_Invalid(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		transitionFn: func(ctx context.Context, id uint, next string) (*domain.Workshop, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/workshops/6/transition", `{"status":"scheduled"}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.Transition(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestWorkshopHandler_Enroll(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		enrollFn: func(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
			if workshopID != 6 || beneficiaryID != 10 {
				t.Fatalf("unexpected args: %d %d", workshopID, beneficiaryID)
			}
			return &domain.Enrollment{ID: 30, WorkshopID: workshopID, BeneficiaryID: beneficiaryID, Active: true}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/workshops/6/enrollments", `{"beneficiary_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.Enroll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWorkshopHandler_Enroll_Full(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		enrollFn: func(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
			return nil, &domain.CapacityError{WorkshopID: workshopID, Capacity: 25}
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/workshops/6/enrollments", `{"beneficiary_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	err := handler.Enroll(c)
	var capErr *domain.CapacityError
	if !errors.As(err, &capErr) || capErr.Capacity != 25 {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestWorkshopHandler_Enroll_Closed(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		enrollFn: func(ctx context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
			return nil, domain.ErrWorkshopClosed
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/workshops/6/enrollments", `{"beneficiary_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.Enroll(c); !errors.Is(err, domain.ErrWorkshopClosed) {
		t.Fatalf("expected ErrWorkshopClosed, got %v", err)
	}
}

func TestWorkshopHandler_RecordAttendance_ExplicitAbsence(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		recordAttendanceFn: func(ctx context.Context, workshopID uint, input ports.AttendanceInput) (*domain.Attendance, error) {
			if input.Present {
				t.Fatalf("explicit false must reach the service")
			}
			if !input.SessionDate.Equal(time.Date(2025, 7, 8, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected session date: %v", input.SessionDate)
			}
			return &domain.Attendance{ID: 2, WorkshopID: workshopID, EnrollmentID: input.EnrollmentID, Present: false}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/workshops/6/attendance", `{
		"enrollment_id": 30,
		"session_date": "2025-07-08",
		"present": false
	}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.RecordAttendance(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWorkshopHandler_RecordAttendance_MissingPresent(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubWorkshopService{
		recordAttendanceFn: func(ctx context.Context, workshopID uint, input ports.AttendanceInput) (*domain.Attendance, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/workshops/6/attendance", `{
		"enrollment_id": 30,
		"session_date": "2025-07-08"
	}`)
	c.SetParamNames("id")
	c.SetParamValues("6")

	err := handler.RecordAttendance(c)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkshopHandler_AttendanceRate(t *testing.T) {
	e := echo.New()
	stub := &stubWorkshopService{
		attendanceRateFn: func(ctx context.Context, workshopID uint) (*ports.AttendanceRateResult, error) {
			return &ports.AttendanceRateResult{WorkshopID: workshopID, Present: 18, Total: 24, Rate: 0.75}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodGet, "/workshops/6/attendance-rate", "")
	c.SetParamNames("id")
	c.SetParamValues("6")

	if err := handler.AttendanceRate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp attendanceRateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Rate != 0.75 || resp.Present != 18 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestWorkshopHandler_List_Filter(t *testing.T) {
	e := echo.New()
	stub := &stubWorkshopService{
		listFn: func(ctx context.Context, filter ports.ListWorkshopsFilter) (*ports.ListWorkshopsResult, error) {
			if filter.Status != "in_progress" || filter.Search != "cocina" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			if !filter.DateFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected date_from: %v", filter.DateFrom)
			}
			return &ports.ListWorkshopsResult{
				Items:      []*domain.Workshop{{ID: 6, Name: "Cocina"}},
				Total:      1,
				Page:       1,
				Limit:      20,
				TotalPages: 1,
			}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodGet, "/workshops?status=in_progress&search=cocina&date_from=2025-01-01", "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listWorkshopsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.Total != 1 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestWorkshopHandler_IssueCertificate(t *testing.T) {
	e := echo.New()
	stub := &stubWorkshopService{
		issueCertFn: func(ctx context.Context, enrollmentID uint) (*domain.Certificate, error) {
			if enrollmentID != 30 {
				t.Fatalf("unexpected enrollment: %d", enrollmentID)
			}
			return &domain.Certificate{ID: 1, EnrollmentID: enrollmentID, Code: "APRO-0F3A9C21"}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/enrollments/30/certificate", "")
	c.SetParamNames("id")
	c.SetParamValues("30")

	if err := handler.IssueCertificate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["code"] != "APRO-0F3A9C21" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestWorkshopHandler_IssueCertificate_NotCompleted(t *testing.T) {
	e := echo.New()
	stub := &stubWorkshopService{
		issueCertFn: func(ctx context.Context, enrollmentID uint) (*domain.Certificate, error) {
			return nil, domain.ErrWorkshopNotCompleted
		},
	}
	handler := NewWorkshopHandler(stub)

	c, _ := workshopContext(e, http.MethodPost, "/enrollments/30/certificate", "")
	c.SetParamNames("id")
	c.SetParamValues("30")

	if err := handler.IssueCertificate(c); !errors.Is(err, domain.ErrWorkshopNotCompleted) {
		t.Fatalf("expected ErrWorkshopNotCompleted, got %v", err)
	}
}

func TestWorkshopHandler_RevokeCertificate(t *testing.T) {
	e := echo.New()
	stub := &stubWorkshopService{
		revokeCertFn: func(ctx context.Context, code string) (*domain.Certificate, error) {
			if code != "APRO-0F3A9C21" {
				t.Fatalf("unexpected code: %s", code)
			}
			return &domain.Certificate{ID: 1, Code: code, Revoked: true}, nil
		},
	}
	handler := NewWorkshopHandler(stub)

	c, rec := workshopContext(e, http.MethodPost, "/certificates/APRO-0F3A9C21/revoke", "")
	c.SetParamNames("code")
	c.SetParamValues("APRO-0F3A9C21")

	if err := handler.RevokeCertificate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["revoked"] != true {
		t.Fatalf("certificate should be revoked: %+v", resp)
	}
}
