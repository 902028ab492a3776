package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubWorkshopRepo struct {
	workshops    map[uint]*domain.Workshop
	enrollments  map[uint]*domain.Enrollment
	attendance   map[string]*domain.Attendance
	certificates map[uint]*domain.Certificate
	nextID       uint
	nextEnrollID uint
	nextCertID   uint
	nextAttendID uint
	createErr    error
	updateErr    error
}

func newStubWorkshopRepo() *stubWorkshopRepo {
	return &stubWorkshopRepo{
		workshops:    make(map[uint]*domain.Workshop),
		enrollments:  make(map[uint]*domain.Enrollment),
		attendance:   make(map[string]*domain.Attendance),
		certificates: make(map[uint]*domain.Certificate),
	}
}

func cloneWorkshop(w *domain.Workshop) *domain.Workshop {
	if w == nil {
		return nil
	}
	clone := *w
	return &clone
}

func cloneEnrollment(e *domain.Enrollment) *domain.Enrollment {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

func cloneCertificate(c *domain.Certificate) *domain.Certificate {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func attendanceKey(enrollmentID uint, sessionDate time.Time) string {
	return fmt.Sprintf("%d|%s", enrollmentID, sessionDate.Format("2006-01-02"))
}

func (r *stubWorkshopRepo) Create(_ context.Context, w *domain.Workshop) (*domain.Workshop, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := cloneWorkshop(w)
	clone.ID = r.nextID
	r.workshops[clone.ID] = clone
	return cloneWorkshop(clone), nil
}

func (r *stubWorkshopRepo) FindByID(_ context.Context, id uint) (*domain.Workshop, error) {
	w, ok := r.workshops[id]
	if !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	return cloneWorkshop(w), nil
}

func (r *stubWorkshopRepo) Update(_ context.Context, w *domain.Workshop) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.workshops[w.ID]; !ok {
		return domain.ErrWorkshopNotFound
	}
	r.workshops[w.ID] = cloneWorkshop(w)
	return nil
}

// List applies the same filters the real Postgres repo uses.
func (r *stubWorkshopRepo) List(_ context.Context, f ports.ListWorkshopsFilter) ([]*domain.Workshop, int64, error) {
	var matched []*domain.Workshop
	for _, w := range r.workshops {
		if f.Status != "" && string(w.Status) != f.Status {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			name := strings.Contains(strings.ToLower(w.Name), needle)
			facilitator := strings.Contains(strings.ToLower(w.Facilitator), needle)
			if !name && !facilitator {
				continue
			}
		}
		if !f.DateFrom.IsZero() && w.StartDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && w.StartDate.After(f.DateTo) {
			continue
		}
		matched = append(matched, cloneWorkshop(w))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartDate.After(matched[j].StartDate) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Workshop{}, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubWorkshopRepo) ListByStatuses(_ context.Context, statuses ...domain.WorkshopStatus) ([]*domain.Workshop, error) {
	var out []*domain.Workshop
	for _, w := range r.workshops {
		for _, status := range statuses {
			if w.Status == status {
				out = append(out, cloneWorkshop(w))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubWorkshopRepo) CountByStatus(_ context.Context) ([]ports.StatusCount, error) {
	counts := make(map[string]int64)
	for _, w := range r.workshops {
		counts[string(w.Status)]++
	}
	rows := make([]ports.StatusCount, 0, len(counts))
	for status, n := range counts {
		rows = append(rows, ports.StatusCount{Status: status, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows, nil
}

// Enroll mirrors the row-locked checks of the real Postgres repo: status and
// capacity are re-verified, and a withdrawn enrollment is re-activated
// instead of inserting a second row.
func (r *stubWorkshopRepo) Enroll(_ context.Context, workshopID, beneficiaryID uint) (*domain.Enrollment, error) {
	w, ok := r.workshops[workshopID]
	if !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	if !w.Status.AcceptsEnrollments() {
		return nil, domain.ErrWorkshopClosed
	}

	var existing *domain.Enrollment
	var active int64
	for _, e := range r.enrollments {
		if e.WorkshopID != workshopID {
			continue
		}
		if e.Active {
			active++
		}
		if e.BeneficiaryID == beneficiaryID {
			existing = e
		}
	}
	if existing != nil && existing.Active {
		return nil, domain.ErrDuplicateEnrollment
	}
	if active >= int64(w.Capacity) {
		return nil, &domain.CapacityError{WorkshopID: workshopID, Capacity: w.Capacity}
	}
	if existing != nil {
		existing.Active = true
		existing.EnrolledAt = time.Now().UTC()
		return cloneEnrollment(existing), nil
	}

	r.nextEnrollID++
	e := &domain.Enrollment{
		ID:            r.nextEnrollID,
		WorkshopID:    workshopID,
		BeneficiaryID: beneficiaryID,
		EnrolledAt:    time.Now().UTC(),
		Active:        true,
	}
	r.enrollments[e.ID] = e
	return cloneEnrollment(e), nil
}

func (r *stubWorkshopRepo) Withdraw(_ context.Context, workshopID, beneficiaryID uint) error {
	for _, e := range r.enrollments {
		if e.WorkshopID == workshopID && e.BeneficiaryID == beneficiaryID && e.Active {
			e.Active = false
			return nil
		}
	}
	return domain.ErrEnrollmentNotFound
}

func (r *stubWorkshopRepo) FindEnrollmentByID(_ context.Context, id uint) (*domain.Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	return cloneEnrollment(e), nil
}

func (r *stubWorkshopRepo) ListEnrollments(_ context.Context, workshopID uint) ([]*domain.Enrollment, error) {
	var out []*domain.Enrollment
	for _, e := range r.enrollments {
		if e.WorkshopID == workshopID {
			out = append(out, cloneEnrollment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubWorkshopRepo) CountActiveEnrollments(_ context.Context, workshopID uint) (int64, error) {
	var n int64
	for _, e := range r.enrollments {
		if e.WorkshopID == workshopID && e.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubWorkshopRepo) CountActiveEnrollmentsAll(_ context.Context) (int64, error) {
	var n int64
	for _, e := range r.enrollments {
		if e.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubWorkshopRepo) UpsertAttendance(_ context.Context, a *domain.Attendance) (*domain.Attendance, error) {
	key := attendanceKey(a.EnrollmentID, a.SessionDate)
	if existing, ok := r.attendance[key]; ok {
		existing.Present = a.Present
		clone := *existing
		return &clone, nil
	}
	r.nextAttendID++
	clone := *a
	clone.ID = r.nextAttendID
	r.attendance[key] = &clone
	out := clone
	return &out, nil
}

func (r *stubWorkshopRepo) AttendanceStats(_ context.Context, workshopID uint) (int64, int64, error) {
	var present, total int64
	for _, a := range r.attendance {
		if workshopID != 0 && a.WorkshopID != workshopID {
			continue
		}
		total++
		if a.Present {
			present++
		}
	}
	return present, total, nil
}

func (r *stubWorkshopRepo) CreateCertificate(_ context.Context, c *domain.Certificate) (*domain.Certificate, error) {
	for _, existing := range r.certificates {
		if existing.EnrollmentID == c.EnrollmentID {
			return nil, domain.ErrDuplicateCertificate
		}
	}
	r.nextCertID++
	clone := cloneCertificate(c)
	clone.ID = r.nextCertID
	r.certificates[clone.ID] = clone
	return cloneCertificate(clone), nil
}

func (r *stubWorkshopRepo) FindCertificateByCode(_ context.Context, code string) (*domain.Certificate, error) {
	for _, c := range r.certificates {
		if c.Code == code {
			return cloneCertificate(c), nil
		}
	}
	return nil, domain.ErrCertificateNotFound
}

func (r *stubWorkshopRepo) UpdateCertificate(_ context.Context, c *domain.Certificate) error {
	if _, ok := r.certificates[c.ID]; !ok {
		return domain.ErrCertificateNotFound
	}
	r.certificates[c.ID] = cloneCertificate(c)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func timePtr(t time.Time) *time.Time { return &t }

type workshopFixture struct {
	repo          *stubWorkshopRepo
	beneficiaries *stubBeneficiaryRepo
	svc           *WorkshopService
}

func newWorkshopFixture() *workshopFixture {
	repo := newStubWorkshopRepo()
	beneficiaries := newStubBeneficiaryRepo()
	return &workshopFixture{
		repo:          repo,
		beneficiaries: beneficiaries,
		svc:           NewWorkshopService(repo, beneficiaries, discardLogger),
	}
}

func seedWorkshop(t *testing.T, repo *stubWorkshopRepo, overrides func(*domain.Workshop)) *domain.Workshop {
	t.Helper()
	w := &domain.Workshop{
		Name:      "Taller de costura",
		StartDate: date(2025, time.June, 2),
		EndDate:   date(2025, time.June, 27),
		Capacity:  20,
		Status:    domain.StatusScheduled,
	}
	if overrides != nil {
		overrides(w)
	}
	created, err := repo.Create(context.Background(), w)
	if err != nil {
		t.Fatalf("seed workshop: %v", err)
	}
	return created
}

func seedParticipant(t *testing.T, repo *stubBeneficiaryRepo, name string) *domain.Beneficiary {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.Beneficiary{
		Code:       fmt.Sprintf("BEN-TEST%04d", repo.nextID+1),
		FirstNames: name,
		LastNames:  "Prueba",
		IntakeAt:   date(2024, time.May, 6),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return created
}

// ---------------------------------------------------------------------------
// Scheduling and update tests
// ---------------------------------------------------------------------------

func TestWorkshopService_Schedule_Success(t *testing.T) {
	fx := newWorkshopFixture()

	created, err := fx.svc.Schedule(context.Background(), ports.ScheduleWorkshopInput{
		Name:        "  Taller de autoestima ",
		StartDate:   date(2025, time.June, 2),
		EndDate:     date(2025, time.June, 27),
		Capacity:    15,
		Facilitator: "Lucía Marín",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.StatusScheduled {
		t.Errorf("new workshops start scheduled, got %q", created.Status)
	}
	if created.Name != "Taller de autoestima" {
		t.Errorf("name must be trimmed, got %q", created.Name)
	}
}

func TestWorkshopService_Schedule_CollectsValidationErrors(t *testing.T) {
	fx := newWorkshopFixture()

	_, err := fx.svc.Schedule(context.Background(), ports.ScheduleWorkshopInput{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("expected 4 offending fields, got %v", verr.Fields)
	}
}

func TestWorkshopService_Schedule_EndBeforeStart(t *testing.T) {
	fx := newWorkshopFixture()

	_, err := fx.svc.Schedule(context.Background(), ports.ScheduleWorkshopInput{
		Name:      "Taller",
		StartDate: date(2025, time.June, 27),
		EndDate:   date(2025, time.June, 2),
		Capacity:  10,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestWorkshopService_Update_PatchesOnlyGivenFields(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	updated, err := fx.svc.Update(context.Background(), w.ID, ports.UpdateWorkshopInput{
		Location: strPtr("Aula 2"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Location != "Aula 2" {
		t.Errorf("location not patched, got %q", updated.Location)
	}
	if updated.Name != w.Name || updated.Capacity != w.Capacity {
		t.Error("unrelated fields must not change")
	}
}

func TestWorkshopService_Update_TerminalIsReadOnly(t *testing.T) {
	fx := newWorkshopFixture()

	for _, status := range []domain.WorkshopStatus{domain.StatusCompleted, domain.StatusCancelled} {
		w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = status })
		_, err := fx.svc.Update(context.Background(), w.ID, ports.UpdateWorkshopInput{
			Notes: strPtr("ajuste"),
		})
		if !errors.Is(err, domain.ErrWorkshopClosed) {
			t.Errorf("status %s: expected ErrWorkshopClosed, got %v", status, err)
		}
	}
}

func TestWorkshopService_Update_CapacityBelowEnrollment(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)
	for i := 0; i < 3; i++ {
		b := seedParticipant(t, fx.beneficiaries, fmt.Sprintf("Ana%d", i))
		if _, err := fx.svc.Enroll(context.Background(), w.ID, b.ID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	_, err := fx.svc.Update(context.Background(), w.ID, ports.UpdateWorkshopInput{
		Capacity: intPtr(2),
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Dropping to exactly the active enrollment is fine.
	updated, err := fx.svc.Update(context.Background(), w.ID, ports.UpdateWorkshopInput{
		Capacity: intPtr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Capacity != 3 {
		t.Errorf("capacity: want 3, got %d", updated.Capacity)
	}
}

func TestWorkshopService_Update_EndDatePatchValidated(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	_, err := fx.svc.Update(context.Background(), w.ID, ports.UpdateWorkshopInput{
		EndDate: timePtr(w.StartDate.AddDate(0, 0, -1)),
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Status machine tests
// ---------------------------------------------------------------------------

func TestWorkshopService_Transition_Matrix(t *testing.T) {
	cases := []struct {
		from    domain.WorkshopStatus
		to      domain.WorkshopStatus
		allowed bool
	}{
		{domain.StatusScheduled, domain.StatusInProgress, true},
		{domain.StatusScheduled, domain.StatusCancelled, true},
		{domain.StatusScheduled, domain.StatusCompleted, false},
		{domain.StatusInProgress, domain.StatusCompleted, true},
		{domain.StatusInProgress, domain.StatusCancelled, true},
		{domain.StatusInProgress, domain.StatusScheduled, false},
		{domain.StatusCompleted, domain.StatusInProgress, false},
		{domain.StatusCompleted, domain.StatusCancelled, false},
		{domain.StatusCancelled, domain.StatusScheduled, false},
		{domain.StatusCancelled, domain.StatusInProgress, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			fx := newWorkshopFixture()
			w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = tc.from })

			updated, err := fx.svc.Transition(context.Background(), w.ID, string(tc.to))
			if tc.allowed {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if updated.Status != tc.to {
					t.Errorf("status: want %s, got %s", tc.to, updated.Status)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestWorkshopService_Transition_UnknownStatus(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	_, err := fx.svc.Transition(context.Background(), w.ID, "paused")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestWorkshopService_RefreshStatuses(t *testing.T) {
	fx := newWorkshopFixture()
	today := date(2025, time.June, 10)

	starting := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.StartDate = date(2025, time.June, 10)
		w.EndDate = date(2025, time.June, 20)
	})
	future := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.StartDate = date(2025, time.June, 11)
		w.EndDate = date(2025, time.June, 20)
	})
	ending := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.Status = domain.StatusInProgress
		w.StartDate = date(2025, time.June, 1)
		w.EndDate = date(2025, time.June, 9)
	})
	endingToday := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.Status = domain.StatusInProgress
		w.StartDate = date(2025, time.June, 1)
		w.EndDate = date(2025, time.June, 10)
	})
	past := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.StartDate = date(2025, time.June, 1)
		w.EndDate = date(2025, time.June, 5)
	})
	cancelled := seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.Status = domain.StatusCancelled
		w.StartDate = date(2025, time.June, 1)
		w.EndDate = date(2025, time.June, 5)
	})

	updated, err := fx.svc.RefreshStatuses(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 3 {
		t.Errorf("updated count: want 3, got %d", updated)
	}

	wantStatus := func(id uint, want domain.WorkshopStatus) {
		t.Helper()
		if got := fx.repo.workshops[id].Status; got != want {
			t.Errorf("workshop %d: want %s, got %s", id, want, got)
		}
	}
	wantStatus(starting.ID, domain.StatusInProgress)
	wantStatus(future.ID, domain.StatusScheduled)
	wantStatus(ending.ID, domain.StatusCompleted)
	// A workshop runs through its last day; it completes the day after.
	wantStatus(endingToday.ID, domain.StatusInProgress)
	// Both steps apply in one pass when start and end have gone by.
	wantStatus(past.ID, domain.StatusCompleted)
	wantStatus(cancelled.ID, domain.StatusCancelled)
}

func TestWorkshopService_RefreshStatuses_Idempotent(t *testing.T) {
	fx := newWorkshopFixture()
	today := date(2025, time.June, 10)
	seedWorkshop(t, fx.repo, func(w *domain.Workshop) {
		w.StartDate = date(2025, time.June, 1)
		w.EndDate = date(2025, time.June, 20)
	})

	if _, err := fx.svc.RefreshStatuses(context.Background(), today); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	updated, err := fx.svc.RefreshStatuses(context.Background(), today)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if updated != 0 {
		t.Errorf("second pass must be a no-op, updated %d", updated)
	}
}

// ---------------------------------------------------------------------------
// Enrollment tests
// ---------------------------------------------------------------------------

func TestWorkshopService_Enroll_Success(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	enrollment, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !enrollment.Active {
		t.Error("enrollment must be active")
	}
	if enrollment.EnrolledAt.IsZero() {
		t.Error("EnrolledAt must be set")
	}
}

func TestWorkshopService_Enroll_ClosedWorkshop(t *testing.T) {
	fx := newWorkshopFixture()
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	for _, status := range []domain.WorkshopStatus{domain.StatusCompleted, domain.StatusCancelled} {
		w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = status })
		_, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
		if !errors.Is(err, domain.ErrWorkshopClosed) {
			t.Errorf("status %s: expected ErrWorkshopClosed, got %v", status, err)
		}
	}
}

func TestWorkshopService_Enroll_WhileInProgress(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = domain.StatusInProgress })
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	if _, err := fx.svc.Enroll(context.Background(), w.ID, b.ID); err != nil {
		t.Errorf("in-progress workshops accept enrollments, got %v", err)
	}
}

func TestWorkshopService_Enroll_UnknownWorkshop(t *testing.T) {
	fx := newWorkshopFixture()
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	_, err := fx.svc.Enroll(context.Background(), 99, b.ID)
	if !errors.Is(err, domain.ErrWorkshopNotFound) {
		t.Errorf("expected ErrWorkshopNotFound, got %v", err)
	}
}

func TestWorkshopService_Enroll_UnknownBeneficiary(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	_, err := fx.svc.Enroll(context.Background(), w.ID, 99)
	if !errors.Is(err, domain.ErrBeneficiaryNotFound) {
		t.Errorf("expected ErrBeneficiaryNotFound, got %v", err)
	}
}

func TestWorkshopService_Enroll_Duplicate(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	if _, err := fx.svc.Enroll(context.Background(), w.ID, b.ID); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	_, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
	if !errors.Is(err, domain.ErrDuplicateEnrollment) {
		t.Errorf("expected ErrDuplicateEnrollment, got %v", err)
	}
}

func TestWorkshopService_Enroll_CapacityReached(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Capacity = 2 })

	for i := 0; i < 2; i++ {
		b := seedParticipant(t, fx.beneficiaries, fmt.Sprintf("Ana%d", i))
		if _, err := fx.svc.Enroll(context.Background(), w.ID, b.ID); err != nil {
			t.Fatalf("enroll %d: %v", i, err)
		}
	}

	third := seedParticipant(t, fx.beneficiaries, "Clara")
	_, err := fx.svc.Enroll(context.Background(), w.ID, third.ID)
	var capErr *domain.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.WorkshopID != w.ID || capErr.Capacity != 2 {
		t.Errorf("capacity error detail wrong: %+v", capErr)
	}
}

func TestWorkshopService_Withdraw_FreesSeat(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Capacity = 1 })
	first := seedParticipant(t, fx.beneficiaries, "Ana")
	second := seedParticipant(t, fx.beneficiaries, "Clara")

	if _, err := fx.svc.Enroll(context.Background(), w.ID, first.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := fx.svc.Enroll(context.Background(), w.ID, second.ID); err == nil {
		t.Fatal("workshop is full, second enrollment must fail")
	}

	if err := fx.svc.Withdraw(context.Background(), w.ID, first.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := fx.svc.Enroll(context.Background(), w.ID, second.ID); err != nil {
		t.Errorf("withdrawing must free the seat, got %v", err)
	}
}

func TestWorkshopService_Enroll_ReactivatesWithdrawn(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)
	b := seedParticipant(t, fx.beneficiaries, "Ana")

	original, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := fx.svc.Withdraw(context.Background(), w.ID, b.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	again, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
	if err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if again.ID != original.ID {
		t.Errorf("re-enrollment must reuse the row, got id %d want %d", again.ID, original.ID)
	}
	if !again.Active {
		t.Error("re-enrollment must be active")
	}
}

func TestWorkshopService_Withdraw_NotEnrolled(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	err := fx.svc.Withdraw(context.Background(), w.ID, 42)
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Attendance tests
// ---------------------------------------------------------------------------

func attendanceFixture(t *testing.T, status domain.WorkshopStatus) (*workshopFixture, *domain.Workshop, *domain.Enrollment) {
	t.Helper()
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)
	b := seedParticipant(t, fx.beneficiaries, "Ana")
	enrollment, err := fx.svc.Enroll(context.Background(), w.ID, b.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	stored := fx.repo.workshops[w.ID]
	stored.Status = status
	return fx, stored, enrollment
}

func TestWorkshopService_RecordAttendance_RequiresStartedWorkshop(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusScheduled)

	_, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		SessionDate:  date(2025, time.June, 3),
		Present:      true,
	})
	if !errors.Is(err, domain.ErrWorkshopClosed) {
		t.Errorf("expected ErrWorkshopClosed, got %v", err)
	}
}

func TestWorkshopService_RecordAttendance_UpsertsOnSessionDate(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusInProgress)
	session := time.Date(2025, time.June, 3, 17, 45, 0, 0, time.UTC)

	first, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		SessionDate:  session,
		Present:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.SessionDate.Equal(date(2025, time.June, 3)) {
		t.Errorf("session date must be normalized to midnight UTC, got %v", first.SessionDate)
	}

	second, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		SessionDate:  date(2025, time.June, 3),
		Present:      false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Present {
		t.Error("second record must overwrite the first")
	}
	if len(fx.repo.attendance) != 1 {
		t.Errorf("expected a single attendance row, got %d", len(fx.repo.attendance))
	}
}

func TestWorkshopService_RecordAttendance_CompletedStillEditable(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusCompleted)

	_, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		SessionDate:  date(2025, time.June, 3),
		Present:      true,
	})
	if err != nil {
		t.Errorf("completed workshops still take attendance corrections, got %v", err)
	}
}

func TestWorkshopService_RecordAttendance_EnrollmentMismatch(t *testing.T) {
	fx, w, _ := attendanceFixture(t, domain.StatusInProgress)
	other := seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = domain.StatusInProgress })
	b := seedParticipant(t, fx.beneficiaries, "Clara")
	otherEnrollment, err := fx.svc.Enroll(context.Background(), other.ID, b.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}

	_, err = fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: otherEnrollment.ID,
		SessionDate:  date(2025, time.June, 3),
		Present:      true,
	})
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestWorkshopService_RecordAttendance_WithdrawnEnrollment(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusInProgress)
	fx.repo.enrollments[enrollment.ID].Active = false

	_, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		SessionDate:  date(2025, time.June, 3),
		Present:      true,
	})
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestWorkshopService_RecordAttendance_MissingSessionDate(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusInProgress)

	_, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
		EnrollmentID: enrollment.ID,
		Present:      true,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestWorkshopService_AttendanceRate(t *testing.T) {
	fx, w, enrollment := attendanceFixture(t, domain.StatusInProgress)

	sessions := []struct {
		day     int
		present bool
	}{
		{2, true},
		{3, true},
		{4, false},
		{5, false},
	}
	for _, s := range sessions {
		if _, err := fx.svc.RecordAttendance(context.Background(), w.ID, ports.AttendanceInput{
			EnrollmentID: enrollment.ID,
			SessionDate:  date(2025, time.June, s.day),
			Present:      s.present,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	rate, err := fx.svc.AttendanceRate(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Present != 2 || rate.Total != 4 {
		t.Errorf("counts: want 2/4, got %d/%d", rate.Present, rate.Total)
	}
	if rate.Rate != 0.5 {
		t.Errorf("rate: want 0.5, got %f", rate.Rate)
	}
}

func TestWorkshopService_AttendanceRate_NoSessions(t *testing.T) {
	fx := newWorkshopFixture()
	w := seedWorkshop(t, fx.repo, nil)

	rate, err := fx.svc.AttendanceRate(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate.Rate != 0 {
		t.Errorf("rate with no sessions must be 0, got %f", rate.Rate)
	}
}

// ---------------------------------------------------------------------------
// Certificate tests
// ---------------------------------------------------------------------------

func TestWorkshopService_IssueCertificate_Success(t *testing.T) {
	fx, _, enrollment := attendanceFixture(t, domain.StatusCompleted)

	cert, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(cert.Code, "APRO-") {
		t.Errorf("certificate code format wrong: %s", cert.Code)
	}
	if cert.Revoked {
		t.Error("new certificates are not revoked")
	}
	if cert.IssuedAt.IsZero() {
		t.Error("IssuedAt must be set")
	}
}

func TestWorkshopService_IssueCertificate_RequiresCompletedWorkshop(t *testing.T) {
	for _, status := range []domain.WorkshopStatus{domain.StatusScheduled, domain.StatusInProgress, domain.StatusCancelled} {
		fx, _, enrollment := attendanceFixture(t, status)
		_, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID)
		if !errors.Is(err, domain.ErrWorkshopNotCompleted) {
			t.Errorf("status %s: expected ErrWorkshopNotCompleted, got %v", status, err)
		}
	}
}

func TestWorkshopService_IssueCertificate_OncePerEnrollment(t *testing.T) {
	fx, _, enrollment := attendanceFixture(t, domain.StatusCompleted)

	if _, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	_, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID)
	if !errors.Is(err, domain.ErrDuplicateCertificate) {
		t.Errorf("expected ErrDuplicateCertificate, got %v", err)
	}
}

func TestWorkshopService_IssueCertificate_WithdrawnEnrollment(t *testing.T) {
	fx, _, enrollment := attendanceFixture(t, domain.StatusCompleted)
	fx.repo.enrollments[enrollment.ID].Active = false

	_, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID)
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestWorkshopService_RevokeCertificate(t *testing.T) {
	fx, _, enrollment := attendanceFixture(t, domain.StatusCompleted)
	cert, err := fx.svc.IssueCertificate(context.Background(), enrollment.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	revoked, err := fx.svc.RevokeCertificate(context.Background(), cert.Code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked.Revoked {
		t.Error("certificate must be revoked")
	}

	// Revoking again is a no-op, not an error.
	again, err := fx.svc.RevokeCertificate(context.Background(), cert.Code)
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if !again.Revoked {
		t.Error("certificate must stay revoked")
	}
}

func TestWorkshopService_RevokeCertificate_UnknownCode(t *testing.T) {
	fx := newWorkshopFixture()

	_, err := fx.svc.RevokeCertificate(context.Background(), "APRO-FFFFFFFF")
	if !errors.Is(err, domain.ErrCertificateNotFound) {
		t.Errorf("expected ErrCertificateNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listing tests
// ---------------------------------------------------------------------------

func TestWorkshopService_List_StatusFilter(t *testing.T) {
	fx := newWorkshopFixture()
	seedWorkshop(t, fx.repo, nil)
	seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = domain.StatusCompleted })
	seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Status = domain.StatusCompleted })

	res, err := fx.svc.List(context.Background(), ports.ListWorkshopsFilter{
		Status: string(domain.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("total: want 2, got %d", res.Total)
	}
}

func TestWorkshopService_List_UnknownStatus(t *testing.T) {
	fx := newWorkshopFixture()

	_, err := fx.svc.List(context.Background(), ports.ListWorkshopsFilter{Status: "paused"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestWorkshopService_List_SearchByFacilitator(t *testing.T) {
	fx := newWorkshopFixture()
	seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Facilitator = "Lucía Marín" })
	seedWorkshop(t, fx.repo, func(w *domain.Workshop) { w.Facilitator = "Rosa Vidal" })

	res, err := fx.svc.List(context.Background(), ports.ListWorkshopsFilter{Search: "marín"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("total: want 1, got %d", res.Total)
	}
}
