package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/model"
	"github.com/iliyamo/facility-booking/internal/queue"
	"github.com/iliyamo/facility-booking/internal/repository"
)

// stubBookingStore keeps bookings in a slice and mirrors the repository's
// conditional-update and query semantics so lifecycle tests run without
// a database.
type stubBookingStore struct {
	bookings []model.Booking
	nextID   uint64
	today    time.Time
}

func newStubBookingStore() *stubBookingStore {
	return &stubBookingStore{nextID: 1, today: testToday}
}

func (s *stubBookingStore) find(id uint64) *model.Booking {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return &s.bookings[i]
		}
	}
	return nil
}

func (s *stubBookingStore) Create(ctx context.Context, b *model.Booking) error {
	b.ID = s.nextID
	s.nextID++
	b.Status = booking.StatusPending
	b.CreatedAt = time.Now()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *stubBookingStore) CreateNoOverlap(ctx context.Context, b *model.Booking) error {
	for _, ex := range s.bookings {
		if ex.FacilityID != b.FacilityID || !ex.Date.Equal(b.Date) {
			continue
		}
		if ex.Status != booking.StatusPending && ex.Status != booking.StatusApproved {
			continue
		}
		if ex.Start < b.End && ex.End > b.Start {
			return repository.ErrOverlap
		}
	}
	return s.Create(ctx, b)
}

func (s *stubBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	if b := s.find(id); b != nil {
		return *b, nil
	}
	return model.Booking{}, repository.ErrBookingNotFound
}

func (s *stubBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range s.bookings {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit > len(s.bookings) {
		limit = len(s.bookings)
	}
	return append([]model.Booking{}, s.bookings[len(s.bookings)-limit:]...), nil
}

func (s *stubBookingStore) UpcomingByUser(ctx context.Context, userID uint64, limit int) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.UserID != userID || b.Date.Before(s.today) {
			continue
		}
		if b.Status != booking.StatusPending && b.Status != booking.StatusApproved {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubBookingStore) UpdateStatusFromPending(ctx context.Context, id uint64, status string) error {
	b := s.find(id)
	if b == nil {
		return repository.ErrBookingNotFound
	}
	if b.Status != booking.StatusPending {
		return repository.ErrConflict
	}
	b.Status = status
	return nil
}

func (s *stubBookingStore) CancelOwned(ctx context.Context, id, userID uint64) error {
	b := s.find(id)
	if b == nil {
		return repository.ErrBookingNotFound
	}
	if b.UserID != userID {
		return repository.ErrForbidden
	}
	if b.Status != booking.StatusPending {
		return repository.ErrConflict
	}
	b.Status = booking.StatusCancelled
	return nil
}

func (s *stubBookingStore) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	var st model.GlobalStats
	for _, b := range s.bookings {
		st.Total++
		switch b.Status {
		case booking.StatusPending:
			st.Pending++
		case booking.StatusApproved:
			st.Approved++
		case booking.StatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}

func (s *stubBookingStore) UserStats(ctx context.Context, userID uint64) (model.UserStats, error) {
	var st model.UserStats
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		st.Total++
		switch b.Status {
		case booking.StatusPending:
			st.Pending++
		case booking.StatusApproved:
			st.Approved++
		}
	}
	return st, nil
}

type stubFacilities struct {
	facilities map[uint64]model.Facility
}

func (s *stubFacilities) GetByID(ctx context.Context, id uint64) (model.Facility, error) {
	f, ok := s.facilities[id]
	if !ok {
		return model.Facility{}, repository.ErrFacilityNotFound
	}
	return f, nil
}

func (s *stubFacilities) ActiveCount(ctx context.Context) (int, error) {
	n := 0
	for _, f := range s.facilities {
		if f.Status == model.FacilityActive {
			n++
		}
	}
	return n, nil
}

var testToday = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

func newTestService(store *stubBookingStore, publish Publisher) *BookingService {
	facs := &stubFacilities{facilities: map[uint64]model.Facility{
		1: {ID: 1, Name: "Conference Room A", Capacity: 12, Status: model.FacilityActive},
		2: {ID: 2, Name: "Old Gym", Capacity: 80, Status: model.FacilityInactive},
	}}
	svc := NewBookingService(booking.DefaultRules(), store, facs, publish)
	svc.now = func() time.Time { return testToday.Add(9 * time.Hour) }
	return svc
}

func clock(t *testing.T, s string) booking.ClockTime {
	t.Helper()
	ct, err := booking.ParseClock(s)
	if err != nil {
		t.Fatalf("ParseClock(%q): %v", s, err)
	}
	return ct
}

func validRequest(t *testing.T) booking.CreateRequest {
	return booking.CreateRequest{
		FacilityID: 1,
		Date:       testToday.AddDate(0, 0, 1),
		Start:      clock(t, "09:00"),
		End:        clock(t, "10:30"),
		Purpose:    "sprint planning",
	}
}

func TestCreateBooking(t *testing.T) {
	store := newStubBookingStore()
	var events []queue.BookingEvent
	svc := newTestService(store, func(ctx context.Context, ev queue.BookingEvent) error {
		events = append(events, ev)
		return nil
	})

	b, err := svc.Create(context.Background(), 7, validRequest(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == 0 {
		t.Error("created booking has no ID")
	}
	if b.Status != booking.StatusPending {
		t.Errorf("status = %q, want pending", b.Status)
	}
	if b.FacilityName != "Conference Room A" {
		t.Errorf("facility name = %q", b.FacilityName)
	}
	if len(events) != 1 {
		t.Fatalf("want 1 lifecycle event, got %d", len(events))
	}
	if events[0].Status != booking.StatusPending || events[0].StartTime != "09:00" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestCreateValidationFailureWritesNothing(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)

	req := validRequest(t)
	req.Date = testToday.AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), 7, req)
	var fe booking.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("want FieldErrors, got %v", err)
	}
	if _, ok := fe["booking_date"]; !ok {
		t.Errorf("want booking_date error, got %v", fe)
	}
	if len(store.bookings) != 0 {
		t.Errorf("validation failure must not write, found %d rows", len(store.bookings))
	}
}

func TestCreateUnknownFacility(t *testing.T) {
	svc := newTestService(newStubBookingStore(), nil)
	req := validRequest(t)
	req.FacilityID = 99
	_, err := svc.Create(context.Background(), 7, req)
	if !errors.Is(err, repository.ErrFacilityNotFound) {
		t.Errorf("want ErrFacilityNotFound, got %v", err)
	}
}

func TestCreateInactiveFacility(t *testing.T) {
	svc := newTestService(newStubBookingStore(), nil)
	req := validRequest(t)
	req.FacilityID = 2
	_, err := svc.Create(context.Background(), 7, req)
	var fe booking.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("want FieldErrors, got %v", err)
	}
	if fe["facility_id"] != "facility is not active" {
		t.Errorf("got %v", fe)
	}
}

func TestCreateOverlapRefused(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)

	if _, err := svc.Create(context.Background(), 7, validRequest(t)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	req := validRequest(t)
	req.Start = clock(t, "10:00")
	req.End = clock(t, "11:00")
	_, err := svc.Create(context.Background(), 8, req)
	if !errors.Is(err, repository.ErrOverlap) {
		t.Fatalf("want ErrOverlap, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Errorf("overlapping create must not write, found %d rows", len(store.bookings))
	}

	// Back-to-back windows share only the boundary instant and are fine.
	req.Start = clock(t, "10:30")
	req.End = clock(t, "11:30")
	if _, err := svc.Create(context.Background(), 8, req); err != nil {
		t.Errorf("adjacent create: %v", err)
	}
}

func TestCreateOverlapCheckDisabled(t *testing.T) {
	store := newStubBookingStore()
	facs := &stubFacilities{facilities: map[uint64]model.Facility{
		1: {ID: 1, Name: "Conference Room A", Capacity: 12, Status: model.FacilityActive},
	}}
	rules := booking.DefaultRules()
	rules.OverlapCheck = false
	svc := NewBookingService(rules, store, facs, nil)
	svc.now = func() time.Time { return testToday.Add(9 * time.Hour) }

	if _, err := svc.Create(context.Background(), 7, validRequest(t)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 8, validRequest(t)); err != nil {
		t.Fatalf("second create with check off: %v", err)
	}
	if len(store.bookings) != 2 {
		t.Errorf("want 2 rows, got %d", len(store.bookings))
	}
}

func TestApproveThenOwnerCancelRefused(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)

	b, err := svc.Create(context.Background(), 7, validRequest(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Transition(context.Background(), b.ID, booking.StatusApproved, 1, booking.RoleAdmin); err != nil {
		t.Fatalf("approve: %v", err)
	}

	err = svc.Transition(context.Background(), b.ID, booking.StatusCancelled, 7, booking.RoleStaff)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("cancel after approve: want ErrConflict, got %v", err)
	}

	got, _ := store.GetByID(context.Background(), b.ID)
	if got.Status != booking.StatusApproved {
		t.Errorf("status = %q, want approved to survive the stale cancel", got.Status)
	}
}

func TestTransitionRequiresAdmin(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)
	b, _ := svc.Create(context.Background(), 7, validRequest(t))

	for _, target := range []string{booking.StatusApproved, booking.StatusRejected} {
		err := svc.Transition(context.Background(), b.ID, target, 7, booking.RoleStaff)
		if !errors.Is(err, repository.ErrForbidden) {
			t.Errorf("staff %s: want ErrForbidden, got %v", target, err)
		}
	}
	got, _ := store.GetByID(context.Background(), b.ID)
	if got.Status != booking.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestCancelByNonOwner(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)
	b, _ := svc.Create(context.Background(), 7, validRequest(t))

	err := svc.Transition(context.Background(), b.ID, booking.StatusCancelled, 8, booking.RoleStaff)
	if !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("want ErrForbidden, got %v", err)
	}
}

func TestTransitionUnknownTarget(t *testing.T) {
	svc := newTestService(newStubBookingStore(), nil)
	err := svc.Transition(context.Background(), 1, "archived", 1, booking.RoleAdmin)
	var fe booking.FieldErrors
	if !errors.As(err, &fe) {
		t.Errorf("want FieldErrors, got %v", err)
	}
}

func TestTransitionMissingBooking(t *testing.T) {
	svc := newTestService(newStubBookingStore(), nil)
	err := svc.Transition(context.Background(), 42, booking.StatusApproved, 1, booking.RoleAdmin)
	if !errors.Is(err, repository.ErrBookingNotFound) {
		t.Errorf("want ErrBookingNotFound, got %v", err)
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	store := newStubBookingStore()
	var events []queue.BookingEvent
	svc := newTestService(store, func(ctx context.Context, ev queue.BookingEvent) error {
		events = append(events, ev)
		return nil
	})

	b, _ := svc.Create(context.Background(), 7, validRequest(t))
	if err := svc.Transition(context.Background(), b.ID, booking.StatusApproved, 1, booking.RoleAdmin); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want create + approve events, got %d", len(events))
	}
	if events[1].Status != booking.StatusApproved || events[1].BookingID != b.ID {
		t.Errorf("unexpected event: %+v", events[1])
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, func(ctx context.Context, ev queue.BookingEvent) error {
		return errors.New("broker down")
	})
	if _, err := svc.Create(context.Background(), 7, validRequest(t)); err != nil {
		t.Errorf("create should survive publish failure, got %v", err)
	}
}

func TestStatsReconcile(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)

	mk := func(user uint64, day int, start, end string) model.Booking {
		req := booking.CreateRequest{
			FacilityID: 1,
			Date:       testToday.AddDate(0, 0, day),
			Start:      clock(t, start),
			End:        clock(t, end),
		}
		b, err := svc.Create(context.Background(), user, req)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return b
	}

	b1 := mk(7, 1, "09:00", "10:00")
	b2 := mk(7, 2, "09:00", "10:00")
	b3 := mk(8, 3, "09:00", "10:00")
	mk(8, 4, "09:00", "10:00")

	if err := svc.Transition(context.Background(), b1.ID, booking.StatusApproved, 1, booking.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if err := svc.Transition(context.Background(), b2.ID, booking.StatusRejected, 1, booking.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if err := svc.Transition(context.Background(), b3.ID, booking.StatusCancelled, 8, booking.RoleStaff); err != nil {
		t.Fatal(err)
	}

	global, facilities, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("AdminStats: %v", err)
	}
	want := model.GlobalStats{Total: 4, Pending: 1, Approved: 1, Rejected: 1}
	if global != want {
		t.Errorf("global = %+v, want %+v", global, want)
	}
	if facilities != 1 {
		t.Errorf("active facilities = %d, want 1", facilities)
	}

	mine, err := svc.StatsFor(context.Background(), 7)
	if err != nil {
		t.Fatalf("StatsFor: %v", err)
	}
	if (mine != model.UserStats{Total: 2, Pending: 0, Approved: 1}) {
		t.Errorf("user stats = %+v", mine)
	}
}

func TestAllBookingsRejectsUnknownFilter(t *testing.T) {
	svc := newTestService(newStubBookingStore(), nil)
	_, err := svc.AllBookings(context.Background(), "archived")
	var fe booking.FieldErrors
	if !errors.As(err, &fe) {
		t.Errorf("want FieldErrors, got %v", err)
	}
	if _, err := svc.AllBookings(context.Background(), ""); err != nil {
		t.Errorf("empty filter: %v", err)
	}
}

func TestUpcomingFiltersAndOrders(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)

	seed := func(day int, start string, status string) uint64 {
		id := store.nextID
		store.nextID++
		store.bookings = append(store.bookings, model.Booking{
			ID:         id,
			UserID:     7,
			FacilityID: 1,
			Date:       testToday.AddDate(0, 0, day),
			Start:      clock(t, start),
			End:        clock(t, start) + 60,
			Status:     status,
		})
		return id
	}

	// Inserted out of order on purpose.
	late := seed(3, "11:00", booking.StatusApproved)
	seed(-1, "09:00", booking.StatusPending)  // past, excluded
	seed(2, "10:00", booking.StatusCancelled) // terminal, excluded
	afternoon := seed(1, "14:00", booking.StatusPending)
	morning := seed(1, "09:00", booking.StatusApproved)

	got, err := svc.Upcoming(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	want := []uint64{morning, afternoon, late}
	if len(got) != len(want) {
		t.Fatalf("got %d bookings, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got booking %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestUpcomingLimitClamped(t *testing.T) {
	store := newStubBookingStore()
	svc := newTestService(store, nil)
	for day := 1; day <= 8; day++ {
		req := booking.CreateRequest{
			FacilityID: 1,
			Date:       testToday.AddDate(0, 0, day),
			Start:      clock(t, "09:00"),
			End:        clock(t, "10:00"),
		}
		if _, err := svc.Create(context.Background(), 7, req); err != nil {
			t.Fatalf("create day %d: %v", day, err)
		}
	}
	got, err := svc.Upcoming(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("default limit: got %d bookings, want 5", len(got))
	}
	got, _ = svc.Upcoming(context.Background(), 7, 3)
	if len(got) != 3 {
		t.Errorf("explicit limit: got %d bookings, want 3", len(got))
	}
}
