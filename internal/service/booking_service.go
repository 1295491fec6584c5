// Package service implements the business layer between the HTTP
// handlers and the repositories: the booking lifecycle engine, the
// facility rules and the broker publisher. Services depend on small
// store interfaces so the lifecycle logic is testable against
// in-memory stubs.
package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/model"
	"github.com/iliyamo/facility-booking/internal/queue"
	"github.com/iliyamo/facility-booking/internal/repository"
)

// BookingStore is the persistence surface the lifecycle engine needs.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	CreateNoOverlap(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context, status string) ([]model.Booking, error)
	Recent(ctx context.Context, limit int) ([]model.Booking, error)
	UpcomingByUser(ctx context.Context, userID uint64, limit int) ([]model.Booking, error)
	UpdateStatusFromPending(ctx context.Context, id uint64, status string) error
	CancelOwned(ctx context.Context, id, userID uint64) error
	GlobalStats(ctx context.Context) (model.GlobalStats, error)
	UserStats(ctx context.Context, userID uint64) (model.UserStats, error)
}

// FacilityReader is the read-only facility access the engine needs to
// vet creation requests. *repository.FacilityRepo satisfies it.
type FacilityReader interface {
	GetByID(ctx context.Context, id uint64) (model.Facility, error)
	ActiveCount(ctx context.Context) (int, error)
}

// Publisher sends a lifecycle event to the broker. May be nil when no
// broker is configured; failures are logged and never fail the
// operation.
type Publisher func(ctx context.Context, ev queue.BookingEvent) error

// BookingService is the lifecycle engine: it validates creation
// requests against the configured rules, inserts bookings as pending
// and governs every status transition.
type BookingService struct {
	rules      booking.Rules
	store      BookingStore
	facilities FacilityReader
	publish    Publisher
	now        func() time.Time
}

// NewBookingService builds the engine. rules is immutable for the
// lifetime of the service; publish may be nil.
func NewBookingService(rules booking.Rules, store BookingStore, facilities FacilityReader, publish Publisher) *BookingService {
	return &BookingService{
		rules:      rules,
		store:      store,
		facilities: facilities,
		publish:    publish,
		now:        time.Now,
	}
}

// Create validates the request and inserts a new pending booking for
// userID. All rule checks run before anything is written: on a
// violation a booking.FieldErrors is returned and no row exists.
// When overlap checking is enabled the insert is the transactional
// variant and a colliding window yields repository.ErrOverlap.
func (s *BookingService) Create(ctx context.Context, userID uint64, req booking.CreateRequest) (model.Booking, error) {
	today := booking.Today(s.now())
	if fe := s.rules.ValidateCreate(req, today); fe != nil {
		return model.Booking{}, fe
	}

	fac, err := s.facilities.GetByID(ctx, req.FacilityID)
	if err != nil {
		return model.Booking{}, err // repository.ErrFacilityNotFound or a query failure
	}
	if fac.Status != model.FacilityActive {
		return model.Booking{}, booking.FieldErrors{"facility_id": "facility is not active"}
	}

	b := model.Booking{
		UserID:       userID,
		FacilityID:   req.FacilityID,
		Date:         req.Date,
		Start:        req.Start,
		End:          req.End,
		FacilityName: fac.Name,
	}
	if req.Purpose != "" {
		p := req.Purpose
		b.Purpose = &p
	}

	if s.rules.OverlapCheck {
		err = s.store.CreateNoOverlap(ctx, &b)
	} else {
		err = s.store.Create(ctx, &b)
	}
	if err != nil {
		return model.Booking{}, err
	}

	s.emit(ctx, b)
	return b, nil
}

// Transition moves a booking out of pending. Approve and reject
// require the admin role and are refused with repository.ErrConflict
// when the booking already left pending; cancel requires the actor to
// own the booking and is likewise pending-only. Any other target
// status is rejected as a validation error.
func (s *BookingService) Transition(ctx context.Context, id uint64, target string, actorID uint64, actorRole string) error {
	if !booking.CanTransition(booking.StatusPending, target) {
		return booking.FieldErrors{"status": "unknown target status"}
	}
	var err error
	switch target {
	case booking.StatusApproved, booking.StatusRejected:
		if actorRole != booking.RoleAdmin {
			return repository.ErrForbidden
		}
		err = s.store.UpdateStatusFromPending(ctx, id, target)
	case booking.StatusCancelled:
		err = s.store.CancelOwned(ctx, id, actorID)
	}
	if err != nil {
		return err
	}
	if b, getErr := s.store.GetByID(ctx, id); getErr == nil {
		s.emit(ctx, b)
	}
	return nil
}

// MyBookings returns the caller's bookings, newest first.
func (s *BookingService) MyBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// Upcoming returns the caller's future pending/approved bookings
// ordered by date then start time. limit <= 0 falls back to the
// configured default.
func (s *BookingService) Upcoming(ctx context.Context, userID uint64, limit int) ([]model.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = s.rules.UpcomingLimit
	}
	return s.store.UpcomingByUser(ctx, userID, limit)
}

// AllBookings returns every booking, optionally filtered by status.
func (s *BookingService) AllBookings(ctx context.Context, status string) ([]model.Booking, error) {
	if status != "" && !booking.ValidStatus(status) {
		return nil, booking.FieldErrors{"status": "unknown status filter"}
	}
	return s.store.ListAll(ctx, status)
}

// Recent returns the newest bookings for the admin dashboard.
func (s *BookingService) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = s.rules.RecentLimit
	}
	return s.store.Recent(ctx, limit)
}

// AdminStats returns the global aggregate plus the active facility
// count, computed at call time.
func (s *BookingService) AdminStats(ctx context.Context) (model.GlobalStats, int, error) {
	stats, err := s.store.GlobalStats(ctx)
	if err != nil {
		return model.GlobalStats{}, 0, err
	}
	facilities, err := s.facilities.ActiveCount(ctx)
	if err != nil {
		return model.GlobalStats{}, 0, err
	}
	return stats, facilities, nil
}

// StatsFor returns the per-user aggregate.
func (s *BookingService) StatsFor(ctx context.Context, userID uint64) (model.UserStats, error) {
	return s.store.UserStats(ctx, userID)
}

func (s *BookingService) emit(ctx context.Context, b model.Booking) {
	if s.publish == nil {
		return
	}
	ev := queue.BookingEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		FacilityID:   b.FacilityID,
		FacilityName: b.FacilityName,
		BookingDate:  b.Date.Format("2006-01-02"),
		StartTime:    b.Start.String(),
		EndTime:      b.End.String(),
		Status:       b.Status,
		OccurredAt:   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("booking service: publish event booking_id=%d: %v", b.ID, err)
	}
}
