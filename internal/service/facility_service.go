package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/model"
	"github.com/iliyamo/facility-booking/internal/repository"
)

// FacilityStore is the persistence surface the facility service needs.
// *repository.FacilityRepo satisfies it.
type FacilityStore interface {
	Create(ctx context.Context, f *model.Facility) error
	GetByID(ctx context.Context, id uint64) (model.Facility, error)
	List(ctx context.Context, includeInactive bool) ([]model.Facility, error)
	Update(ctx context.Context, f *model.Facility) error
	Delete(ctx context.Context, id uint64) error
	HasActiveBookings(ctx context.Context, id uint64) (bool, error)
}

// FacilityInput carries the writable facility fields. Image is nil
// when no new upload accompanies the request; updates then keep the
// stored reference (merge-on-write).
type FacilityInput struct {
	Name        string
	Capacity    int
	Description string
	Status      string
	Image       *string
}

// FacilityService validates facility input and enforces the one
// behavioral guard: a facility with live bookings cannot be deleted.
type FacilityService struct {
	store FacilityStore
}

// NewFacilityService returns a FacilityService over the given store.
func NewFacilityService(store FacilityStore) *FacilityService {
	return &FacilityService{store: store}
}

func validateFacility(in FacilityInput) booking.FieldErrors {
	fe := booking.FieldErrors{}
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		fe["name"] = "name must be 3 to 100 characters"
	}
	if in.Capacity < 1 || in.Capacity > 1000 {
		fe["capacity"] = "capacity must be between 1 and 1000"
	}
	if utf8.RuneCountInString(in.Description) > 500 {
		fe["description"] = "description must be at most 500 characters"
	}
	if in.Status != model.FacilityActive && in.Status != model.FacilityInactive {
		fe["status"] = "status must be active or inactive"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Create validates the input and inserts a new facility.
func (s *FacilityService) Create(ctx context.Context, in FacilityInput) (model.Facility, error) {
	if fe := validateFacility(in); fe != nil {
		return model.Facility{}, fe
	}
	f := model.Facility{
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Status:      in.Status,
		Description: strings.TrimSpace(in.Description),
		Image:       in.Image,
	}
	if err := s.store.Create(ctx, &f); err != nil {
		return model.Facility{}, err
	}
	return f, nil
}

// Update overwrites the facility with the supplied fields. When no new
// image is supplied the current stored reference is carried over, so a
// plain form resubmission does not wipe the image.
func (s *FacilityService) Update(ctx context.Context, id uint64, in FacilityInput) (model.Facility, error) {
	if fe := validateFacility(in); fe != nil {
		return model.Facility{}, fe
	}
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Facility{}, err
	}
	image := in.Image
	if image == nil {
		image = cur.Image
	}
	f := model.Facility{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Status:      in.Status,
		Description: strings.TrimSpace(in.Description),
		Image:       image,
		CreatedAt:   cur.CreatedAt,
	}
	if err := s.store.Update(ctx, &f); err != nil {
		return model.Facility{}, err
	}
	return f, nil
}

// Delete removes a facility unless any pending or approved booking
// still references it, in which case repository.ErrConflict is
// returned and the row is left in place.
func (s *FacilityService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	live, err := s.store.HasActiveBookings(ctx, id)
	if err != nil {
		return err
	}
	if live {
		return repository.ErrConflict
	}
	return s.store.Delete(ctx, id)
}

// List returns facilities ordered by name, optionally including
// inactive ones (the admin view).
func (s *FacilityService) List(ctx context.Context, includeInactive bool) ([]model.Facility, error) {
	return s.store.List(ctx, includeInactive)
}

// Get returns one facility.
func (s *FacilityService) Get(ctx context.Context, id uint64) (model.Facility, error) {
	return s.store.GetByID(ctx, id)
}
