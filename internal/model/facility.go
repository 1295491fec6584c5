package model

import "time"

// Facility statuses as stored in the facilities.status enum.
const (
	FacilityActive   = "active"
	FacilityInactive = "inactive"
)

// Facility represents a bookable resource (a room or a piece of
// equipment) as stored in the `facilities` table.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – facility name (3..100 characters).
//	Capacity    – how many people it holds (1..1000).
//	Status      – "active" or "inactive"; only active facilities are bookable.
//	Description – optional free text.
//	Image       – optional stored image reference (nullable).
//	CreatedAt   – timestamp of creation.
type Facility struct {
	ID          uint64    // facilities.facility_id
	Name        string    // facilities.name
	Capacity    int       // facilities.capacity
	Status      string    // facilities.status
	Description string    // facilities.description
	Image       *string   // facilities.image (nullable)
	CreatedAt   time.Time // facilities.created_at
}
