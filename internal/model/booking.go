package model

import (
	"time"

	"github.com/iliyamo/facility-booking/internal/booking"
)

// Booking represents a row of the `bookings` table: one user's request
// to use one facility over [booking_date, start, end). The identity
// columns and the time window are immutable after creation; only the
// status ever changes.
//
// Fields:
//
//	ID           – primary key identifier.
//	UserID       – requesting user.
//	FacilityID   – requested facility.
//	Date         – day of the booking (UTC midnight).
//	Start, End   – clock times normalized to minutes since midnight.
//	Status       – pending | approved | rejected | cancelled.
//	Purpose      – optional free text (nullable).
//	CreatedAt    – timestamp of creation.
//	UserName     – joined from users.name on admin listings; empty otherwise.
//	FacilityName – joined from facilities.name on listings; empty otherwise.
type Booking struct {
	ID         uint64            // bookings.booking_id
	UserID     uint64            // bookings.user_id
	FacilityID uint64            // bookings.facility_id
	Date       time.Time         // bookings.booking_date
	Start      booking.ClockTime // bookings.start_time
	End        booking.ClockTime // bookings.end_time
	Status     string            // bookings.status
	Purpose    *string           // bookings.purpose (nullable)
	CreatedAt  time.Time         // bookings.created_at

	UserName     string // users.name (join, read paths only)
	FacilityName string // facilities.name (join, read paths only)
}

// GlobalStats is the admin dashboard aggregate over all bookings.
type GlobalStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// UserStats is the per-user aggregate shown on the staff dashboard.
type UserStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}
