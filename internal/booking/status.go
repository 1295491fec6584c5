// Package booking holds the domain rules for the booking lifecycle:
// the status set, the allowed transitions, clock-time normalization and
// the validation applied to every creation request before anything is
// persisted.
package booking

// Booking statuses as stored in the bookings.status enum. A booking is
// created pending and moves exactly once: an admin approves or rejects
// it, or the owning user cancels it. All three outcomes are terminal.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// User roles as stored in the users.role enum.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another. Only pending bookings move; approved, rejected and cancelled
// are sinks.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
