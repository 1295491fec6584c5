// Package queue defines message payloads exchanged over the message broker.
package queue

// LifecycleQueueName is the durable queue carrying booking lifecycle events.
const LifecycleQueueName = "booking.lifecycle"

// BookingEvent is published whenever a booking changes state: created
// as pending, approved or rejected by an admin, or cancelled by its
// owner. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type BookingEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	FacilityID   uint64 `json:"facility_id"`
	FacilityName string `json:"facility_name,omitempty"`
	BookingDate  string `json:"booking_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}
