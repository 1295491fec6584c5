package booking

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Default bounds for a single booking. Both can be overridden through
// configuration; these are the values the service ships with.
const (
	MinBookingDuration = 30 * time.Minute
	MaxBookingDuration = 8 * time.Hour
)

// Limits on free-text fields.
const maxPurposeLen = 500

// Rules is the immutable rule set handed to the lifecycle engine at
// construction. It replaces what used to be ambient global settings.
type Rules struct {
	MinDuration   time.Duration // minimum booking length
	MaxDuration   time.Duration // maximum booking length
	MaxDaysAhead  int           // how far into the future a booking may start
	UpcomingLimit int           // default page size for the upcoming query
	RecentLimit   int           // default page size for the admin recent view
	OverlapCheck  bool          // refuse bookings overlapping an existing pending/approved one
}

// DefaultRules returns the rule set used when no configuration
// overrides are present.
func DefaultRules() Rules {
	return Rules{
		MinDuration:   MinBookingDuration,
		MaxDuration:   MaxBookingDuration,
		MaxDaysAhead:  90,
		UpcomingLimit: 5,
		RecentLimit:   10,
		OverlapCheck:  true,
	}
}

// FieldErrors maps an input field name to the rule it violated. It is
// the validation-error kind: recoverable by the caller resubmitting the
// form, and always produced before any write.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CreateRequest is a booking creation request after boundary parsing:
// the date is a bare UTC day and the times are minutes since midnight.
type CreateRequest struct {
	FacilityID uint64
	Date       time.Time
	Start      ClockTime
	End        ClockTime
	Purpose    string
}

// Duration returns the requested booking length.
func (r CreateRequest) Duration() time.Duration {
	return time.Duration(r.End-r.Start) * time.Minute
}

// ValidateCreate checks a creation request against the temporal and
// business rules. today must be a bare UTC day (see Today). A nil
// return means the request is acceptable; otherwise every violated
// field is reported so the caller can re-present the form.
func (ru Rules) ValidateCreate(req CreateRequest, today time.Time) FieldErrors {
	fe := FieldErrors{}
	if req.FacilityID == 0 {
		fe["facility_id"] = "facility is required"
	}
	if req.Date.Before(today) {
		fe["booking_date"] = "cannot book for past dates"
	} else if ru.MaxDaysAhead > 0 && req.Date.After(today.AddDate(0, 0, ru.MaxDaysAhead)) {
		fe["booking_date"] = "booking date is too far in the future"
	}
	if req.End <= req.Start {
		fe["end_time"] = "end time must be after start time"
	} else {
		d := req.Duration()
		if d < ru.MinDuration {
			fe["end_time"] = "minimum booking duration is " + ru.MinDuration.String()
		} else if d > ru.MaxDuration {
			fe["end_time"] = "maximum booking duration is " + ru.MaxDuration.String()
		}
	}
	if utf8.RuneCountInString(req.Purpose) > maxPurposeLen {
		fe["purpose"] = "purpose must be at most 500 characters"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Today truncates t to its UTC day, the granularity booking_date is
// compared at.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
