package booking

import (
	"strings"
	"testing"
	"time"
)

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	ct, err := ParseClock(s)
	if err != nil {
		t.Fatalf("ParseClock(%q): %v", s, err)
	}
	return ct
}

func TestValidateCreate(t *testing.T) {
	rules := DefaultRules()
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		req       CreateRequest
		wantField string // empty means the request must pass
	}{
		{
			name: "valid ninety minute booking",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:30"),
				Purpose:    "team meeting",
			},
		},
		{
			name: "booking today is allowed",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today,
				Start:      mustClock(t, "14:00"),
				End:        mustClock(t, "15:00"),
			},
		},
		{
			name: "missing facility",
			req: CreateRequest{
				Date:  today.AddDate(0, 0, 1),
				Start: mustClock(t, "09:00"),
				End:   mustClock(t, "10:00"),
			},
			wantField: "facility_id",
		},
		{
			name: "past date",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, -1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:00"),
			},
			wantField: "booking_date",
		},
		{
			name: "date too far ahead",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 91),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:00"),
			},
			wantField: "booking_date",
		},
		{
			name: "end before start",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "14:00"),
				End:        mustClock(t, "13:00"),
			},
			wantField: "end_time",
		},
		{
			name: "end equals start",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "14:00"),
				End:        mustClock(t, "14:00"),
			},
			wantField: "end_time",
		},
		{
			name: "shorter than minimum",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "09:29"),
			},
			wantField: "end_time",
		},
		{
			name: "longer than maximum",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "08:00"),
				End:        mustClock(t, "17:01"),
			},
			wantField: "end_time",
		},
		{
			name: "exactly eight hours is allowed",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "08:00"),
				End:        mustClock(t, "16:00"),
			},
		},
		{
			name: "purpose too long",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:00"),
				Purpose:    strings.Repeat("x", 501),
			},
			wantField: "purpose",
		},
		{
			// The limit counts characters, not bytes: 500 two-byte
			// runes must pass.
			name: "multibyte purpose at the limit",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:00"),
				Purpose:    strings.Repeat("é", 500),
			},
		},
		{
			name: "multibyte purpose over the limit",
			req: CreateRequest{
				FacilityID: 1,
				Date:       today.AddDate(0, 0, 1),
				Start:      mustClock(t, "09:00"),
				End:        mustClock(t, "10:00"),
				Purpose:    strings.Repeat("é", 501),
			},
			wantField: "purpose",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fe := rules.ValidateCreate(c.req, today)
			if c.wantField == "" {
				if fe != nil {
					t.Fatalf("unexpected errors: %v", fe)
				}
				return
			}
			if fe == nil {
				t.Fatalf("want error on %q, got none", c.wantField)
			}
			if _, ok := fe[c.wantField]; !ok {
				t.Errorf("want error on %q, got %v", c.wantField, fe)
			}
		})
	}
}

func TestValidateCreateReportsAllFields(t *testing.T) {
	rules := DefaultRules()
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	fe := rules.ValidateCreate(CreateRequest{
		Date:  today.AddDate(0, 0, -1),
		Start: mustClock(t, "10:00"),
		End:   mustClock(t, "09:00"),
	}, today)
	if len(fe) != 3 {
		t.Fatalf("want 3 field errors, got %v", fe)
	}
	for _, f := range []string{"facility_id", "booking_date", "end_time"} {
		if _, ok := fe[f]; !ok {
			t.Errorf("missing error for %q in %v", f, fe)
		}
	}
}

func TestCanTransition(t *testing.T) {
	for _, target := range []string{StatusApproved, StatusRejected, StatusCancelled} {
		if !CanTransition(StatusPending, target) {
			t.Errorf("pending -> %s should be allowed", target)
		}
	}
	for _, from := range []string{StatusApproved, StatusRejected, StatusCancelled} {
		for _, to := range []string{StatusApproved, StatusRejected, StatusCancelled, StatusPending} {
			if CanTransition(from, to) {
				t.Errorf("%s -> %s should be refused", from, to)
			}
		}
	}
	if CanTransition(StatusPending, "archived") {
		t.Error("unknown target status should be refused")
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	fe := FieldErrors{"end_time": "end time must be after start time", "booking_date": "cannot book for past dates"}
	want := "validation failed: booking_date: cannot book for past dates; end_time: end time must be after start time"
	if fe.Error() != want {
		t.Errorf("Error() = %q, want %q", fe.Error(), want)
	}
}

func TestToday(t *testing.T) {
	in := time.Date(2026, 8, 30, 17, 45, 12, 0, time.FixedZone("x", 3*3600))
	got := Today(in)
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Today(%v) = %v, want %v", in, got, want)
	}
}
