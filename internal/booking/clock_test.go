package booking

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want ClockTime
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"14:00:00", 840, true}, // TIME columns scan back with seconds
		{" 08:15 ", 495, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"-1:30", 0, false},
		{"9", 0, false},
		{"9:3:0:0", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.ok {
			if err != nil {
				t.Errorf("ParseClock(%q): unexpected error %v", c.in, err)
				continue
			}
			if got != c.want {
				t.Errorf("ParseClock(%q) = %d, want %d", c.in, got, c.want)
			}
		} else if err != ErrBadClock {
			t.Errorf("ParseClock(%q): want ErrBadClock, got %v", c.in, err)
		}
	}
}

func TestClockTimeFormatting(t *testing.T) {
	ct := ClockTime(570)
	if s := ct.String(); s != "09:30" {
		t.Errorf("String() = %q, want %q", s, "09:30")
	}
	if s := ct.SQL(); s != "09:30:00" {
		t.Errorf("SQL() = %q, want %q", s, "09:30:00")
	}
	if ct.Minutes() != 570 {
		t.Errorf("Minutes() = %d, want 570", ct.Minutes())
	}
}

func TestClockTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "07:05", "12:30", "23:59"} {
		ct, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if ct.String() != s {
			t.Errorf("round trip %q -> %q", s, ct.String())
		}
	}
}
