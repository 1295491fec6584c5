package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wall-clock time of day expressed as minutes since
// midnight. Start and end times are normalized to this form as soon as
// they cross the API boundary; "HH:MM" strings exist only at the edges.
type ClockTime int

// ErrBadClock is returned by ParseClock for anything that is not a
// valid HH:MM (or HH:MM:SS) time of day.
var ErrBadClock = errors.New("invalid clock time")

// ParseClock parses "HH:MM" into a ClockTime. A trailing ":SS" part is
// accepted and ignored because MySQL TIME columns scan back as
// "HH:MM:SS".
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrBadClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrBadClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrBadClock
	}
	return ClockTime(h*60 + m), nil
}

// Minutes returns the number of minutes since midnight.
func (t ClockTime) Minutes() int { return int(t) }

// String renders the time as "HH:MM" for responses.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// SQL renders the time as "HH:MM:00" for binding into TIME columns.
func (t ClockTime) SQL() string {
	return fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60)
}
