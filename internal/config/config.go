package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"

	"github.com/iliyamo/facility-booking/internal/booking"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The booking rule fields feed the
// immutable booking.Rules handed to the lifecycle engine at startup;
// nothing reads them ambiently afterwards.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	MinDurationMin int  // minimum booking duration in minutes
	MaxDurationMin int  // maximum booking duration in minutes
	MaxDaysAhead   int  // how many days ahead a booking may start
	UpcomingLimit  int  // default page size of the upcoming-bookings query
	RecentLimit    int  // default page size of the admin recent view
	OverlapCheck   bool // refuse overlapping bookings on the same facility/day
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
// Booking rule variables are optional and default to the values the
// original deployment used.
func Load() Config {
	def := booking.DefaultRules()
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		MinDurationMin: envInt("BOOKING_MIN_DURATION_MIN", int(def.MinDuration/time.Minute)),
		MaxDurationMin: envInt("BOOKING_MAX_DURATION_MIN", int(def.MaxDuration/time.Minute)),
		MaxDaysAhead:   envInt("BOOKING_MAX_DAYS_AHEAD", def.MaxDaysAhead),
		UpcomingLimit:  envInt("BOOKING_UPCOMING_LIMIT", def.UpcomingLimit),
		RecentLimit:    envInt("BOOKING_RECENT_LIMIT", def.RecentLimit),
		OverlapCheck:   envBool("BOOKING_OVERLAP_CHECK", def.OverlapCheck),
	}
}

// Rules builds the immutable rule set for the booking lifecycle engine.
func (c Config) Rules() booking.Rules {
	return booking.Rules{
		MinDuration:   time.Duration(c.MinDurationMin) * time.Minute,
		MaxDuration:   time.Duration(c.MaxDurationMin) * time.Minute,
		MaxDaysAhead:  c.MaxDaysAhead,
		UpcomingLimit: c.UpcomingLimit,
		RecentLimit:   c.RecentLimit,
		OverlapCheck:  c.OverlapCheck,
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
