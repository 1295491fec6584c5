package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/iliyamo/facility-booking/internal/booking"
	"github.com/iliyamo/facility-booking/internal/model"
)

// BookingRepo provides persistence for bookings. Bookings are inserted
// pending and only their status column ever changes afterwards; the
// update methods encode the transition conditions in their WHERE
// clauses so a stale transition affects zero rows instead of
// overwriting a terminal state. All dates are bare UTC days.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `b.booking_id, b.user_id, b.facility_id, b.booking_date,
	b.start_time, b.end_time, b.status, b.purpose, b.created_at`

// Create inserts a new pending booking and populates its generated ID.
// No conflict check is performed; see CreateNoOverlap.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, facility_id, booking_date, start_time, end_time, purpose, status)
	           VALUES (?,?,?,?,?,?,'pending')`
	res, err := r.db.ExecContext(ctx, q,
		b.UserID, b.FacilityID, b.Date.Format("2006-01-02"), b.Start.SQL(), b.End.SQL(), nullableStr(b.Purpose))
	if err != nil {
		log.Printf("booking repo: insert failed: %v", err)
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = booking.StatusPending
	return nil
}

// CreateNoOverlap inserts a new pending booking inside a transaction
// that first counts live bookings on the same facility and day whose
// window intersects the requested one, locking the matching rows so
// two concurrent requests cannot both pass the check. ErrOverlap is
// returned when the count is non-zero and nothing is written.
func (r *BookingRepo) CreateNoOverlap(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const checkQ = `SELECT COUNT(*) FROM bookings
	                WHERE facility_id = ? AND booking_date = ?
	                  AND status IN ('pending','approved')
	                  AND start_time < ? AND end_time > ?
	                FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, checkQ,
		b.FacilityID, b.Date.Format("2006-01-02"), b.End.SQL(), b.Start.SQL()).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrOverlap
	}

	const insQ = `INSERT INTO bookings
	              (user_id, facility_id, booking_date, start_time, end_time, purpose, status)
	              VALUES (?,?,?,?,?,?,'pending')`
	res, err := tx.ExecContext(ctx, insQ,
		b.UserID, b.FacilityID, b.Date.Format("2006-01-02"), b.Start.SQL(), b.End.SQL(), nullableStr(b.Purpose))
	if err != nil {
		log.Printf("booking repo: checked insert failed: %v", err)
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = booking.StatusPending
	return nil
}

// GetByID fetches one booking without joins. ErrBookingNotFound is
// returned when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings b WHERE b.booking_id = ? LIMIT 1`
	row := r.db.QueryRowContext(ctx, q, id)
	b, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns all of a user's bookings, newest first, with the
// facility name joined in.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + `, f.name
	           FROM bookings b
	           JOIN facilities f ON f.facility_id = b.facility_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var facilityName string
		b, err := scanBooking(func(dest ...any) error {
			return rows.Scan(append(dest, &facilityName)...)
		})
		if err != nil {
			return nil, err
		}
		b.FacilityName = facilityName
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAll returns every booking with user and facility names joined,
// newest first, optionally filtered by status (the admin listing).
func (r *BookingRepo) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + `, u.name, f.name
	      FROM bookings b
	      JOIN users u ON u.user_id = b.user_id
	      JOIN facilities f ON f.facility_id = b.facility_id`
	args := []any{}
	if status != "" {
		q += ` WHERE b.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY b.created_at DESC`
	return r.queryJoined(ctx, q, args...)
}

// Recent returns the newest bookings with names joined, capped at limit
// (the admin dashboard widget).
func (r *BookingRepo) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + `, u.name, f.name
	           FROM bookings b
	           JOIN users u ON u.user_id = b.user_id
	           JOIN facilities f ON f.facility_id = b.facility_id
	           ORDER BY b.created_at DESC
	           LIMIT ?`
	return r.queryJoined(ctx, q, limit)
}

// UpcomingByUser returns the user's bookings from today onward that are
// still pending or approved, ordered by date then start time, capped at
// limit. A plain sorted projection, no pagination cursor.
func (r *BookingRepo) UpcomingByUser(ctx context.Context, userID uint64, limit int) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + `, f.name
	           FROM bookings b
	           JOIN facilities f ON f.facility_id = b.facility_id
	           WHERE b.user_id = ?
	             AND b.booking_date >= CURDATE()
	             AND b.status IN ('pending','approved')
	           ORDER BY b.booking_date ASC, b.start_time ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var facilityName string
		b, err := scanBooking(func(dest ...any) error {
			return rows.Scan(append(dest, &facilityName)...)
		})
		if err != nil {
			return nil, err
		}
		b.FacilityName = facilityName
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatusFromPending moves a pending booking to the given status.
// The update is conditional: a booking that is no longer pending is
// left untouched and ErrConflict is returned; a missing booking yields
// ErrBookingNotFound. Zero rows affected is never silent success.
func (r *BookingRepo) UpdateStatusFromPending(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE booking_id = ? AND status = 'pending'`,
		status, id)
	if err != nil {
		log.Printf("booking repo: update status id=%d -> %s failed: %v", id, status, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err // ErrBookingNotFound or a query failure
		}
		return ErrConflict
	}
	return nil
}

// CancelOwned cancels a booking if and only if it is still pending and
// owned by userID. On zero rows affected the booking is re-read to
// report the precise reason: missing, owned by someone else, or no
// longer pending.
func (r *BookingRepo) CancelOwned(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled'
		 WHERE booking_id = ? AND user_id = ? AND status = 'pending'`,
		id, userID)
	if err != nil {
		log.Printf("booking repo: cancel id=%d user=%d failed: %v", id, userID, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		b, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		return ErrConflict
	}
	return nil
}

// GlobalStats aggregates booking counts across all users for the admin
// dashboard. Computed directly, never cached at this layer.
func (r *BookingRepo) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	const q = `SELECT COUNT(*),
	                  COALESCE(SUM(status='pending'),0),
	                  COALESCE(SUM(status='approved'),0),
	                  COALESCE(SUM(status='rejected'),0)
	           FROM bookings`
	var s model.GlobalStats
	err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Pending, &s.Approved, &s.Rejected)
	return s, err
}

// UserStats aggregates one user's booking counts for the staff
// dashboard.
func (r *BookingRepo) UserStats(ctx context.Context, userID uint64) (model.UserStats, error) {
	const q = `SELECT COUNT(*),
	                  COALESCE(SUM(status='pending'),0),
	                  COALESCE(SUM(status='approved'),0)
	           FROM bookings WHERE user_id = ?`
	var s model.UserStats
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.Total, &s.Pending, &s.Approved)
	return s, err
}

func (r *BookingRepo) queryJoined(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var userName, facilityName string
		b, err := scanBooking(func(dest ...any) error {
			return rows.Scan(append(dest, &userName, &facilityName)...)
		})
		if err != nil {
			return nil, err
		}
		b.UserName = userName
		b.FacilityName = facilityName
		out = append(out, b)
	}
	return out, rows.Err()
}

// scanBooking reads the nine booking columns through the given scan
// function and converts the raw DATE/TIME values into their typed
// forms. TIME columns come back as "HH:MM:SS" strings.
func scanBooking(scan func(dest ...any) error) (model.Booking, error) {
	var (
		b          model.Booking
		start, end string
		purpose    sql.NullString
	)
	if err := scan(&b.ID, &b.UserID, &b.FacilityID, &b.Date,
		&start, &end, &b.Status, &purpose, &b.CreatedAt); err != nil {
		return model.Booking{}, err
	}
	st, err := booking.ParseClock(start)
	if err != nil {
		return model.Booking{}, err
	}
	en, err := booking.ParseClock(end)
	if err != nil {
		return model.Booking{}, err
	}
	b.Start, b.End = st, en
	b.Date = time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, time.UTC)
	if purpose.Valid {
		p := purpose.String
		b.Purpose = &p
	}
	return b, nil
}
