package repository

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/facility-booking/internal/model"
)

// FacilityRepo provides CRUD operations over the facilities table.
// Facilities are flat rows; the only cross-table concern is the
// live-booking count consulted before a delete.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo returns a FacilityRepo bound to the given database.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

// Create inserts a facility and populates its generated ID.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	const q = `INSERT INTO facilities (name, capacity, status, description, image) VALUES (?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Capacity, f.Status, f.Description, nullableStr(f.Image))
	if err != nil {
		log.Printf("facility repo: insert failed: %v", err)
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a single facility. ErrFacilityNotFound is returned
// when no row matches.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (model.Facility, error) {
	const q = `SELECT facility_id, name, capacity, status, description, image, created_at
	           FROM facilities WHERE facility_id = ? LIMIT 1`
	var (
		f     model.Facility
		desc  sql.NullString
		image sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.Name, &f.Capacity, &f.Status, &desc, &image, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Facility{}, ErrFacilityNotFound
	}
	if err != nil {
		return model.Facility{}, err
	}
	f.Description = desc.String
	if image.Valid {
		img := image.String
		f.Image = &img
	}
	return f, nil
}

// List returns facilities ordered by name. When includeInactive is
// false only active rows are returned (the staff browse view).
func (r *FacilityRepo) List(ctx context.Context, includeInactive bool) ([]model.Facility, error) {
	q := `SELECT facility_id, name, capacity, status, description, image, created_at
	      FROM facilities ORDER BY name`
	if !includeInactive {
		q = `SELECT facility_id, name, capacity, status, description, image, created_at
		     FROM facilities WHERE status = 'active' ORDER BY name`
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Facility, 0)
	for rows.Next() {
		var (
			f     model.Facility
			desc  sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Capacity, &f.Status, &desc, &image, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Description = desc.String
		if image.Valid {
			img := image.String
			f.Image = &img
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ActiveCount returns the number of active facilities (admin stats).
func (r *FacilityRepo) ActiveCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM facilities WHERE status = 'active'`).Scan(&n)
	return n, err
}

// Update overwrites every mutable column of the facility row. Callers
// resupply all fields; preserving the stored image when no new one is
// uploaded is the caller's responsibility (merge-on-write).
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	const q = `UPDATE facilities
	           SET name = ?, capacity = ?, status = ?, description = ?, image = ?
	           WHERE facility_id = ?`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Capacity, f.Status, f.Description, nullableStr(f.Image), f.ID)
	if err != nil {
		log.Printf("facility repo: update id=%d failed: %v", f.ID, err)
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-change
	// update, so confirm existence before reporting not found.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM facilities WHERE facility_id = ? LIMIT 1`, f.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrFacilityNotFound
		}
	}
	return nil
}

// HasActiveBookings reports whether any pending or approved booking
// references the facility. Deletion is refused while this holds.
func (r *FacilityRepo) HasActiveBookings(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE facility_id = ? AND status IN ('pending','approved')`
	var n int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the facility row. The live-booking guard lives in the
// service layer; this method only reports whether a row was removed.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE facility_id = ?`, id)
	if err != nil {
		log.Printf("facility repo: delete id=%d failed: %v", id, err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFacilityNotFound
	}
	return nil
}

func nullableStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
