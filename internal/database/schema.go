package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table definitions for first-time setup. Kept in dependency order:
// bookings references users and facilities.
var schema = []struct {
	name string
	ddl  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			user_id INT PRIMARY KEY AUTO_INCREMENT,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role ENUM('admin', 'staff') NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"facilities", `
		CREATE TABLE IF NOT EXISTS facilities (
			facility_id INT PRIMARY KEY AUTO_INCREMENT,
			name VARCHAR(100) NOT NULL,
			capacity INT NOT NULL,
			status ENUM('active', 'inactive') DEFAULT 'active',
			description TEXT,
			image VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"bookings", `
		CREATE TABLE IF NOT EXISTS bookings (
			booking_id INT PRIMARY KEY AUTO_INCREMENT,
			user_id INT NOT NULL,
			facility_id INT NOT NULL,
			booking_date DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			status ENUM('pending', 'approved', 'rejected', 'cancelled') DEFAULT 'pending',
			purpose TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
			FOREIGN KEY (facility_id) REFERENCES facilities(facility_id) ON DELETE CASCADE,
			INDEX idx_date_facility (booking_date, facility_id),
			INDEX idx_status (status)
		)`},
	{"refresh_tokens", `
		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT PRIMARY KEY AUTO_INCREMENT,
			user_id INT NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
			INDEX idx_token_hash (token_hash)
		)`},
}

// EnsureSchema creates the application tables when they do not exist
// yet. Useful for first-time setup and throwaway environments; a real
// deployment would already have the schema in place.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schema {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	return nil
}
