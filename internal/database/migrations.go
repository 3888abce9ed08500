package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createTrainsTable,
		createTrainClassesTable,
		createBookingsTable,
		createBookingPassengersTable,
		createBookingsUserIndex,
		createTrainsRouteIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    phone VARCHAR(20) NOT NULL DEFAULT '',
    state VARCHAR(100) NOT NULL DEFAULT '',
    district VARCHAR(100) NOT NULL DEFAULT '',
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createTrainsTable = `
CREATE TABLE IF NOT EXISTS trains (
    id BIGSERIAL PRIMARY KEY,
    number VARCHAR(10) UNIQUE NOT NULL,
    name VARCHAR(200) NOT NULL,
    from_state VARCHAR(100) NOT NULL,
    from_district VARCHAR(100) NOT NULL,
    from_station VARCHAR(200) NOT NULL,
    to_state VARCHAR(100) NOT NULL,
    to_district VARCHAR(100) NOT NULL,
    to_station VARCHAR(200) NOT NULL,
    departure_time TIMESTAMPTZ NOT NULL,
    arrival_time TIMESTAMPTZ NOT NULL,
    duration VARCHAR(20) NOT NULL,
    distance INTEGER NOT NULL,
    days TEXT[] NOT NULL DEFAULT '{}',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// seats_available carries a CHECK so a buggy write can never drive the
// counter negative even outside the conditional-update path.
const createTrainClassesTable = `
CREATE TABLE IF NOT EXISTS train_classes (
    id BIGSERIAL PRIMARY KEY,
    train_id BIGINT NOT NULL REFERENCES trains(id) ON DELETE CASCADE,
    name VARCHAR(10) NOT NULL,
    price BIGINT NOT NULL CHECK (price > 0),
    seats_available INTEGER NOT NULL CHECK (seats_available >= 0),
    UNIQUE (train_id, name)
);`

// train_id is intentionally not a foreign key: bookings outlive retired
// trains and hold their own snapshot of the route fields.
const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    train_id BIGINT NOT NULL,
    train_number VARCHAR(10) NOT NULL,
    train_name VARCHAR(200) NOT NULL,
    from_state VARCHAR(100) NOT NULL,
    from_district VARCHAR(100) NOT NULL,
    from_station VARCHAR(200) NOT NULL,
    to_state VARCHAR(100) NOT NULL,
    to_district VARCHAR(100) NOT NULL,
    to_station VARCHAR(200) NOT NULL,
    departure_time TIMESTAMPTZ NOT NULL,
    arrival_time TIMESTAMPTZ NOT NULL,
    journey_date DATE NOT NULL,
    class VARCHAR(10) NOT NULL,
    total_fare BIGINT NOT NULL,
    status VARCHAR(10) NOT NULL DEFAULT 'Confirmed',
    payment_status VARCHAR(10) NOT NULL DEFAULT 'Pending',
    pnr_number VARCHAR(10) NOT NULL,
    booked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT bookings_pnr_number_key UNIQUE (pnr_number)
);`

const createBookingPassengersTable = `
CREATE TABLE IF NOT EXISTS booking_passengers (
    id BIGSERIAL PRIMARY KEY,
    booking_id BIGINT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    age INTEGER NOT NULL CHECK (age > 0),
    gender VARCHAR(10) NOT NULL,
    seat_number VARCHAR(10)
);`

const createBookingsUserIndex = `
CREATE INDEX IF NOT EXISTS idx_bookings_user_booked_at
    ON bookings (user_id, booked_at DESC);`

const createTrainsRouteIndex = `
CREATE INDEX IF NOT EXISTS idx_trains_route
    ON trains (from_state, from_district, to_state, to_district)
    WHERE is_active;`
