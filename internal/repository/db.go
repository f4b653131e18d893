package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate applies the schema migrations in order.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateUsers,
		migrationCreateVehicles,
		migrationCreateVehicleHistory,
		migrationCreateGeofences,
		migrationCreateNotifications,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateUsers = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(255) UNIQUE NOT NULL,
    password VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL CHECK (role IN ('individual', 'company')),
    company_name VARCHAR(255),
    email VARCHAR(255),
    phone VARCHAR(50)
);
`

// Epoch-millisecond timestamps match the device wire format, so rows
// round-trip to dashboard clients without conversion.
const migrationCreateVehicles = `
CREATE TABLE IF NOT EXISTS vehicles (
    id VARCHAR(20) PRIMARY KEY,
    name VARCHAR(255),
    owner_id BIGINT REFERENCES users(id),
    is_locked BOOLEAN NOT NULL DEFAULT TRUE,
    last_seen BIGINT,
    battery_level INT NOT NULL DEFAULT 100,
    fuel_level INT NOT NULL DEFAULT 100,
    last_lat DOUBLE PRECISION,
    last_lng DOUBLE PRECISION
);
`

const migrationCreateVehicleHistory = `
CREATE TABLE IF NOT EXISTS vehicle_history (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id VARCHAR(20) NOT NULL,
    timestamp BIGINT NOT NULL,
    speed DOUBLE PRECISION NOT NULL DEFAULT 0,
    battery_level INT NOT NULL DEFAULT 100,
    fuel_level INT NOT NULL DEFAULT 100,
    lat DOUBLE PRECISION NOT NULL DEFAULT 0,
    lng DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_history_vehicle_time ON vehicle_history(vehicle_id, timestamp DESC);
`

const migrationCreateGeofences = `
CREATE TABLE IF NOT EXISTS geofences (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id VARCHAR(20) NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
    lat DOUBLE PRECISION NOT NULL,
    lng DOUBLE PRECISION NOT NULL,
    radius DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_geofences_vehicle_id ON geofences(vehicle_id);
`

// No foreign key on vehicle_id: alert persistence must not fail for a
// device that was deleted (or never registered) mid-flight, and records
// outlive vehicle removal.
const migrationCreateNotifications = `
CREATE TABLE IF NOT EXISTS notifications (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id VARCHAR(20) NOT NULL,
    type VARCHAR(20) NOT NULL,
    message TEXT NOT NULL,
    timestamp BIGINT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_notifications_vehicle_id ON notifications(vehicle_id);
`
