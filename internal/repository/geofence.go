package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/safeboxlab/safebox/internal/models"
)

// ErrInvalidRadius is returned when a geofence radius is not positive.
var ErrInvalidRadius = errors.New("geofence radius must be positive")

// GeofenceRepository persists circular safe zones.
type GeofenceRepository struct {
	db *DB
}

func NewGeofenceRepository(db *DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

// Create stores a new zone for a vehicle.
func (r *GeofenceRepository) Create(ctx context.Context, g *models.Geofence) error {
	if g.Radius <= 0 {
		return ErrInvalidRadius
	}

	query := `
		INSERT INTO geofences (vehicle_id, lat, lng, radius)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.Pool.QueryRow(ctx, query, g.VehicleID, g.Lat, g.Lng, g.Radius).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert geofence: %w", err)
	}
	return nil
}

// Update moves or resizes a zone.
func (r *GeofenceRepository) Update(ctx context.Context, id int64, lat, lng, radius float64) error {
	if radius <= 0 {
		return ErrInvalidRadius
	}

	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE geofences SET lat = $2, lng = $3, radius = $4 WHERE id = $1`,
		id, lat, lng, radius,
	)
	if err != nil {
		return fmt.Errorf("update geofence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a zone.
func (r *GeofenceRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM geofences WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete geofence: %w", err)
	}
	return nil
}

// ListByVehicle returns every zone configured for one vehicle.
func (r *GeofenceRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]models.Geofence, error) {
	query := `
		SELECT id, vehicle_id, lat, lng, radius, created_at
		FROM geofences WHERE vehicle_id = $1 ORDER BY id
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list geofences: %w", err)
	}
	defer rows.Close()

	var fences []models.Geofence
	for rows.Next() {
		var g models.Geofence
		if err := rows.Scan(&g.ID, &g.VehicleID, &g.Lat, &g.Lng, &g.Radius, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan geofence: %w", err)
		}
		fences = append(fences, g)
	}

	return fences, nil
}
