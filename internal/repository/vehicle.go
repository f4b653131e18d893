package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/safeboxlab/safebox/internal/models"
)

// Device ids are assigned at registration and never reused.
var vehicleIDPattern = regexp.MustCompile(`^MOTO_\d{3}$`)

// ErrInvalidVehicleID is returned when a registration id does not
// match the MOTO_NNN format.
var ErrInvalidVehicleID = errors.New("invalid vehicle id format")

// VehicleRepository persists per-vehicle state.
type VehicleRepository struct {
	db *DB
}

func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create registers a vehicle with default state (locked, full battery
// and fuel, no position until first telemetry).
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	if !vehicleIDPattern.MatchString(v.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidVehicleID, v.ID)
	}

	query := `
		INSERT INTO vehicles (id, name, owner_id, is_locked)
		VALUES ($1, $2, $3, TRUE)
	`
	if _, err := r.db.Pool.Exec(ctx, query, v.ID, v.Name, v.OwnerID); err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID returns the current snapshot for one vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `
		SELECT id, name, owner_id, is_locked, last_seen, battery_level, fuel_level, last_lat, last_lng
		FROM vehicles WHERE id = $1
	`
	v := &models.Vehicle{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.OwnerID,
		&v.IsLocked,
		&v.LastSeen,
		&v.BatteryLevel,
		&v.FuelLevel,
		&v.LastLat,
		&v.LastLng,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// List returns every vehicle in the fleet.
func (r *VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	return r.list(ctx, `
		SELECT id, name, owner_id, is_locked, last_seen, battery_level, fuel_level, last_lat, last_lng
		FROM vehicles ORDER BY id
	`)
}

// ListByOwner returns the vehicles owned by one account.
func (r *VehicleRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Vehicle, error) {
	return r.list(ctx, `
		SELECT id, name, owner_id, is_locked, last_seen, battery_level, fuel_level, last_lat, last_lng
		FROM vehicles WHERE owner_id = $1 ORDER BY id
	`, ownerID)
}

func (r *VehicleRepository) list(ctx context.Context, query string, args ...any) ([]*models.Vehicle, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v := &models.Vehicle{}
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.OwnerID,
			&v.IsLocked,
			&v.LastSeen,
			&v.BatteryLevel,
			&v.FuelLevel,
			&v.LastLat,
			&v.LastLng,
		)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

// UpdateTelemetry applies one decoded sample to the live vehicle row.
// seenAt is the ingestion time (epoch ms), not the device timestamp,
// so Online status never depends on device clocks. Position is only
// written when the sample carries real coordinates, so the last known
// position survives reports without GPS data. Returns ErrNotFound for
// unregistered device ids: telemetry never creates vehicles.
func (r *VehicleRepository) UpdateTelemetry(ctx context.Context, sample *models.Sample, seenAt int64) error {
	query := `
		UPDATE vehicles
		SET last_seen = $2,
		    battery_level = $3,
		    fuel_level = $4,
		    last_lat = CASE WHEN $5 THEN $6 ELSE last_lat END,
		    last_lng = CASE WHEN $5 THEN $7 ELSE last_lng END
		WHERE id = $1
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		sample.DeviceID,
		seenAt,
		sample.Battery,
		sample.Fuel,
		sample.HasPosition(),
		sample.Lat,
		sample.Lng,
	)
	if err != nil {
		return fmt.Errorf("update telemetry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLock updates the lock flag, used by command dispatch.
func (r *VehicleRepository) SetLock(ctx context.Context, id string, locked bool) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE vehicles SET is_locked = $2 WHERE id = $1`, id, locked)
	if err != nil {
		return fmt.Errorf("set lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a vehicle. Its geofences are removed by cascade.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}
