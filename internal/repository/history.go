package repository

import (
	"context"
	"fmt"

	"github.com/safeboxlab/safebox/internal/models"
)

// HistoryRepository stores the append-only telemetry time series.
// Appends are not idempotent: duplicate telemetry produces duplicate
// rows, keeping the series faithful to what the device sent.
type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append records one sample.
func (r *HistoryRepository) Append(ctx context.Context, s *models.HistorySample) error {
	query := `
		INSERT INTO vehicle_history (vehicle_id, timestamp, speed, battery_level, fuel_level, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		s.VehicleID,
		s.Timestamp,
		s.Speed,
		s.BatteryLevel,
		s.FuelLevel,
		s.Lat,
		s.Lng,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert history sample: %w", err)
	}
	return nil
}

// QuerySince returns chart points recorded after the given epoch-ms
// timestamp, ordered by timestamp ascending.
func (r *HistoryRepository) QuerySince(ctx context.Context, vehicleID string, since int64) ([]models.HistoryPoint, error) {
	query := `
		SELECT timestamp, speed, battery_level, fuel_level
		FROM vehicle_history
		WHERE vehicle_id = $1 AND timestamp > $2
		ORDER BY timestamp ASC
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID, since)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		if err := rows.Scan(&p.Timestamp, &p.Speed, &p.BatteryLevel, &p.FuelLevel); err != nil {
			return nil, fmt.Errorf("scan history point: %w", err)
		}
		points = append(points, p)
	}

	return points, nil
}

// Recent returns up to limit samples, newest first. This is the
// scoring window source.
func (r *HistoryRepository) Recent(ctx context.Context, vehicleID string, limit int) ([]models.HistorySample, error) {
	query := `
		SELECT id, vehicle_id, timestamp, speed, battery_level, fuel_level, lat, lng
		FROM vehicle_history
		WHERE vehicle_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	var samples []models.HistorySample
	for rows.Next() {
		var s models.HistorySample
		err := rows.Scan(&s.ID, &s.VehicleID, &s.Timestamp, &s.Speed, &s.BatteryLevel, &s.FuelLevel, &s.Lat, &s.Lng)
		if err != nil {
			return nil, fmt.Errorf("scan history sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, nil
}
