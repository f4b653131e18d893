package models

import "time"

// AlertType classifies a notification raised by the alert pipeline.
type AlertType string

const (
	AlertGeofence AlertType = "GEOFENCE"
	AlertSpeed    AlertType = "SPEED"
	AlertFuel     AlertType = "FUEL"
	AlertBattery  AlertType = "BATTERY"
)

// User account that owns vehicles.
type User struct {
	ID          int64  `json:"id" db:"id"`
	Username    string `json:"username" db:"username"`
	Password    string `json:"-" db:"password"`
	Role        string `json:"role" db:"role"` // individual | company
	CompanyName string `json:"company_name,omitempty" db:"company_name"`
	Email       string `json:"email,omitempty" db:"email"`
	Phone       string `json:"phone,omitempty" db:"phone"`
}

// Vehicle current state, updated in place by telemetry ingestion.
// Timestamps are epoch milliseconds to match the device wire format.
type Vehicle struct {
	ID           string   `json:"id" db:"id"` // MOTO_NNN
	Name         string   `json:"name" db:"name"`
	OwnerID      int64    `json:"owner_id" db:"owner_id"`
	IsLocked     bool     `json:"is_locked" db:"is_locked"`
	LastSeen     *int64   `json:"last_seen,omitempty" db:"last_seen"`
	BatteryLevel int      `json:"battery_level" db:"battery_level"`
	FuelLevel    int      `json:"fuel_level" db:"fuel_level"`
	LastLat      *float64 `json:"last_lat,omitempty" db:"last_lat"`
	LastLng      *float64 `json:"last_lng,omitempty" db:"last_lng"`
}

// Sample is one decoded telemetry report. Missing payload fields have
// already been filled with their documented defaults by the decoder.
type Sample struct {
	DeviceID  string  `json:"deviceId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Speed     float64 `json:"speed"` // km/h
	Battery   int     `json:"battery"`
	Fuel      int     `json:"fuel"`
	Timestamp int64   `json:"timestamp"`
}

// HasPosition reports whether the sample carries real coordinates.
// (0,0) is the decoder fallback for absent position data.
func (s *Sample) HasPosition() bool {
	return s.Lat != 0 || s.Lng != 0
}

// HistorySample is one append-only time-series row.
type HistorySample struct {
	ID           int64   `json:"id" db:"id"`
	VehicleID    string  `json:"vehicle_id" db:"vehicle_id"`
	Timestamp    int64   `json:"timestamp" db:"timestamp"`
	Speed        float64 `json:"speed" db:"speed"`
	BatteryLevel int     `json:"battery_level" db:"battery_level"`
	FuelLevel    int     `json:"fuel_level" db:"fuel_level"`
	Lat          float64 `json:"lat" db:"lat"`
	Lng          float64 `json:"lng" db:"lng"`
}

// HistoryPoint is the slim row returned to charting clients.
type HistoryPoint struct {
	Timestamp    int64   `json:"timestamp"`
	Speed        float64 `json:"speed"`
	BatteryLevel int     `json:"battery_level"`
	FuelLevel    int     `json:"fuel_level"`
}

// Geofence is a circular safe zone attached to one vehicle.
type Geofence struct {
	ID        int64     `json:"id" db:"id"`
	VehicleID string    `json:"vehicle_id" db:"vehicle_id"`
	Lat       float64   `json:"lat" db:"lat"`
	Lng       float64   `json:"lng" db:"lng"`
	Radius    float64   `json:"radius" db:"radius"` // meters
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Notification is a persisted alert record.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	VehicleID   string    `json:"vehicle_id" db:"vehicle_id"`
	VehicleName string    `json:"vehicle_name,omitempty" db:"vehicle_name"`
	Type        AlertType `json:"type" db:"type"`
	Message     string    `json:"message" db:"message"`
	Timestamp   int64     `json:"timestamp" db:"timestamp"`
	IsRead      bool      `json:"is_read" db:"is_read"`
}

// AlertEvent is the payload broadcast to dashboard clients for every
// raised alert. Type is omitted for geofence alerts so older clients
// that predate typed alerts keep working.
type AlertEvent struct {
	VehicleID string `json:"vehicleId"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type,omitempty"`
}

// DeviceData mirrors the raw decoded telemetry to dashboard clients.
type DeviceData struct {
	Topic   string  `json:"topic"`
	Payload *Sample `json:"payload"`
}

// VehicleScore holds the derived 0-100 metrics for one vehicle.
type VehicleScore struct {
	Safety     int `json:"safety"`
	Efficiency int `json:"efficiency"`
}

// FleetStats aggregates the fleet visible to one account scope.
type FleetStats struct {
	TotalVehicles  int `json:"totalVehicles"`
	ActiveVehicles int `json:"activeVehicles"`
	CriticalAlerts int `json:"criticalAlerts"`
	AvgFuel        int `json:"avgFuel"`
	AvgSafety      int `json:"avgSafety"`
}

// LeaderboardEntry ranks one vehicle by combined score.
type LeaderboardEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SafetyScore     int    `json:"safetyScore"`
	EfficiencyScore int    `json:"efficiencyScore"`
	Status          string `json:"status"` // Online | Offline
}
