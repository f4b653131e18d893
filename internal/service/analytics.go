package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
)

// Scoring policy.
const (
	// ScoringWindow is the number of most recent history samples
	// considered per vehicle.
	ScoringWindow = 50

	// Safety: each sample above this speed costs speedingPenalty.
	speedingThresholdKph = 80.0
	speedingPenalty      = 5

	// Efficiency: each resource below this level costs lowResourcePenalty.
	lowResourcePct     = 20
	lowResourcePenalty = 20

	// OnlineWindow is how recently a vehicle must have reported to
	// count as Online / active.
	OnlineWindow = 5 * time.Minute
)

// History range presets.
const (
	RangeDay  = "24h"
	RangeWeek = "7d"
)

type vehicleLister interface {
	List(ctx context.Context) ([]*models.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Vehicle, error)
}

type historySource interface {
	Recent(ctx context.Context, vehicleID string, limit int) ([]models.HistorySample, error)
	QuerySince(ctx context.Context, vehicleID string, since int64) ([]models.HistoryPoint, error)
}

type unreadCounter interface {
	CountUnread(ctx context.Context, ownerID int64) (int, error)
}

// AnalyticsService derives safety/efficiency scores and fleet-wide
// aggregates from current state plus recent history. It reads only;
// it is never part of the ingestion path.
type AnalyticsService struct {
	logger        *zap.Logger
	vehicles      vehicleLister
	history       historySource
	notifications unreadCounter

	nowMillis func() int64
}

func NewAnalyticsService(logger *zap.Logger, vehicles vehicleLister, history historySource, notifications unreadCounter) *AnalyticsService {
	return &AnalyticsService{
		logger:        logger,
		vehicles:      vehicles,
		history:       history,
		notifications: notifications,
		nowMillis:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Score computes the derived metrics for one vehicle from its scoring
// window and current resource levels.
func (s *AnalyticsService) Score(ctx context.Context, v *models.Vehicle) (models.VehicleScore, error) {
	window, err := s.history.Recent(ctx, v.ID, ScoringWindow)
	if err != nil {
		return models.VehicleScore{}, fmt.Errorf("load scoring window: %w", err)
	}

	safety := 100
	for _, sample := range window {
		if sample.Speed > speedingThresholdKph {
			safety -= speedingPenalty
		}
	}

	efficiency := 100
	if v.FuelLevel < lowResourcePct {
		efficiency -= lowResourcePenalty
	}
	if v.BatteryLevel < lowResourcePct {
		efficiency -= lowResourcePenalty
	}

	return models.VehicleScore{
		Safety:     clampScore(safety),
		Efficiency: clampScore(efficiency),
	}, nil
}

// Status derives Online/Offline from the last-seen timestamp.
func Status(lastSeen *int64, now int64) string {
	if lastSeen != nil && now-*lastSeen < OnlineWindow.Milliseconds() {
		return "Online"
	}
	return "Offline"
}

// FleetStats aggregates the vehicles visible to one account scope;
// ownerID 0 means the whole fleet.
func (s *AnalyticsService) FleetStats(ctx context.Context, ownerID int64) (*models.FleetStats, error) {
	vehicles, err := s.listScoped(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.CountUnread(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	now := s.nowMillis()
	stats := &models.FleetStats{
		TotalVehicles:  len(vehicles),
		CriticalAlerts: unread,
	}

	var fuelSum, safetySum int
	for _, v := range vehicles {
		if Status(v.LastSeen, now) == "Online" {
			stats.ActiveVehicles++
		}
		fuelSum += v.FuelLevel

		score, err := s.Score(ctx, v)
		if err != nil {
			return nil, err
		}
		safetySum += score.Safety
	}

	if len(vehicles) > 0 {
		stats.AvgFuel = roundDiv(fuelSum, len(vehicles))
		stats.AvgSafety = roundDiv(safetySum, len(vehicles))
	} else {
		stats.AvgSafety = 100
	}

	return stats, nil
}

// Leaderboard ranks the scoped vehicles by combined score, descending.
func (s *AnalyticsService) Leaderboard(ctx context.Context, ownerID int64) ([]models.LeaderboardEntry, error) {
	vehicles, err := s.listScoped(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.nowMillis()
	entries := make([]models.LeaderboardEntry, 0, len(vehicles))
	for _, v := range vehicles {
		score, err := s.Score(ctx, v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.LeaderboardEntry{
			ID:              v.ID,
			Name:            v.Name,
			SafetyScore:     score.Safety,
			EfficiencyScore: score.Efficiency,
			Status:          Status(v.LastSeen, now),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SafetyScore+entries[i].EfficiencyScore >
			entries[j].SafetyScore+entries[j].EfficiencyScore
	})

	return entries, nil
}

// History returns chart points for the preset window ("24h" default,
// "7d").
func (s *AnalyticsService) History(ctx context.Context, vehicleID, rng string) ([]models.HistoryPoint, error) {
	window := 24 * time.Hour
	if rng == RangeWeek {
		window = 7 * 24 * time.Hour
	}

	since := s.nowMillis() - window.Milliseconds()
	points, err := s.history.QuerySince(ctx, vehicleID, since)
	if err != nil {
		return nil, fmt.Errorf("query history range: %w", err)
	}
	return points, nil
}

func (s *AnalyticsService) listScoped(ctx context.Context, ownerID int64) ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle
	var err error
	if ownerID != 0 {
		vehicles, err = s.vehicles.ListByOwner(ctx, ownerID)
	} else {
		vehicles, err = s.vehicles.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
