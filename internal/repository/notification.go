package repository

import (
	"context"
	"fmt"

	"github.com/safeboxlab/safebox/internal/models"
)

// NotificationRepository persists alert records. Rows are created by
// the alert dispatcher and only ever mutated by read acknowledgment.
type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores an unread notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (vehicle_id, type, message, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query, n.VehicleID, n.Type, n.Message, n.Timestamp).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByOwner returns the newest notifications for vehicles owned by
// one account, joined with the vehicle name for display.
func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Notification, error) {
	query := `
		SELECT n.id, n.vehicle_id, v.name, n.type, n.message, n.timestamp, n.is_read
		FROM notifications n
		JOIN vehicles v ON n.vehicle_id = v.id
		WHERE v.owner_id = $1
		ORDER BY n.timestamp DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.VehicleID, &n.VehicleName, &n.Type, &n.Message, &n.Timestamp, &n.IsRead)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// MarkRead acknowledges a single notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	if _, err := r.db.Pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead acknowledges every notification for an owner's fleet.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, ownerID int64) error {
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE vehicle_id IN (SELECT id FROM vehicles WHERE owner_id = $1)
	`
	if _, err := r.db.Pool.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// CountUnread counts unread notifications, scoped to an owner when
// ownerID is non-zero.
func (r *NotificationRepository) CountUnread(ctx context.Context, ownerID int64) (int, error) {
	var query string
	var args []any
	if ownerID != 0 {
		query = `
			SELECT COUNT(*)
			FROM notifications n
			JOIN vehicles v ON n.vehicle_id = v.id
			WHERE v.owner_id = $1 AND n.is_read = FALSE
		`
		args = []any{ownerID}
	} else {
		query = `SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
