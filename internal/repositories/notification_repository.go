package repository

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error
}

type notificationRepository struct {
	DB DBTX
}

func NewNotificationRepo(db DBTX) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (id, order_id, type, recipient, subject, content, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, notification.ID, notification.OrderID, notification.Type, notification.Recipient,
		notification.Subject, notification.Content, notification.Status, notification.ErrorMessage).
		Scan(&notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMsg, id)
	if err != nil {
		return fmt.Errorf("failed to update the notification status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}

	return nil
}
