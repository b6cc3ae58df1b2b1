package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
)

type NotificationStatus string

const (
	StatusPending NotificationStatus = "pending"
	StatusSent    NotificationStatus = "sent"
	StatusFailed  NotificationStatus = "failed"
)

// Notification records one outbound message about an order.
type Notification struct {
	ID           uuid.UUID          `json:"id"`
	OrderID      uuid.UUID          `json:"order_id"`
	Type         NotificationType   `json:"type"`
	Recipient    string             `json:"recipient"`
	Subject      string             `json:"subject,omitempty"`
	Content      string             `json:"content"`
	Status       NotificationStatus `json:"status"`
	ErrorMessage string             `json:"error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type EmailNotificationRequest struct {
	To          string
	Subject     string
	Content     string
	HTMLContent string
}
