package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/google/uuid"
)

// NotificationService sends order emails and keeps a record of each attempt.
type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type notificationService struct {
	repo         repository.NotificationRepository
	users        repository.UserRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, users: users, emailService: emailService}
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	user, err := n.users.GetUserByID(ctx, order.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to resolve order recipient: %w", err)
	}

	req := orderConfirmationEmail(user, order)

	notification := &models.Notification{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification record: %w", err)
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, err.Error())

		return fmt.Errorf("failed to send email: %w", err)
	}

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return fmt.Errorf("email sent but failed to update notification status: %w", err)
	}

	return nil
}

func orderConfirmationEmail(user *models.User, order *models.Order) *models.EmailNotificationRequest {
	amount := FormatAmount(order.TotalAmount, order.Currency)

	var text, markup strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nWe received your order %s.\n\n", user.Name, order.ID)
	fmt.Fprintf(&markup, "<p>Hi %s,</p><p>We received your order <strong>%s</strong>.</p><ul>", html.EscapeString(user.Name), order.ID)

	for _, item := range order.Items {
		line := fmt.Sprintf("%d x %s", item.Quantity, FormatAmount(item.UnitPrice, order.Currency))
		fmt.Fprintf(&text, "  %s\n", line)
		fmt.Fprintf(&markup, "<li>%s</li>", line)
	}

	fmt.Fprintf(&text, "\nTotal: %s\n", amount)
	fmt.Fprintf(&markup, "</ul><p>Total: <strong>%s</strong></p>", amount)

	return &models.EmailNotificationRequest{
		To:          user.Email,
		Subject:     "Order confirmation " + order.ID.String(),
		Content:     text.String(),
		HTMLContent: markup.String(),
	}
}

// FormatAmount renders minor units with two decimals, e.g. 13997 usd -> "139.97 USD".
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}

	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, strings.ToUpper(currency))
}
