package models

import "github.com/google/uuid"

// AuthorizationRequest is what the checkout asks a payment gate to approve.
// AttemptID is fresh for every checkout attempt so a retry after a decline
// is never mistaken for a replay of the earlier request.
type AuthorizationRequest struct {
	CustomerID uuid.UUID
	CartID     uuid.UUID
	AttemptID  uuid.UUID
	Amount     int64
	Currency   string
}

type Authorization struct {
	Approved      bool
	Reference     string
	DeclineReason string
}

type WebhookResult struct {
	EventType     string        `json:"event_type"`
	Reference     string        `json:"reference,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	Ignored       bool          `json:"ignored"`
}
