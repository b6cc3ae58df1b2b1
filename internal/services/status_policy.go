package service

import "github.com/aaravmahajanofficial/storefront/internal/models"

// StatusPolicy decides whether an admin may move an order between statuses.
type StatusPolicy interface {
	Allow(from, to models.OrderStatus) bool
	Name() string
}

// PermissivePolicy accepts every transition, including out of COMPLETED
// and CANCELLED.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, _ models.OrderStatus) bool { return true }

func (PermissivePolicy) Name() string { return "permissive" }

// StrictPolicy follows PENDING -> PROCESSING -> COMPLETED with
// cancellation from either open state. Terminal states are frozen and
// setting the current status again is a no-op.
type StrictPolicy struct{}

var strictTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

func (StrictPolicy) Allow(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}

	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

func (StrictPolicy) Name() string { return "strict" }

func NewStatusPolicy(strict bool) StatusPolicy {
	if strict {
		return StrictPolicy{}
	}

	return PermissivePolicy{}
}
