// Package access holds the authorization predicates shared by the cart,
// checkout and order status code paths.
package access

import (
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	SubjectID uuid.UUID
	Role      models.Role
}

func ActorFromClaims(claims *models.Claims) Actor {
	return Actor{SubjectID: claims.UserID, Role: claims.Role}
}

// Owned is implemented by aggregates that belong to a single customer.
type Owned interface {
	OwnerID() uuid.UUID
}

// IsOwner reports whether actor owns the resource. Guest resources
// (uuid.Nil owner) are owned by nobody.
func IsOwner(actor Actor, resource Owned) bool {
	if resource == nil {
		return false
	}

	owner := resource.OwnerID()

	return owner != uuid.Nil && owner == actor.SubjectID
}

func IsAdmin(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

func RequireOwner(actor Actor, resource Owned) error {
	if !IsOwner(actor, resource) {
		return errors.ForbiddenError("You don't have permission to access this resource")
	}

	return nil
}

func RequireAdmin(actor Actor) error {
	if !IsAdmin(actor) {
		return errors.ForbiddenError("Admin role required")
	}

	return nil
}

// RequireOwnerOrAdmin lets administrators read any customer's resource.
func RequireOwnerOrAdmin(actor Actor, resource Owned) error {
	if IsAdmin(actor) || IsOwner(actor, resource) {
		return nil
	}

	return errors.ForbiddenError("You don't have permission to access this resource")
}
