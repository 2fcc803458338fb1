// Package authz holds the role and ownership predicates evaluated before
// every mutating or sensitive operation. They are pure functions of the
// requester and the resource so they can be tested without a store.
package authz

import "github.com/homeservices/booking-api/models"

// Requester identifies the caller of an operation. The zero value is an
// anonymous caller.
type Requester struct {
	ID   uint
	Role models.Role
}

// Anonymous reports whether the requester carries no identity
func (r Requester) Anonymous() bool {
	return r.ID == 0
}

func IsAdmin(role models.Role) bool {
	return role == models.RoleAdmin
}

func IsOwner(requesterID, ownerID uint) bool {
	return requesterID != 0 && requesterID == ownerID
}

// CanViewOrder allows admins and the order's owner
func CanViewOrder(r Requester, order *models.Order) bool {
	return IsAdmin(r.Role) || IsOwner(r.ID, order.UserID)
}

func CanMutateOrderStatus(r Requester) bool {
	return IsAdmin(r.Role)
}

func CanManageCatalogOrLocations(r Requester) bool {
	return IsAdmin(r.Role)
}

func CanManageUsers(r Requester) bool {
	return IsAdmin(r.Role)
}

// CanSubmitReview requires ownership, a completed order and no prior review.
// Callers that need to report which condition failed check them one by one.
func CanSubmitReview(r Requester, order *models.Order, hasReview bool) bool {
	return IsOwner(r.ID, order.UserID) && order.Status == models.StatusCompleted && !hasReview
}
