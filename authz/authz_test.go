package authz

import (
	"testing"

	"github.com/homeservices/booking-api/models"
	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(3, 3))
	assert.False(t, IsOwner(3, 4))
	assert.False(t, IsOwner(0, 0), "anonymous callers own nothing")
}

func TestCanViewOrder(t *testing.T) {
	order := &models.Order{ID: 1, UserID: 10}

	tests := []struct {
		name      string
		requester Requester
		want      bool
	}{
		{"owner", Requester{ID: 10, Role: models.RoleCustomer}, true},
		{"admin", Requester{ID: 99, Role: models.RoleAdmin}, true},
		{"other customer", Requester{ID: 11, Role: models.RoleCustomer}, false},
		{"anonymous", Requester{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewOrder(tt.requester, order))
		})
	}
}

func TestAdminOnlyPredicates(t *testing.T) {
	admin := Requester{ID: 1, Role: models.RoleAdmin}
	customer := Requester{ID: 2, Role: models.RoleCustomer}

	assert.True(t, CanMutateOrderStatus(admin))
	assert.False(t, CanMutateOrderStatus(customer))
	assert.True(t, CanManageCatalogOrLocations(admin))
	assert.False(t, CanManageCatalogOrLocations(customer))
	assert.True(t, CanManageUsers(admin))
	assert.False(t, CanManageUsers(Requester{}))
}

func TestCanSubmitReview(t *testing.T) {
	owner := Requester{ID: 10, Role: models.RoleCustomer}

	tests := []struct {
		name      string
		requester Requester
		status    models.OrderStatus
		hasReview bool
		want      bool
	}{
		{"owner on completed order", owner, models.StatusCompleted, false, true},
		{"already reviewed", owner, models.StatusCompleted, true, false},
		{"order still processing", owner, models.StatusProcessing, false, false},
		{"order on the way", owner, models.StatusOnWay, false, false},
		{"order cancelled", owner, models.StatusCancelled, false, false},
		{"admin is not the owner", Requester{ID: 1, Role: models.RoleAdmin}, models.StatusCompleted, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{UserID: 10, Status: tt.status}
			assert.Equal(t, tt.want, CanSubmitReview(tt.requester, order, tt.hasReview))
		})
	}
}
