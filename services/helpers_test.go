package services

import (
	"context"
	"testing"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func requesterFor(u models.User) authz.Requester {
	return authz.Requester{ID: u.ID, Role: u.Role}
}

// fixture is a seeded database with one admin, two customers and one active service
type fixture struct {
	db      *gorm.DB
	admin   models.User
	alice   models.User
	bob     models.User
	service models.Service
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	return &fixture{
		db:      db,
		admin:   testutil.CreateUser(t, db, "Admin", "admin@example.com", models.RoleAdmin),
		alice:   testutil.CreateUser(t, db, "Alice", "alice@example.com", models.RoleCustomer),
		bob:     testutil.CreateUser(t, db, "Bob", "bob@example.com", models.RoleCustomer),
		service: testutil.CreateService(t, db, "Plumbing", true),
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind) *AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := AsAppError(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	require.Equal(t, kind, appErr.Kind, appErr.Message)
	return appErr
}
