package services

import (
	"testing"

	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seedYAML = `
admin:
  name: Site Admin
  email: Admin@Example.com
  password: changeme
services:
  - name: Plumbing
    description: Pipes and fixtures
    icon: wrench
    price: "$49"
  - name: Electrical
    description: Wiring
  - name: ""
locations:
  - city: Austin
  - city: Austin
    area: Downtown
    pincode: "78701"
`

func TestApplySeed(t *testing.T) {
	db := testutil.NewTestDB(t)

	seed, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	summary, err := ApplySeed(ctx, db, seed)
	require.NoError(t, err)
	assert.True(t, summary.Admin)
	assert.Equal(t, 2, summary.Services)
	assert.Equal(t, 2, summary.Locations)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme")))

	var plumbing models.Service
	require.NoError(t, db.Where("name = ?", "Plumbing").First(&plumbing).Error)
	assert.True(t, plumbing.Active)
	assert.Equal(t, "$49", *plumbing.Price)

	again, err := ApplySeed(ctx, db, seed)
	require.NoError(t, err)
	assert.False(t, again.Admin)
	assert.Zero(t, again.Services)
	assert.Zero(t, again.Locations)

	var users, services, locations int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Service{}).Count(&services)
	db.Model(&models.AvailableLocation{}).Count(&locations)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(2), services)
	assert.Equal(t, int64(2), locations)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := ParseSeed([]byte("services: [unterminated"))
	assert.Error(t, err)
}
