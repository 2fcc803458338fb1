package integration

import (
	"net/http"
	"testing"

	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/suite"
)

// AuthIntegrationTestSuite covers token handling end to end
type AuthIntegrationTestSuite struct {
	apiSuite
}

func (s *AuthIntegrationTestSuite) TestPublicEndpoints() {
	for _, path := range []string{"/api/v1/health", "/api/v1/services", "/api/v1/reviews/latest"} {
		w, response := s.request(http.MethodGet, path, "", nil)
		s.Equal(http.StatusOK, w.Code, path)
		s.Equal(true, response["success"], path)
	}
}

func (s *AuthIntegrationTestSuite) TestProtectedEndpointRequiresToken() {
	w, _ := s.request(http.MethodGet, "/api/v1/users/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, response := s.request(http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("INVALID_TOKEN", errorCode(response))
}

func (s *AuthIntegrationTestSuite) TestRegisterLoginProfile() {
	token := s.register("Alice", "Alice@Example.com")

	w, response := s.request(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("alice@example.com", data(response)["email"])
	s.Equal("CUSTOMER", data(response)["role"])

	w, response = s.request(http.MethodPatch, "/api/v1/users/me", token, map[string]string{"address": "1 Elm St"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("1 Elm St", data(response)["address"])
}

func (s *AuthIntegrationTestSuite) TestCustomerCannotReachAdminRoutes() {
	token := s.register("Alice", "alice@example.com")

	for _, path := range []string{"/api/v1/admin/stats", "/api/v1/admin/orders", "/api/v1/admin/users"} {
		w, response := s.request(http.MethodGet, path, token, nil)
		s.Equal(http.StatusForbidden, w.Code, path)
		s.Equal("FORBIDDEN", errorCode(response), path)
	}
}

func (s *AuthIntegrationTestSuite) TestAdminReachesAdminRoutes() {
	_, token := s.admin()

	w, _ := s.request(http.MethodGet, "/api/v1/admin/stats", token, nil)
	s.Equal(http.StatusOK, w.Code)
}

// A token outlives the account it was issued for
func (s *AuthIntegrationTestSuite) TestDeletedUserToken() {
	user := testutil.CreateUser(s.T(), s.db, "Gone", "gone@example.com", models.RoleCustomer)
	token := testutil.IssueToken(s.T(), s.cfg, user)
	s.Require().NoError(s.db.Delete(&user).Error)

	w, response := s.request(http.MethodGet, "/api/v1/users/me", token, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("USER_NOT_FOUND", errorCode(response))
}

// The stored role wins over the role baked into an older token
func (s *AuthIntegrationTestSuite) TestDemotedAdminLosesAccess() {
	user, token := s.admin()
	s.Require().NoError(s.db.Model(&user).Update("role", models.RoleCustomer).Error)

	w, _ := s.request(http.MethodGet, "/api/v1/admin/users", token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func TestAuthIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationTestSuite))
}
