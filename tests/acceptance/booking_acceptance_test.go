package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/routes"
	"github.com/homeservices/booking-api/services"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const seedPath = "../../seed.example.yaml"

// BookingAcceptanceTestSuite exercises the booking journey over a real HTTP server
type BookingAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *BookingAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())

	os.Setenv("JWT_SECRET", "acceptance-secret")
	os.Setenv("RATE_LIMIT_RPS", "1000")
	os.Setenv("RATE_LIMIT_BURST", "1000")

	cfg, err := config.Load()
	suite.Require().NoError(err)
	suite.cfg = cfg
}

// SetupTest starts a server over a freshly seeded database
func (suite *BookingAcceptanceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	config.SetDB(suite.db)
	config.SetConfig(suite.cfg)

	seed, err := services.LoadSeedFile(seedPath)
	suite.Require().NoError(err)
	_, err = services.ApplySeed(context.Background(), suite.db, seed)
	suite.Require().NoError(err)

	suite.server = httptest.NewServer(routes.SetupRouter(suite.cfg))
}

// TearDownTest stops the server
func (suite *BookingAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

// makeRequest is a helper to make HTTP requests
func (suite *BookingAcceptanceTestSuite) makeRequest(method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyJSON, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyJSON)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req, err := http.NewRequest(method, suite.server.URL+path, bodyReader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var responseData map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&responseData))
	return resp, responseData
}

func (suite *BookingAcceptanceTestSuite) login(email, password string) string {
	resp, respData := suite.makeRequest("POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	suite.Require().Equal(http.StatusOK, resp.StatusCode, respData)
	return respData["data"].(map[string]interface{})["token"].(string)
}

// TestCompleteBookingWorkflow_Acceptance follows a customer from sign-up to review
func (suite *BookingAcceptanceTestSuite) TestCompleteBookingWorkflow_Acceptance() {
	t := suite.T()

	// Step 1: Customer checks that their area is served
	resp, respData := suite.makeRequest("GET", "/api/v1/locations/check?city=austin&area=downtown", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	availability := respData["data"].(map[string]interface{})
	assert.Equal(t, true, availability["available"])
	location := availability["location"].(map[string]interface{})
	assert.Equal(t, "78701", location["pincode"])

	resp, respData = suite.makeRequest("GET", "/api/v1/locations/check?city=Houston", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, respData["data"].(map[string]interface{})["available"])

	// Step 2: Customer browses the catalog
	resp, respData = suite.makeRequest("GET", "/api/v1/services", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	catalog := respData["data"].([]interface{})
	assert.Len(t, catalog, 3)
	var plumbingID float64
	for _, entry := range catalog {
		service := entry.(map[string]interface{})
		if service["name"] == "Plumbing" {
			plumbingID = service["id"].(float64)
		}
	}
	suite.Require().NotZero(plumbingID)

	// Step 3: Customer registers and books
	resp, _ = suite.makeRequest("POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Dana",
		"email":    "dana@example.com",
		"password": "pa55word",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	customer := suite.login("dana@example.com", "pa55word")

	resp, respData = suite.makeRequest("POST", "/api/v1/orders", customer, map[string]interface{}{
		"service_id":     plumbingID,
		"address":        "500 Congress Ave",
		"city":           "Austin",
		"area":           "Downtown",
		"pincode":        "78701",
		"description":    "Water heater is leaking",
		"scheduled_date": "2026-11-02T09:00:00Z",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, respData)
	order := respData["data"].(map[string]interface{})
	orderID := int(order["id"].(float64))
	assert.Equal(t, "PROCESSING", order["status"])

	// Step 4: Admin signs in with the seeded account and works the order
	admin := suite.login("admin@homeservices.local", "change-me-now")

	resp, respData = suite.makeRequest("GET", "/api/v1/admin/orders?status=PROCESSING", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	pagination := respData["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])

	for _, status := range []string{"ON_WAY", "COMPLETED"} {
		resp, respData = suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/admin/orders/%d/status", orderID), admin, map[string]string{"status": status})
		suite.Require().Equal(http.StatusOK, resp.StatusCode, respData)
		assert.Equal(t, status, respData["data"].(map[string]interface{})["status"])
	}

	// Step 5: Customer reviews the finished job
	resp, respData = suite.makeRequest("POST", "/api/v1/reviews", customer, map[string]interface{}{
		"order_id": orderID,
		"rating":   5,
		"comment":  "On time and tidy",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, respData)

	resp, respData = suite.makeRequest("GET", "/api/v1/reviews/latest", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	latest := respData["data"].([]interface{})
	suite.Require().Len(latest, 1)
	assert.Equal(t, "Dana", latest[0].(map[string]interface{})["reviewer_name"])
	assert.Equal(t, "Plumbing", latest[0].(map[string]interface{})["service_name"])

	// Step 6: The dashboard reflects the journey
	resp, respData = suite.makeRequest("GET", "/api/v1/admin/stats", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stats := respData["data"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["total_users"])
	assert.Equal(t, float64(1), stats["completed_orders"])
	assert.Equal(t, float64(3), stats["active_locations"])
}

// TestRetiredServiceKeepsHistory_Acceptance removes a booked service from the catalog
func (suite *BookingAcceptanceTestSuite) TestRetiredServiceKeepsHistory_Acceptance() {
	t := suite.T()
	admin := suite.login("admin@homeservices.local", "change-me-now")

	resp, respData := suite.makeRequest("POST", "/api/v1/admin/services", admin, map[string]string{
		"name":        "Gutter Cleaning",
		"description": "Seasonal gutter clearing",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, respData)
	serviceID := int(respData["data"].(map[string]interface{})["id"].(float64))

	resp, _ = suite.makeRequest("POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Eli",
		"email":    "eli@example.com",
		"password": "pa55word",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	customer := suite.login("eli@example.com", "pa55word")

	resp, respData = suite.makeRequest("POST", "/api/v1/orders", customer, map[string]interface{}{
		"service_id":  serviceID,
		"address":     "9 Oak Ln",
		"city":        "Dallas",
		"description": "Gutters overflowing",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, respData)
	orderID := int(respData["data"].(map[string]interface{})["id"].(float64))

	resp, respData = suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/admin/services/%d", serviceID), admin, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, respData["data"].(map[string]interface{})["deactivated"])

	resp, respData = suite.makeRequest("GET", "/api/v1/services", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, respData["data"], 3)

	resp, respData = suite.makeRequest("GET", fmt.Sprintf("/api/v1/orders/%d", orderID), customer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	service := respData["data"].(map[string]interface{})["service"].(map[string]interface{})
	assert.Equal(t, "Gutter Cleaning", service["name"])
}

// TestAccountLifecycle_Acceptance covers sign-up, profile edits and admin removal
func (suite *BookingAcceptanceTestSuite) TestAccountLifecycle_Acceptance() {
	t := suite.T()

	resp, _ := suite.makeRequest("POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Fay",
		"email":    "fay@example.com",
		"password": "pa55word",
	})
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, respData := suite.makeRequest("POST", "/api/v1/auth/register", "", map[string]string{
		"name":     "Fay Again",
		"email":    "FAY@example.com",
		"password": "pa55word",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", respData["error"].(map[string]interface{})["code"])

	resp, _ = suite.makeRequest("POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "fay@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	customer := suite.login("fay@example.com", "pa55word")
	resp, respData = suite.makeRequest("PATCH", "/api/v1/users/me", customer, map[string]string{"phone": "512-555-0100"})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	userID := int(respData["data"].(map[string]interface{})["id"].(float64))

	admin := suite.login("admin@homeservices.local", "change-me-now")
	resp, _ = suite.makeRequest("DELETE", fmt.Sprintf("/api/v1/admin/users/%d", userID), admin, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, respData = suite.makeRequest("GET", "/api/v1/users/me", customer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", respData["error"].(map[string]interface{})["code"])
}

func TestBookingAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingAcceptanceTestSuite))
}
