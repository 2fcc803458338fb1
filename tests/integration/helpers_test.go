package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/routes"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// apiSuite runs requests through the full router against a fresh in-memory
// database per test
type apiSuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	router *gin.Engine
}

func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(s.T())

	os.Setenv("JWT_SECRET", "integration-secret")
	os.Setenv("RATE_LIMIT_RPS", "1000")
	os.Setenv("RATE_LIMIT_BURST", "1000")

	cfg, err := config.Load()
	s.Require().NoError(err)
	s.cfg = cfg
}

func (s *apiSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	config.SetDB(s.db)
	config.SetConfig(s.cfg)
	s.router = routes.SetupRouter(s.cfg)
}

// request sends body as JSON with an optional bearer token and decodes the envelope
func (s *apiSuite) request(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *apiSuite) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w, response
}

// register signs up a customer through the API and returns their token
func (s *apiSuite) register(name, email string) string {
	w, _ := s.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, response := s.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return data(response)["token"].(string)
}

// admin creates an admin account directly and returns a token for it
func (s *apiSuite) admin() (models.User, string) {
	user := testutil.CreateUser(s.T(), s.db, "Admin", "admin@example.com", models.RoleAdmin)
	return user, testutil.IssueToken(s.T(), s.cfg, user)
}

func data(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	return errObj["code"].(string)
}
