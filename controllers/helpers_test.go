package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db := testutil.NewTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:           "test",
		JWTSecret:       "controller-secret",
		JWTIssuer:       "booking-api",
		JWTAudience:     "booking-api-clients",
		JWTTTL:          time.Hour,
		PaymentCurrency: "usd",
	})
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decode(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %s", w.Body.String())
	return errObj["code"].(string)
}

// testUsers creates an admin and two customers
func testUsers(t *testing.T, db *gorm.DB) (admin, alice, bob models.User) {
	admin = testutil.CreateUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)
	alice = testutil.CreateUser(t, db, "Alice", "alice@example.com", models.RoleCustomer)
	bob = testutil.CreateUser(t, db, "Bob", "bob@example.com", models.RoleCustomer)
	return
}

// asUser returns a router whose requests are authenticated as user
func asUser(user models.User, register func(r gin.IRoutes)) *gin.Engine {
	router := setupTestRouter()
	register(router.Group("", testutil.MockAuth(user)))
	return router
}
