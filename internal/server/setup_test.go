package server_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"civicbudget/internal/logger"
	"civicbudget/internal/middleware"
	"civicbudget/internal/server"
	"civicbudget/internal/testutil"
	"civicbudget/internal/validator"
)

const (
	testJWTSecret = "test-secret"
	testAPIKey    = "eval-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp builds the router over an isolated in-memory SQLite database.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	router := server.NewRouter(db, server.Options{
		JWTSecret:          testJWTSecret,
		EvaluatorAPIKey:    testAPIKey,
		InvestmentsPerPage: 10,
	})
	return &testApp{DB: db, Router: router}
}

// reqOption customizes a test request.
type reqOption func(r *requestConfig)

type requestConfig struct {
	headers map[string]string
}

func withToken(token string) reqOption {
	return func(r *requestConfig) { r.headers["Authorization"] = "Bearer " + token }
}

func withAPIKey() reqOption {
	return func(r *requestConfig) { r.headers["X-API-Key"] = testAPIKey }
}

func withSession(id string) reqOption {
	return func(r *requestConfig) { r.headers[middleware.SessionHeader] = id }
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string, opts ...reqOption) *httptest.ResponseRecorder {
	r := &requestConfig{headers: map[string]string{}}
	for _, opt := range opts {
		opt(r)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// tokenFor mints an access token for userID.
func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(testJWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// expectStatus fails the test when rec does not carry want.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// errorCode extracts error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected an error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// listIDs returns the ids of a listing response in order.
func listIDs(t *testing.T, rec *httptest.ResponseRecorder) []uint {
	t.Helper()
	data, ok := parseJSON(t, rec)["data"].([]interface{})
	if !ok {
		t.Fatalf("expected a data array, got %s", rec.Body.String())
	}
	ids := make([]uint, len(data))
	for i, item := range data {
		ids[i] = uint(item.(map[string]interface{})["id"].(float64))
	}
	return ids
}
