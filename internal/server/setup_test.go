package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendbook/internal/config"
	"spendbook/internal/logger"
	"spendbook/internal/metrics"
	"spendbook/internal/services"
	"spendbook/internal/testutil"
	"spendbook/internal/validator"
)

const (
	ownerPassword = "correct horse battery"
	metricsKey    = "scrape-key"
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

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &config.Config{
		AuthEnabled:       true,
		JWTSecret:         "integration-secret",
		JWTExpirationDur:  time.Hour,
		OwnerPasswordHash: string(hash),
		MetricsAPIKey:     metricsKey,
		Theme:             config.ThemeDark,
	}
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database. The report clock is pinned to 2024-06-15.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	cfg := testConfig(t)
	config.Set(cfg)

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	clock := services.WithClock(func() time.Time {
		return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
	router := NewRouter(cfg, db, metrics.New(), clock)
	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
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

func errorCode(result map[string]interface{}) interface{} {
	errObj, _ := result["error"].(map[string]interface{})
	return errObj["code"]
}

// login exchanges the owner password for a token.
func (app *testApp) login(t *testing.T) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"password":%q}`, ownerPassword), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createCategory creates a category and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// createExpense creates an expense and returns its ID.
func (app *testApp) createExpense(t *testing.T, token, categoryID, amount, date string) string {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%q,"description":"Expense on %s","category_id":%q,"date":%q}`, amount, date, categoryID, date)
	rec := app.request("POST", "/api/v1/expenses", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)
}

// assertDecimal compares a JSON decimal (encoded as a string) numerically.
func assertDecimal(t *testing.T, label string, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Errorf("%s: expected decimal string, got %v", label, got)
		return
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, s)
	}
}
