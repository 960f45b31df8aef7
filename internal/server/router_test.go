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

	"fintrack/internal/config"
	"fintrack/internal/entryparser"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/testutil"
	"fintrack/internal/validator"
)

const testPipelineKey = "pipeline-test-key"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// testApp holds the full application stack backed by an isolated SQLite.
type testApp struct {
	Router *gin.Engine
}

func setupApp(t *testing.T, pipelineKey string) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		JWTSecret:        "integration-secret",
		JWTExpirationDur: 15 * time.Minute,
		PipelineAPIKey:   pipelineKey,
		DefaultCurrency:  "INR",
	}
	svc := NewServices(db, entryparser.New(cfg), cfg.DefaultCurrency)
	router := NewRouter(cfg, db, svc, middleware.NewTokenManager(cfg))
	return &testApp{Router: router}
}

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

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access and refresh tokens.
func (app *testApp) registerUser(t *testing.T, email string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","first_name":"Test","last_name":"User"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

func assertAmount(t *testing.T, got interface{}, want string) {
	t.Helper()
	f, ok := got.(float64)
	if !ok {
		t.Fatalf("expected JSON number, got %T (%v)", got, got)
	}
	if !decimal.NewFromFloat(f).Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %v", want, f)
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	app := setupApp(t, "")

	t.Run("health", func(t *testing.T) {
		rec := app.request("GET", "/api/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["status"] != "ok" {
			t.Errorf("expected status ok, got %s", rec.Body.String())
		}
	})

	t.Run("metrics", func(t *testing.T) {
		app.request("GET", "/api/health", "", "")
		rec := app.request("GET", "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "fintrack_http_requests_total") {
			t.Error("expected request counter in metrics output")
		}
	})

	t.Run("swagger doc", func(t *testing.T) {
		rec := app.request("GET", "/swagger/doc.json", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		doc := parseJSON(t, rec)
		if doc["basePath"] != "/api/v1" {
			t.Errorf("expected basePath /api/v1, got %v", doc["basePath"])
		}
		if _, ok := doc["paths"].(map[string]interface{})["/budgets/{id}/progress"]; !ok {
			t.Error("expected budget progress path in swagger doc")
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("pipeline disabled without key", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/pipeline/budgets/rollover", "", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestAuthFlow_RegisterProfileRefresh(t *testing.T) {
	app := setupApp(t, "")
	access, refresh := app.registerUser(t, "auth@test.com")

	rec := app.request("GET", "/api/v1/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}

	rec = app.request("POST", "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The old refresh token was rotated out.
	rec = app.request("POST", "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for reused refresh token, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/auth/login", `{"email":"auth@test.com","password":"wrongpass"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestBudgetFlow_SpendingTracksTransactions(t *testing.T) {
	app := setupApp(t, testPipelineKey)
	token, _ := app.registerUser(t, "budget@test.com")

	// Step 1: Create a Food budget
	rec := app.request("POST", "/api/v1/budgets", `{"category":"Food","monthly_limit":1000}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	// Step 2: Record an expense through quick entry
	rec = app.request("POST", "/api/v1/transactions/quick", `{"text":"spent 250 on lunch today"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if tx["category"] != "Food" || tx["type"] != "expense" || tx["currency"] != "INR" {
		t.Errorf("unexpected parsed transaction: %v", tx)
	}
	txID := tx["id"].(string)

	// Step 3: Record a manual expense in the same category
	today := time.Now().UTC().Format("2006-01-02")
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"type":"expense","amount":650,"category":"Food","description":"Groceries","date":%q}`, today), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 4: Budget progress reflects both
	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assertAmount(t, parseJSON(t, rec)["budget"].(map[string]interface{})["current_spent"], "900")

	// Step 5: Deleting a transaction lowers the spent amount
	rec = app.request("DELETE", "/api/v1/transactions/"+txID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
	assertAmount(t, parseJSON(t, rec)["budget"].(map[string]interface{})["current_spent"], "650")

	// Step 6: The rollover job recomputes every budget
	req := httptest.NewRequest("POST", "/api/v1/pipeline/budgets/rollover", nil)
	req.Header.Set("X-API-Key", testPipelineKey)
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["updated"].(float64) != 1 {
		t.Errorf("expected 1 budget updated, got %v", rec.Body.String())
	}

	// Step 7: Duplicate category is rejected regardless of case
	rec = app.request("POST", "/api/v1/budgets", `{"category":"food","monthly_limit":500}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionFlow_ListExportAndDashboard(t *testing.T) {
	app := setupApp(t, "")
	token, _ := app.registerUser(t, "flow@test.com")

	for _, body := range []string{
		`{"type":"income","amount":5000,"category":"Salary","description":"October salary"}`,
		`{"type":"expense","amount":1200,"category":"Bills","description":"Electricity"}`,
		`{"type":"lend","amount":300,"category":"Loan","description":"Ravi"}`,
	} {
		rec := app.request("POST", "/api/v1/transactions", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("list filters by type", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions?type=expense", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 expense, got %v", result["total_items"])
		}
	})

	t.Run("export returns csv", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/transactions/export", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
			t.Errorf("expected text/csv, got %q", rec.Header().Get("Content-Type"))
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 4 {
			t.Errorf("expected header + 3 rows, got %d lines", len(lines))
		}
	})

	t.Run("dashboard totals", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/dashboard", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		dashboard := parseJSON(t, rec)["dashboard"].(map[string]interface{})
		assertAmount(t, dashboard["total_income"], "5000")
		assertAmount(t, dashboard["total_expenses"], "1200")
	})

	t.Run("other users see nothing", func(t *testing.T) {
		other, _ := app.registerUser(t, "other@test.com")
		rec := app.request("GET", "/api/v1/transactions", "", other)
		if parseJSON(t, rec)["total_items"].(float64) != 0 {
			t.Errorf("expected no transactions for another user, got %s", rec.Body.String())
		}
	})
}
