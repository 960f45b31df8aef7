package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(userID string, in services.CreateBudgetInput) (*models.Budget, error)
	getUserBudgetsFn    func(userID string, page pagination.PageRequest, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn     func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn      func(userID, budgetID string, in services.UpdateBudgetInput) (*models.Budget, error)
	deleteBudgetFn      func(userID, budgetID string) error
	getBudgetProgressFn func(userID, budgetID string) (*services.BudgetProgress, error)
	rolloverFn          func() (int, error)
}

func (m *mockBudgetService) CreateBudget(userID string, in services.CreateBudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page, period)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID string, in services.UpdateBudgetInput) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID string) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{}, nil
}

func (m *mockBudgetService) RefreshSpent(_ *gorm.DB, _ string, _ ...string) error {
	return nil
}

func (m *mockBudgetService) Rollover() (int, error) {
	if m.rolloverFn != nil {
		return m.rolloverFn()
	}
	return 0, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.GET("/budgets/:id/progress", handler.GetBudgetProgress)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(userID string, in services.CreateBudgetInput) (*models.Budget, error) {
				return &models.Budget{
					Base:           models.Base{ID: testResourceID},
					UserID:         userID,
					Category:       in.Category,
					MonthlyLimit:   in.MonthlyLimit,
					Period:         models.BudgetPeriodMonthly,
					AlertThreshold: models.DefaultAlertThreshold,
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewBudgetHandler(svc, audit)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","monthly_limit":"5000"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["category"] != "Food" {
			t.Errorf("expected Food, got %v", budget["category"])
		}
		if budget["monthly_limit"] != float64(5000) {
			t.Errorf("expected monthly_limit 5000, got %v", budget["monthly_limit"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_BUDGET" {
			t.Errorf("expected CREATE_BUDGET audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"missing category", `{"monthly_limit":"5000"}`},
			{"zero limit", `{"category":"Food","monthly_limit":"0"}`},
			{"unknown period", `{"category":"Food","monthly_limit":"5000","period":"weekly"}`},
			{"threshold above 100", `{"category":"Food","monthly_limit":"5000","alert_threshold":120}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))
				rec := doRequest(r, "POST", "/budgets", tt.body)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
				}
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			})
		}
	})

	t.Run("returns 409 on duplicate budget", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ string, _ services.CreateBudgetInput) (*models.Budget, error) {
				return nil, apperrors.ErrDuplicateBudget
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","monthly_limit":"5000","period":"monthly"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_EXISTS")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/budgets", handler.CreateBudget)

		rec := doRequest(r, "POST", "/budgets", `{"category":"Food","monthly_limit":"5000"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("returns 200 with period filter", func(t *testing.T) {
		svc := &mockBudgetService{
			getUserBudgetsFn: func(_ string, _ pagination.PageRequest, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error) {
				if period == nil || *period != models.BudgetPeriodYearly {
					t.Errorf("expected yearly filter, got %v", period)
				}
				resp := pagination.NewPageResponse([]models.Budget{{Category: "Travel"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets?period=yearly", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total_items"] != float64(1) {
			t.Errorf("expected 1 item, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on unknown period", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets?period=weekly", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*models.Budget, error) { return nil, apperrors.ErrBudgetNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets/"+testResourceID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets/7", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("passes only the given fields", func(t *testing.T) {
		var got services.UpdateBudgetInput
		svc := &mockBudgetService{
			updateBudgetFn: func(_, id string, in services.UpdateBudgetInput) (*models.Budget, error) {
				got = in
				return &models.Budget{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/budgets/"+testResourceID, `{"alert_threshold":90}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.AlertThreshold == nil || *got.AlertThreshold != 90 {
			t.Errorf("expected threshold 90, got %v", got.AlertThreshold)
		}
		if got.Category != nil || got.MonthlyLimit != nil || got.Period != nil {
			t.Error("expected untouched fields to stay nil")
		}
	})

	t.Run("returns 400 on zero threshold", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/budgets/"+testResourceID, `{"alert_threshold":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/budgets/"+testResourceID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgetProgress(t *testing.T) {
	t.Run("returns 200 with progress", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetProgressFn: func(_, id string) (*services.BudgetProgress, error) {
				return &services.BudgetProgress{
					BudgetID:       id,
					Category:       "Food",
					Period:         models.BudgetPeriodMonthly,
					PeriodStart:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
					PeriodEnd:      time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
					Budgeted:       decimal.NewFromInt(500),
					Spent:          decimal.NewFromInt(400),
					Remaining:      decimal.NewFromInt(100),
					Percentage:     80,
					Usage:          80,
					Status:         "warning",
					AlertThreshold: 80,
					Alert:          true,
				}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets/"+testResourceID+"/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		progress := parseJSON(t, rec)["progress"].(map[string]interface{})
		if progress["status"] != "warning" {
			t.Errorf("expected warning, got %v", progress["status"])
		}
		if progress["alert"] != true {
			t.Errorf("expected alert, got %v", progress["alert"])
		}
		if progress["spent"] != float64(400) {
			t.Errorf("expected spent 400, got %v", progress["spent"])
		}
	})
}
