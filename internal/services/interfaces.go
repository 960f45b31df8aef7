package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/analytics"
	"fintrack/internal/entryparser"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CreateTransactionInput holds the fields of a new transaction. Zero values
// take defaults: today for Date, the configured currency for Currency and
// manual for Source.
type CreateTransactionInput struct {
	Type        models.TransactionType
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
	Time        string
	Goal        *models.GoalTag
	Source      models.EntrySource
}

// UpdateTransactionInput holds a partial update. Nil fields are left
// unchanged; ClearGoal removes the goal tag.
type UpdateTransactionInput struct {
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Currency    *string
	Category    *string
	Description *string
	Date        *time.Time
	Time        *string
	Goal        *models.GoalTag
	ClearGoal   bool
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Search   string
	Type     *models.TransactionType
	Category string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in CreateTransactionInput) (*models.Transaction, error)
	QuickEntry(ctx context.Context, userID, text string, source models.EntrySource) (*models.Transaction, error)
	ParseEntry(ctx context.Context, text string) (*entryparser.Entry, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, in UpdateTransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// CreateGoalInput holds the fields of a new goal.
type CreateGoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Category      models.GoalCategory
	Priority      models.GoalPriority
	Description   string
}

// UpdateGoalInput holds a partial goal update.
type UpdateGoalInput struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	Category      *models.GoalCategory
	Priority      *models.GoalPriority
	Description   *string
	Status        *models.GoalStatus
}

// GoalFilter narrows a goal listing.
type GoalFilter struct {
	Status   *models.GoalStatus
	Priority *models.GoalPriority
}

// GoalProgress reports how far a goal is from its target.
type GoalProgress struct {
	GoalID     string            `json:"goal_id"`
	Target     decimal.Decimal   `json:"target"`
	Current    decimal.Decimal   `json:"current"`
	Remaining  decimal.Decimal   `json:"remaining"`
	Percentage float64           `json:"percentage"`
	DaysLeft   *int              `json:"days_left,omitempty"`
	OnTrack    bool              `json:"on_track"`
	Status     models.GoalStatus `json:"status"`
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID string, in CreateGoalInput) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest, filter GoalFilter) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, in UpdateGoalInput) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	Contribute(userID, goalID string, amount decimal.Decimal) (*models.Goal, error)
	GetGoalProgress(userID, goalID string) (*GoalProgress, error)
}

// CreateBudgetInput holds the fields of a new budget. A zero AlertThreshold
// takes the default.
type CreateBudgetInput struct {
	Category       string
	MonthlyLimit   decimal.Decimal
	Period         models.BudgetPeriod
	AlertThreshold int
	Description    string
}

// UpdateBudgetInput holds a partial budget update.
type UpdateBudgetInput struct {
	Category       *string
	MonthlyLimit   *decimal.Decimal
	Period         *models.BudgetPeriod
	AlertThreshold *int
	Description    *string
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID       string              `json:"budget_id"`
	Category       string              `json:"category"`
	Period         models.BudgetPeriod `json:"period"`
	PeriodStart    time.Time           `json:"period_start"`
	PeriodEnd      time.Time           `json:"period_end"`
	Budgeted       decimal.Decimal     `json:"budgeted"`
	Spent          decimal.Decimal     `json:"spent"`
	Remaining      decimal.Decimal     `json:"remaining"`
	Percentage     float64             `json:"percentage"`
	Usage          float64             `json:"usage"`
	Status         string              `json:"status"`
	AlertThreshold int                 `json:"alert_threshold"`
	Alert          bool                `json:"alert"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in CreateBudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, in UpdateBudgetInput) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
	RefreshSpent(tx *gorm.DB, userID string, categories ...string) error
	Rollover() (int, error)
}

// GoalsOverview counts a user's goals and the money set aside for them.
type GoalsOverview struct {
	Active      int             `json:"active"`
	Completed   int             `json:"completed"`
	TotalTarget decimal.Decimal `json:"total_target"`
	TotalSaved  decimal.Decimal `json:"total_saved"`
}

// Overview is the analytics landing page.
type Overview struct {
	Summary             analytics.Summary          `json:"summary"`
	Rating              string                     `json:"rating"`
	Stats               analytics.TransactionStats `json:"stats"`
	Metrics             analytics.MetricsData      `json:"metrics"`
	Insights            []analytics.Insight        `json:"insights"`
	TopCategories       []analytics.CategoryAmount `json:"top_categories"`
	LargestTransactions []models.Transaction       `json:"largest_transactions"`
	Goals               GoalsOverview              `json:"goals"`
}

// AnalyticsServicer defines the contract for dashboard and report data.
type AnalyticsServicer interface {
	GetDashboard(userID string) (*analytics.DashboardData, error)
	GetMetrics(userID string) (*analytics.MetricsData, error)
	GetInsights(userID string) ([]analytics.Insight, error)
	GetBudgetAnalysis(userID string) ([]analytics.CategoryBudget, error)
	GetCharts(userID string) (*analytics.Charts, error)
	GetOverview(userID string) (*Overview, error)
	ExportCSV(userID string) ([]byte, string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
