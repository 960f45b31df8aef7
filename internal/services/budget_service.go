package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

const (
	maxCategoryLength = 50
	rolloverBatchSize = 100
)

var hundred = decimal.NewFromInt(100)

// budgetService handles budget-related business logic.
type budgetService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db, now: time.Now}
}

// CreateBudget creates a budget and computes its spending so far in the
// current period.
func (s *budgetService) CreateBudget(userID string, in CreateBudgetInput) (*models.Budget, error) {
	category := strings.TrimSpace(in.Category)
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if !in.MonthlyLimit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must be greater than zero")
	}

	period := in.Period
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or yearly")
	}

	threshold := in.AlertThreshold
	if threshold == 0 {
		threshold = models.DefaultAlertThreshold
	}
	if threshold < 1 || threshold > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert threshold must be between 1 and 100")
	}

	if err := s.ensureUnique(userID, category, period, ""); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:         userID,
		Category:       category,
		MonthlyLimit:   in.MonthlyLimit,
		Period:         period,
		AlertThreshold: threshold,
		Description:    strings.TrimSpace(in.Description),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recompute(tx, budget, s.now())
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// ensureUnique rejects a second budget for the same category and period.
// excludeID skips the budget being updated.
func (s *budgetService) ensureUnique(userID, category string, period models.BudgetPeriod, excludeID string) error {
	q := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND LOWER(category) = ? AND period = ?", userID, strings.ToLower(category), period)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateBudget
	}
	return nil
}

// GetUserBudgets returns a paginated list of budgets for the user with an optional period filter.
func (s *budgetService) GetUserBudgets(
	userID string,
	page pagination.PageRequest,
	period *models.BudgetPeriod,
) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if period != nil {
		base = base.Where("period = ?", *period)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("category ASC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields and recomputes its spending.
func (s *budgetService) UpdateBudget(userID, budgetID string, in UpdateBudgetInput) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	category, period := budget.Category, budget.Period
	if in.Category != nil {
		category = strings.TrimSpace(*in.Category)
		if err := validateCategory(category); err != nil {
			return nil, err
		}
		updates["category"] = category
	}
	if in.Period != nil {
		if *in.Period != models.BudgetPeriodMonthly && *in.Period != models.BudgetPeriodYearly {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or yearly")
		}
		period = *in.Period
		updates["period"] = period
	}
	if in.MonthlyLimit != nil {
		if !in.MonthlyLimit.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly limit must be greater than zero")
		}
		updates["monthly_limit"] = *in.MonthlyLimit
	}
	if in.AlertThreshold != nil {
		if *in.AlertThreshold < 1 || *in.AlertThreshold > 100 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "alert threshold must be between 1 and 100")
		}
		updates["alert_threshold"] = *in.AlertThreshold
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}

	if in.Category != nil || in.Period != nil {
		if err := s.ensureUnique(userID, category, period, budget.ID); err != nil {
			return nil, err
		}
	}

	if len(updates) == 0 {
		return budget, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recompute(tx, budget, s.now())
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress calculates spending vs budget for the current period.
// Percentage is uncapped; Usage is capped at 100 for progress bars. Reaching
// the alert threshold reports a warning.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	start, end := analytics.PeriodBounds(budget.Period, now)
	spent, err := spentInPeriod(s.db, userID, budget.Category, budget.Period, now)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if budget.MonthlyLimit.IsPositive() {
		percentage = analytics.Round1(spent.Div(budget.MonthlyLimit).Mul(hundred).InexactFloat64())
	}

	remaining := budget.MonthlyLimit.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	alert := percentage >= float64(budget.AlertThreshold)
	status := analytics.BudgetStatus(percentage, budget.AlertThreshold)
	if alert && status == analytics.StatusGood {
		status = analytics.StatusWarning
	}

	return &BudgetProgress{
		BudgetID:       budget.ID,
		Category:       budget.Category,
		Period:         budget.Period,
		PeriodStart:    start,
		PeriodEnd:      end.AddDate(0, 0, -1),
		Budgeted:       budget.MonthlyLimit,
		Spent:          spent,
		Remaining:      remaining,
		Percentage:     percentage,
		Usage:          analytics.Round1(analytics.BudgetUsage(spent, budget.MonthlyLimit)),
		Status:         status,
		AlertThreshold: budget.AlertThreshold,
		Alert:          alert,
	}, nil
}

// RefreshSpent recomputes current_spent for the user's budgets in the given
// categories, or all of them when none are given. tx is the caller's
// database transaction.
func (s *budgetService) RefreshSpent(tx *gorm.DB, userID string, categories ...string) error {
	q := tx.Where("user_id = ?", userID)
	if len(categories) > 0 {
		q = q.Where("category IN ?", categories)
	}

	var budgets []models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	for i := range budgets {
		if err := s.recompute(tx, &budgets[i], now); err != nil {
			return err
		}
	}
	return nil
}

// Rollover recomputes every budget of every user for the current period.
// It returns the number of budgets updated.
func (s *budgetService) Rollover() (int, error) {
	now := s.now()
	var updated int
	var batch []models.Budget

	result := s.db.FindInBatches(&batch, rolloverBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			if err := s.recompute(s.db, &batch[i], now); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if result.Error != nil {
		var appErr *apperrors.AppError
		if errors.As(result.Error, &appErr) {
			return updated, appErr
		}
		return updated, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	metrics.BudgetRollovers.Add(float64(updated))
	y, m, _ := now.UTC().Date()
	logger.Get().Infow("budgets rolled over", "count", updated, "year", y, "month", int(m))
	return updated, nil
}

// recompute stores the budget's spending in the period containing now.
func (s *budgetService) recompute(db *gorm.DB, budget *models.Budget, now time.Time) error {
	now = now.UTC()
	spent, err := spentInPeriod(db, budget.UserID, budget.Category, budget.Period, now)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"current_spent": spent,
		"month":         int(now.Month()),
		"year":          now.Year(),
	}
	if err := db.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.CurrentSpent = spent
	budget.Month = int(now.Month())
	budget.Year = now.Year()
	return nil
}

// spentInPeriod loads the category's expenses in the period containing now
// and sums them.
func spentInPeriod(db *gorm.DB, userID, category string, period models.BudgetPeriod, now time.Time) (decimal.Decimal, error) {
	start, end := analytics.PeriodBounds(period, now)
	var txs []models.Transaction
	if err := db.Where("user_id = ? AND category = ? AND type = ? AND date >= ? AND date < ?",
		userID, category, models.TransactionTypeExpense, start, end).
		Find(&txs).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return analytics.SpentInPeriod(txs, category, period, now).Round(2), nil
}

func validateCategory(category string) error {
	if category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if len([]rune(category)) > maxCategoryLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be at most 50 characters")
	}
	return nil
}
