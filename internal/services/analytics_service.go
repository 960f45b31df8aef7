package services

import (
	"bytes"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/models"
)

const (
	overviewInsights   = 3
	overviewCategories = 5
	overviewLargest    = 5
)

// analyticsService loads a user's records and hands them to the analytics
// reductions.
type analyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db, now: time.Now}
}

// transactions returns every transaction of the user, oldest first.
func (s *analyticsService) transactions(userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("date ASC").
		Order("created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// GetDashboard returns the dashboard data set.
func (s *analyticsService) GetDashboard(userID string) (*analytics.DashboardData, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}
	data := analytics.Dashboard(txs, s.now())
	return &data, nil
}

// GetMetrics returns month-over-month metrics.
func (s *analyticsService) GetMetrics(userID string) (*analytics.MetricsData, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}
	data := analytics.Metrics(txs, s.now())
	return &data, nil
}

// GetInsights returns spending insights over all time.
func (s *analyticsService) GetInsights(userID string) ([]analytics.Insight, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}
	return analytics.Insights(txs), nil
}

// GetBudgetAnalysis compares this month's spending with the user's monthly
// budgets.
func (s *analyticsService) GetBudgetAnalysis(userID string) ([]analytics.CategoryBudget, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND period = ?", userID, models.BudgetPeriodMonthly).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	limits := make(map[string]analytics.BudgetLimit, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = analytics.BudgetLimit{Limit: b.MonthlyLimit, AlertThreshold: b.AlertThreshold}
	}
	return analytics.BudgetAnalysis(txs, limits, s.now()), nil
}

// GetCharts returns the chart series.
func (s *analyticsService) GetCharts(userID string) (*analytics.Charts, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}
	charts := analytics.BuildCharts(txs, s.now())
	return &charts, nil
}

// GetOverview returns all-time totals, this month's metrics, the top
// insights and categories, the largest transactions and goal totals.
func (s *analyticsService) GetOverview(userID string) (*Overview, error) {
	txs, err := s.transactions(userID)
	if err != nil {
		return nil, err
	}

	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	summary := analytics.Totals(txs)
	insights := analytics.Insights(txs)
	if len(insights) > overviewInsights {
		insights = insights[:overviewInsights]
	}

	overview := &Overview{
		Summary:             summary,
		Rating:              analytics.SavingsRating(summary.SavingsRate),
		Stats:               analytics.Stats(txs),
		Metrics:             analytics.Metrics(txs, now),
		Insights:            insights,
		TopCategories:       analytics.TopCategories(analytics.CategoryBreakdown(txs), overviewCategories),
		LargestTransactions: analytics.LargestTransactions(txs, overviewLargest),
	}
	for _, g := range goals {
		switch g.Status {
		case models.GoalStatusActive:
			overview.Goals.Active++
		case models.GoalStatusCompleted:
			overview.Goals.Completed++
		}
		overview.Goals.TotalTarget = overview.Goals.TotalTarget.Add(g.TargetAmount)
		overview.Goals.TotalSaved = overview.Goals.TotalSaved.Add(g.CurrentAmount)
	}
	return overview, nil
}

// ExportCSV renders the user's transactions, newest first, and returns the
// file body with its download name.
func (s *analyticsService) ExportCSV(userID string) ([]byte, string, error) {
	var txs []models.Transaction
	if err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(txs) == 0 {
		return nil, "", apperrors.ErrNoTransactions
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), export.FileName(s.now()), nil
}
