package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// AnalyticsHandler serves the dashboard and report endpoints.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// respond runs fetch for the authenticated user and writes its result
// under key.
func (h *AnalyticsHandler) respond(c *gin.Context, key string, fetch func(userID string) (interface{}, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := fetch(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{key: data})
}

// GetDashboard returns the home page summary
// @Summary     Dashboard
// @Description All-time totals, income/expense shares, the last six months, category spending, recent transactions, tagged goal progress and loan balances
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.DashboardData "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	h.respond(c, "dashboard", func(userID string) (interface{}, error) {
		return h.analyticsService.GetDashboard(userID)
	})
}

// GetOverview returns the analytics landing page
// @Summary     Analytics overview
// @Description All-time totals with a savings rating, this month's metrics, the top 3 insights, the top 5 categories, the largest transactions and goal totals
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Overview "Overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/overview [get]
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	h.respond(c, "overview", func(userID string) (interface{}, error) {
		return h.analyticsService.GetOverview(userID)
	})
}

// GetMetrics returns month-over-month metrics
// @Summary     Metrics
// @Description Current month totals, change against last month, the last four weeks and category trends
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.MetricsData "Metrics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/metrics [get]
func (h *AnalyticsHandler) GetMetrics(c *gin.Context) {
	h.respond(c, "metrics", func(userID string) (interface{}, error) {
		return h.analyticsService.GetMetrics(userID)
	})
}

// GetInsights returns spending insights
// @Summary     Insights
// @Description Warnings, tips and achievements derived from the transaction history
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.Insight "Insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/insights [get]
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	h.respond(c, "insights", func(userID string) (interface{}, error) {
		return h.analyticsService.GetInsights(userID)
	})
}

// GetBudgetAnalysis compares this month's spending with the budgets
// @Summary     Budget analysis
// @Description This month's spending per category against the user's monthly budgets
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  analytics.CategoryBudget "Budget analysis"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/budgets [get]
func (h *AnalyticsHandler) GetBudgetAnalysis(c *gin.Context) {
	h.respond(c, "budgets", func(userID string) (interface{}, error) {
		return h.analyticsService.GetBudgetAnalysis(userID)
	})
}

// GetCharts returns the chart series
// @Summary     Charts
// @Description Twelve-month trend, category pie and four-week comparison
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Charts "Charts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/charts [get]
func (h *AnalyticsHandler) GetCharts(c *gin.Context) {
	h.respond(c, "charts", func(userID string) (interface{}, error) {
		return h.analyticsService.GetCharts(userID)
	})
}
