package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// PipelineHandler serves the endpoints called by scheduled jobs rather than
// users. Routes are guarded by the X-API-Key middleware.
type PipelineHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *PipelineHandler {
	return &PipelineHandler{budgetService: budgetService, auditService: auditService}
}

// RolloverBudgets recomputes every budget for the current period
// @Summary     Roll budgets over
// @Description Recompute current spending of every budget of every user for the current month or year. Meant to run on the first day of each month.
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]int "Number of budgets updated"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/budgets/rollover [post]
func (h *PipelineHandler) RolloverBudgets(c *gin.Context) {
	updated, err := h.budgetService.Rollover()
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("", "ROLLOVER_BUDGETS", "budget", "", c.ClientIP(),
		map[string]interface{}{"updated": updated})

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
