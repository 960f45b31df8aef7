package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
)

// CategoryCatalog lists the categories clients can offer.
type CategoryCatalog struct {
	Expense         []string              `json:"expense"`
	Income          []string              `json:"income"`
	Loan            []string              `json:"loan"`
	GoalCategories  []models.GoalCategory `json:"goal_categories"`
	GoalPriorities  []models.GoalPriority `json:"goal_priorities"`
	DefaultCategory string                `json:"default_category"`
}

// CategoryHandler serves the fixed category catalogs.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories returns the category catalogs
// @Summary     Get categories
// @Description List the expense, income and loan categories and the goal categories and priorities
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryCatalog "Category catalogs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryCatalog{
		Expense:         models.CategoriesFor(models.TransactionTypeExpense),
		Income:          models.CategoriesFor(models.TransactionTypeIncome),
		Loan:            models.CategoriesFor(models.TransactionTypeLend),
		GoalCategories:  models.GoalCategories,
		GoalPriorities:  models.GoalPriorities,
		DefaultCategory: models.OtherCategory,
	})
}
