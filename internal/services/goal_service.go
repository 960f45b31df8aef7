package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

const maxGoalNameLength = 100

// goalService handles goal-related business logic.
type goalService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db, now: time.Now}
}

// CreateGoal creates a goal. A goal created at or above its target starts
// out completed.
func (s *goalService) CreateGoal(userID string, in CreateGoalInput) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      in.Deadline,
		Category:      in.Category,
		Priority:      in.Priority,
		Description:   strings.TrimSpace(in.Description),
		Status:        models.GoalStatusActive,
	}
	if goal.Category == "" {
		goal.Category = models.GoalCategorySavings
	}
	if goal.Priority == "" {
		goal.Priority = models.GoalPriorityMedium
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}
	if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = models.GoalStatusCompleted
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

func validateGoal(g *models.Goal) error {
	if g.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if len([]rune(g.Name)) > maxGoalNameLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name must be at most 100 characters")
	}
	if !g.TargetAmount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount must not be negative")
	}
	if !validGoalCategory(g.Category) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown goal category")
	}
	switch g.Priority {
	case models.GoalPriorityLow, models.GoalPriorityMedium, models.GoalPriorityHigh:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must be low, medium or high")
	}
	switch g.Status {
	case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusPaused:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be active, completed or paused")
	}
	return nil
}

func validGoalCategory(c models.GoalCategory) bool {
	for _, known := range models.GoalCategories {
		if c == known {
			return true
		}
	}
	return false
}

// GetUserGoals returns a paginated list of goals, highest priority and
// nearest deadline first.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest, filter GoalFilter) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		base = base.Where("priority = ?", *filter.Priority)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END").
		Order("CASE WHEN deadline IS NULL THEN 1 ELSE 0 END").
		Order("deadline ASC").
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial update. An active goal whose saved amount
// reaches the target becomes completed.
func (s *goalService) UpdateGoal(userID, goalID string, in UpdateGoalInput) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		goal.Name = strings.TrimSpace(*in.Name)
	}
	if in.TargetAmount != nil {
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		goal.CurrentAmount = *in.CurrentAmount
	}
	if in.Deadline != nil {
		goal.Deadline = in.Deadline
	}
	if in.Category != nil {
		goal.Category = *in.Category
	}
	if in.Priority != nil {
		goal.Priority = *in.Priority
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		goal.Status = *in.Status
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}
	if goal.Status == models.GoalStatusActive && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = models.GoalStatusCompleted
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal soft-deletes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute adds amount to the goal's saved total and completes the goal
// once the target is reached.
func (s *goalService) Contribute(userID, goalID string, amount decimal.Decimal) (*models.Goal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status == models.GoalStatusCompleted {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal is already completed")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Goal{}).
			Where("id = ?", goal.ID).
			Update("current_amount", gorm.Expr("current_amount + ?", amount.Round(2))).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("id = ?", goal.ID).First(goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.Status = models.GoalStatusCompleted
			if err := tx.Model(goal).Update("status", goal.Status).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoalProgress reports progress towards the target. A goal is on track
// when its saved share is at least the share of time elapsed between
// creation and deadline; goals without a deadline are on track while not
// paused.
func (s *goalService) GetGoalProgress(userID, goalID string) (*GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percentage := analytics.Round1(analytics.GoalProgress(goal.CurrentAmount, goal.TargetAmount))

	progress := &GoalProgress{
		GoalID:     goal.ID,
		Target:     goal.TargetAmount,
		Current:    goal.CurrentAmount,
		Remaining:  remaining,
		Percentage: percentage,
		Status:     goal.Status,
	}

	today := models.DateOnly(s.now().UTC())
	switch {
	case goal.Status == models.GoalStatusCompleted:
		progress.OnTrack = true
	case goal.Deadline == nil:
		progress.OnTrack = goal.Status == models.GoalStatusActive
	default:
		deadline := models.DateOnly(goal.Deadline.UTC())
		days := int(math.Ceil(deadline.Sub(today).Hours() / 24))
		progress.DaysLeft = &days
		progress.OnTrack = goal.Status == models.GoalStatusActive && percentage >= expectedProgress(goal.CreatedAt, deadline, today)
	}
	return progress, nil
}

// expectedProgress is the percentage of the created..deadline window that
// has elapsed by today.
func expectedProgress(created, deadline, today time.Time) float64 {
	start := models.DateOnly(created.UTC())
	total := deadline.Sub(start)
	if total <= 0 || !today.Before(deadline) {
		return 100
	}
	elapsed := today.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return analytics.Round1(float64(elapsed) / float64(total) * 100)
}
