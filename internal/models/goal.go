package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalCategory classifies what a goal saves for.
type GoalCategory string

const (
	GoalCategorySavings    GoalCategory = "savings"
	GoalCategoryInvestment GoalCategory = "investment"
	GoalCategoryPurchase   GoalCategory = "purchase"
	GoalCategoryEmergency  GoalCategory = "emergency"
	GoalCategoryVacation   GoalCategory = "vacation"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryOther      GoalCategory = "other"
)

// GoalPriority ranks goals against each other.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusPaused    GoalStatus = "paused"
)

// Goal is a target savings amount with a deadline.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Category      GoalCategory    `gorm:"not null;default:'savings'" json:"category"`
	Priority      GoalPriority    `gorm:"not null;default:'medium'" json:"priority"`
	Description   string          `json:"description"`
	Status        GoalStatus      `gorm:"not null;default:'active'" json:"status"`
}
