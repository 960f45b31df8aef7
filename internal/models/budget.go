package models

import (
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThreshold is the usage percentage that triggers a warning when
// a budget does not set its own.
const DefaultAlertThreshold = 80

// Budget is a spending cap for one expense category. CurrentSpent, Month and
// Year are maintained by the service and never accepted from clients.
type Budget struct {
	Base
	UserID         string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Category       string          `gorm:"not null" json:"category"`
	MonthlyLimit   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_limit"`
	CurrentSpent   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_spent"`
	Period         BudgetPeriod    `gorm:"not null;default:'monthly'" json:"period"`
	AlertThreshold int             `gorm:"not null;default:80" json:"alert_threshold"`
	Description    string          `json:"description"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
}
