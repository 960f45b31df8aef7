package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeLend    TransactionType = "lend"
	TransactionTypeBorrow  TransactionType = "borrow"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeLend, TransactionTypeBorrow:
		return true
	}
	return false
}

// EntrySource records how a transaction was captured.
type EntrySource string

const (
	EntrySourceManual EntrySource = "manual"
	EntrySourceText   EntrySource = "text"
	EntrySourceVoice  EntrySource = "voice"
)

// GoalTag links a transaction to a named savings goal.
type GoalTag struct {
	Name           string          `json:"name"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	DurationMonths int             `json:"duration_months"`
}

// Transaction is a single recorded financial event.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Category    string          `gorm:"not null;index" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Time        string          `gorm:"column:time_of_day;size:5" json:"time,omitempty"`
	Goal        *GoalTag        `gorm:"type:json;serializer:json" json:"goal,omitempty"`
	Source      EntrySource     `gorm:"not null;default:'manual'" json:"source"`
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
