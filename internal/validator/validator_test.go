package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type sample struct {
	Amount   decimal.Decimal  `validate:"gt=0"`
	Limit    *decimal.Decimal `validate:"omitempty,gt=0"`
	Currency string           `validate:"omitempty,iso4217"`
	Time     string           `validate:"omitempty,time_of_day"`
	Type     string           `validate:"omitempty,transaction_type"`
	Source   string           `validate:"omitempty,entry_source"`
	Period   string           `validate:"omitempty,budget_period"`
	GoalCat  string           `validate:"omitempty,goal_category"`
	Priority string           `validate:"omitempty,goal_priority"`
	Status   string           `validate:"omitempty,goal_status"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestDecimalComparisons(t *testing.T) {
	v := newValidate()

	if err := v.Struct(sample{Amount: decimal.RequireFromString("0.01")}); err != nil {
		t.Errorf("positive amount rejected: %v", err)
	}
	if err := v.Struct(sample{Amount: decimal.Zero}); err == nil {
		t.Error("zero amount accepted")
	}
	if err := v.Struct(sample{Amount: decimal.NewFromInt(-5)}); err == nil {
		t.Error("negative amount accepted")
	}

	neg := decimal.NewFromInt(-1)
	if err := v.Struct(sample{Amount: decimal.NewFromInt(1), Limit: &neg}); err == nil {
		t.Error("negative optional limit accepted")
	}
}

func TestCustomTags(t *testing.T) {
	v := newValidate()
	one := decimal.NewFromInt(1)

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"all empty", sample{}, true},
		{"currency ok", sample{Currency: "INR"}, true},
		{"currency lowercase", sample{Currency: "inr"}, false},
		{"time ok", sample{Time: "09:30"}, true},
		{"time out of range", sample{Time: "24:00"}, false},
		{"time single digit", sample{Time: "9:30"}, false},
		{"lend type", sample{Type: "lend"}, true},
		{"transfer type", sample{Type: "transfer"}, false},
		{"voice source", sample{Source: "voice"}, true},
		{"email source", sample{Source: "email"}, false},
		{"weekly period", sample{Period: "weekly"}, false},
		{"vacation goal", sample{GoalCat: "vacation"}, true},
		{"urgent priority", sample{Priority: "urgent"}, false},
		{"paused status", sample{Status: "paused"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Amount = one
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
