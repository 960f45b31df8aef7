package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Budget statuses.
const (
	StatusGood    = "good"
	StatusWarning = "warning"
	StatusOver    = "over"
)

// BudgetLimit is the configured cap for one category.
type BudgetLimit struct {
	Limit          decimal.Decimal
	AlertThreshold int
}

// CategoryBudget is the current month's spending against a category cap.
type CategoryBudget struct {
	Category   string          `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Status     string          `json:"status"`
}

// BudgetAnalysis reports every category with expenses in the current month.
// Categories without a limit have a zero budget and percentage.
func BudgetAnalysis(txs []models.Transaction, limits map[string]BudgetLimit, now time.Time) []CategoryBudget {
	cur := monthKey(monthStart(now))
	spent := make(map[string]decimal.Decimal)
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense || monthKey(txDate(&txs[i])) != cur {
			continue
		}
		cat := categoryOf(&txs[i])
		spent[cat] = spent[cat].Add(txs[i].Amount)
	}

	out := make([]CategoryBudget, 0, len(spent))
	for cat, amt := range spent {
		limit := limits[cat]
		pct := Round1(percentOf(amt, limit.Limit))
		out = append(out, CategoryBudget{
			Category:   cat,
			Spent:      amt,
			Budget:     limit.Limit,
			Remaining:  limit.Limit.Sub(amt),
			Percentage: pct,
			Status:     BudgetStatus(pct, limit.AlertThreshold),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Spent.Cmp(out[j].Spent); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// BudgetStatus classifies a usage percentage. threshold <= 0 means the
// default alert threshold.
func BudgetStatus(percentage float64, threshold int) string {
	if threshold <= 0 {
		threshold = models.DefaultAlertThreshold
	}
	switch {
	case percentage > 100:
		return StatusOver
	case percentage > float64(threshold):
		return StatusWarning
	}
	return StatusGood
}

// GoalProgress is current/target as a percentage capped at 100.
func GoalProgress(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	p := percentOf(current, target)
	if p > 100 {
		return 100
	}
	return p
}

// BudgetUsage is spent/limit as a percentage capped at 100.
func BudgetUsage(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	p := percentOf(spent, limit)
	if p > 100 {
		return 100
	}
	return p
}

// SpentInPeriod sums a category's expenses in the current month or year.
func SpentInPeriod(txs []models.Transaction, category string, period models.BudgetPeriod, now time.Time) decimal.Decimal {
	ny, nm, _ := now.Date()
	total := decimal.Zero
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense || categoryOf(&txs[i]) != category {
			continue
		}
		y, m, _ := txDate(&txs[i]).Date()
		if y != ny || (period != models.BudgetPeriodYearly && m != nm) {
			continue
		}
		total = total.Add(txs[i].Amount)
	}
	return total
}

// PeriodBounds returns the first day of the current month or year and the
// first day of the next one.
func PeriodBounds(period models.BudgetPeriod, now time.Time) (time.Time, time.Time) {
	if period == models.BudgetPeriodYearly {
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := monthStart(now)
	return start, start.AddDate(0, 1, 0)
}
