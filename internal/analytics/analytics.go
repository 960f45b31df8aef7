// Package analytics reduces a user's transactions into dashboard figures.
//
// Every function is pure: callers pass the full transaction set and the
// reference time. Amounts are summed as decimals; percentages are float64
// rounded the way the dashboard displays them.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const (
	monthKeyLayout = "2006-01"
	dayKeyLayout   = "2006-01-02"
)

// Savings ratings.
const (
	RatingExcellent        = "excellent"
	RatingGood             = "good"
	RatingNeedsImprovement = "needs_improvement"
)

// Summary holds all-time income and expense totals.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetSavings    decimal.Decimal `json:"net_savings"`
	SavingsRate   float64         `json:"savings_rate"`
	IncomeCount   int             `json:"income_count"`
	ExpenseCount  int             `json:"expense_count"`
}

// Totals sums income and expenses. Lend and borrow entries are ignored.
func Totals(txs []models.Transaction) Summary {
	var s Summary
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(txs[i].Amount)
			s.IncomeCount++
		case models.TransactionTypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(txs[i].Amount)
			s.ExpenseCount++
		}
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpenses)
	s.SavingsRate = Round1(savingsRate(s.TotalIncome, s.TotalExpenses))
	return s
}

// SavingsRating grades a savings rate percentage.
func SavingsRating(rate float64) string {
	switch {
	case rate >= 20:
		return RatingExcellent
	case rate >= 10:
		return RatingGood
	}
	return RatingNeedsImprovement
}

// Round1 rounds x to one decimal place, halves toward positive infinity.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// roundHalfUp rounds x to an integer, halves toward positive infinity.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// savingsRate is (income-expenses)/income*100, or 0 without income.
func savingsRate(income, expenses decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return percentOf(income.Sub(expenses), income)
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// changePercent is the relative change from last to cur, or 0 when last is
// not positive.
func changePercent(cur, last decimal.Decimal) float64 {
	if !last.IsPositive() {
		return 0
	}
	return percentOf(cur.Sub(last), last)
}

func categoryOf(t *models.Transaction) string {
	if t.Category == "" {
		return models.OtherCategory
	}
	return t.Category
}

// txDate is the calendar date of a transaction as midnight UTC.
func txDate(t *models.Transaction) time.Time {
	return models.DateOnly(t.Date.UTC())
}

func monthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// monthStart returns the first day of t's calendar month at midnight UTC.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// currentAndLastMonth returns the month keys of now and of the month before.
func currentAndLastMonth(now time.Time) (string, string) {
	start := monthStart(now)
	return monthKey(start), monthKey(start.AddDate(0, -1, 0))
}

func isIncomeOrExpense(t *models.Transaction) bool {
	return t.Type == models.TransactionTypeIncome || t.Type == models.TransactionTypeExpense
}

// sortedAmounts turns a category total map into a slice sorted by amount
// descending, then category name.
func sortedAmounts(totals map[string]decimal.Decimal, counts map[string]int) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for cat, amt := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: amt, Count: counts[cat]})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
