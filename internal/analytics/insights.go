package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Insight kinds.
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightSuccess = "success"
)

// Insight is a short observation about spending habits.
type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Insights returns, in order: high spending days, category concentration
// and a savings rate assessment over all time.
func Insights(txs []models.Transaction) []Insight {
	insights := []Insight{}

	daily := make(map[string]decimal.Decimal)
	byCategory := make(map[string]decimal.Decimal)
	totalExpenses, totalIncome := decimal.Zero, decimal.Zero
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeExpense:
			day := txDate(&txs[i]).Format(dayKeyLayout)
			daily[day] = daily[day].Add(txs[i].Amount)
			cat := categoryOf(&txs[i])
			byCategory[cat] = byCategory[cat].Add(txs[i].Amount)
			totalExpenses = totalExpenses.Add(txs[i].Amount)
		case models.TransactionTypeIncome:
			totalIncome = totalIncome.Add(txs[i].Amount)
		}
	}

	if len(daily) > 0 {
		threshold := totalExpenses.Div(decimal.NewFromInt(int64(len(daily)))).Mul(decimal.NewFromInt(2))
		high := 0
		for _, amt := range daily {
			if amt.GreaterThan(threshold) {
				high++
			}
		}
		if high > 0 {
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Title:   "High Spending Days Detected",
				Message: fmt.Sprintf("You had %d days with spending above ₹%s", high, threshold.Round(0).String()),
			})
		}
	}

	if dominant, amt, ok := largestCategory(byCategory); ok &&
		amt.GreaterThan(totalExpenses.Mul(decimal.NewFromFloat(0.4))) {
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Category Concentration",
			Message: fmt.Sprintf("%s accounts for %d%% of your expenses", dominant, roundHalfUp(percentOf(amt, totalExpenses))),
		})
	}

	rate := savingsRate(totalIncome, totalExpenses)
	switch {
	case rate < 10:
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Title:   "Low Savings Rate",
			Message: fmt.Sprintf("Your savings rate is %d%%. Consider reducing expenses or increasing income.", roundHalfUp(rate)),
		})
	case rate > 30:
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Excellent Savings Rate",
			Message: fmt.Sprintf("Great job! Your savings rate of %d%% is above recommended levels.", roundHalfUp(rate)),
		})
	}
	return insights
}

// largestCategory returns the category with the highest positive total.
// Ties go to the alphabetically first category.
func largestCategory(totals map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	names := make([]string, 0, len(totals))
	for c := range totals {
		names = append(names, c)
	}
	sort.Strings(names)

	best, bestAmt := "", decimal.Zero
	for _, c := range names {
		if totals[c].GreaterThan(bestAmt) {
			best, bestAmt = c, totals[c]
		}
	}
	return best, bestAmt, best != ""
}
