package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const weeksInBreakdown = 4

// MonthMetrics are the figures for the current month.
type MonthMetrics struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate float64         `json:"savings_rate"`
}

// Changes are month-over-month percentage changes.
type Changes struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// WeekSummary aggregates one Sunday-to-Saturday week.
type WeekSummary struct {
	Week         string          `json:"week"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Transactions int             `json:"transactions"`
}

// CategoryTrend compares a category's spending this month and last month.
type CategoryTrend struct {
	Category string          `json:"category"`
	Current  decimal.Decimal `json:"current"`
	Last     decimal.Decimal `json:"last"`
	Change   float64         `json:"change"`
}

// MetricsData is the analytics page's financial metrics block.
type MetricsData struct {
	CurrentMonth   MonthMetrics    `json:"current_month"`
	Changes        Changes         `json:"changes"`
	Weekly         []WeekSummary   `json:"weekly"`
	CategoryTrends []CategoryTrend `json:"category_trends"`
}

// Metrics computes current-month figures, month-over-month changes, the last
// four weeks and per-category trends.
func Metrics(txs []models.Transaction, now time.Time) MetricsData {
	cur, last := currentAndLastMonth(now)

	var curIncome, curExpenses, lastIncome, lastExpenses decimal.Decimal
	for i := range txs {
		k := monthKey(txDate(&txs[i]))
		switch {
		case k == cur && txs[i].Type == models.TransactionTypeIncome:
			curIncome = curIncome.Add(txs[i].Amount)
		case k == cur && txs[i].Type == models.TransactionTypeExpense:
			curExpenses = curExpenses.Add(txs[i].Amount)
		case k == last && txs[i].Type == models.TransactionTypeIncome:
			lastIncome = lastIncome.Add(txs[i].Amount)
		case k == last && txs[i].Type == models.TransactionTypeExpense:
			lastExpenses = lastExpenses.Add(txs[i].Amount)
		}
	}

	return MetricsData{
		CurrentMonth: MonthMetrics{
			Income:      curIncome,
			Expenses:    curExpenses,
			Savings:     curIncome.Sub(curExpenses),
			SavingsRate: Round1(savingsRate(curIncome, curExpenses)),
		},
		Changes: Changes{
			Income:   Round1(changePercent(curIncome, lastIncome)),
			Expenses: Round1(changePercent(curExpenses, lastExpenses)),
		},
		Weekly:         WeeklyBreakdown(txs, now),
		CategoryTrends: CategoryTrends(txs, now),
	}
}

// WeeklyBreakdown returns the current week and the three before it, oldest
// first. Weeks start on Sunday. Every transaction type is counted.
func WeeklyBreakdown(txs []models.Transaction, now time.Time) []WeekSummary {
	y, m, d := now.Date()
	thisWeek := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, time.UTC)

	weeks := make([]WeekSummary, weeksInBreakdown)
	for n := range weeks {
		i := weeksInBreakdown - 1 - n
		start := thisWeek.AddDate(0, 0, -i*7)
		weeks[n] = WeekSummary{
			Week:  fmt.Sprintf("Week %d", n+1),
			Start: start,
			End:   start.AddDate(0, 0, 6),
		}
	}

	for i := range txs {
		day := txDate(&txs[i])
		for n := range weeks {
			w := &weeks[n]
			if day.Before(w.Start) || day.After(w.End) {
				continue
			}
			switch txs[i].Type {
			case models.TransactionTypeIncome:
				w.Income = w.Income.Add(txs[i].Amount)
			case models.TransactionTypeExpense:
				w.Expenses = w.Expenses.Add(txs[i].Amount)
			}
			w.Transactions++
			break
		}
	}
	return weeks
}

// CategoryTrends compares expense totals per category between the current
// and the previous month, largest current spend first.
func CategoryTrends(txs []models.Transaction, now time.Time) []CategoryTrend {
	cur, last := currentAndLastMonth(now)

	curBy := make(map[string]decimal.Decimal)
	lastBy := make(map[string]decimal.Decimal)
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense {
			continue
		}
		cat := categoryOf(&txs[i])
		switch monthKey(txDate(&txs[i])) {
		case cur:
			curBy[cat] = curBy[cat].Add(txs[i].Amount)
		case last:
			lastBy[cat] = lastBy[cat].Add(txs[i].Amount)
		}
	}

	cats := make(map[string]bool, len(curBy)+len(lastBy))
	for c := range curBy {
		cats[c] = true
	}
	for c := range lastBy {
		cats[c] = true
	}

	trends := make([]CategoryTrend, 0, len(cats))
	for c := range cats {
		current, previous := curBy[c], lastBy[c]
		var change float64
		switch {
		case previous.IsPositive():
			change = changePercent(current, previous)
		case current.IsPositive():
			change = 100
		}
		trends = append(trends, CategoryTrend{
			Category: c,
			Current:  current,
			Last:     previous,
			Change:   Round1(change),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if c := trends[i].Current.Cmp(trends[j].Current); c != 0 {
			return c > 0
		}
		return trends[i].Category < trends[j].Category
	})
	return trends
}
