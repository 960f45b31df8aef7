package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const pieSlices = 8

// TrendPoint is one month on the income/expense trend chart.
type TrendPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// PieSlice is one category on the spending pie chart.
type PieSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// WeekPoint is one week on the weekly comparison chart.
type WeekPoint struct {
	Week     string          `json:"week"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Charts bundles the chart series shown on the analytics page.
type Charts struct {
	MonthlyTrend     []TrendPoint `json:"monthly_trend"`
	CategoryPie      []PieSlice   `json:"category_pie"`
	WeeklyComparison []WeekPoint  `json:"weekly_comparison"`
}

// TransactionStats are headline figures over every transaction type.
type TransactionStats struct {
	Count        int             `json:"count"`
	IncomeCount  int             `json:"income_count"`
	ExpenseCount int             `json:"expense_count"`
	IncomeShare  float64         `json:"income_share"`
	ExpenseShare float64         `json:"expense_share"`
	Average      decimal.Decimal `json:"average"`
	Largest      decimal.Decimal `json:"largest"`
	DailyAverage decimal.Decimal `json:"daily_average"`
}

// CategoryBreakdown totals expenses per category, largest first.
func CategoryBreakdown(txs []models.Transaction) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for i := range txs {
		if txs[i].Type != models.TransactionTypeExpense {
			continue
		}
		cat := categoryOf(&txs[i])
		totals[cat] = totals[cat].Add(txs[i].Amount)
		counts[cat]++
	}
	return sortedAmounts(totals, counts)
}

// TopCategories returns the first n entries of a sorted breakdown.
func TopCategories(breakdown []CategoryAmount, n int) []CategoryAmount {
	if n < 0 {
		n = 0
	}
	if len(breakdown) > n {
		breakdown = breakdown[:n]
	}
	out := make([]CategoryAmount, len(breakdown))
	copy(out, breakdown)
	return out
}

// MonthlyTrend drops months without activity and labels the rest with
// their two-digit month number.
func MonthlyTrend(months []MonthSummary) []TrendPoint {
	out := []TrendPoint{}
	for _, m := range months {
		if !m.Income.IsPositive() && !m.Expenses.IsPositive() {
			continue
		}
		out = append(out, TrendPoint{
			Month:    m.Key[len(m.Key)-2:],
			Income:   m.Income,
			Expenses: m.Expenses,
			Savings:  m.Income.Sub(m.Expenses),
		})
	}
	return out
}

// CategoryPie keeps the eight largest categories.
func CategoryPie(breakdown []CategoryAmount) []PieSlice {
	top := TopCategories(breakdown, pieSlices)
	out := make([]PieSlice, len(top))
	for i, c := range top {
		out[i] = PieSlice{Name: c.Category, Value: c.Amount}
	}
	return out
}

// WeeklyComparison adds the net of each week.
func WeeklyComparison(weeks []WeekSummary) []WeekPoint {
	out := make([]WeekPoint, len(weeks))
	for i, w := range weeks {
		out[i] = WeekPoint{
			Week:     w.Week,
			Income:   w.Income,
			Expenses: w.Expenses,
			Net:      w.Income.Sub(w.Expenses),
		}
	}
	return out
}

// BuildCharts computes every chart series for the analytics page.
func BuildCharts(txs []models.Transaction, now time.Time) Charts {
	valid := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if isIncomeOrExpense(&txs[i]) {
			valid = append(valid, txs[i])
		}
	}
	return Charts{
		MonthlyTrend:     MonthlyTrend(monthlyBreakdown(valid, now)),
		CategoryPie:      CategoryPie(CategoryBreakdown(txs)),
		WeeklyComparison: WeeklyComparison(WeeklyBreakdown(txs, now)),
	}
}

// LargestTransactions returns the n largest transactions by amount.
func LargestTransactions(txs []models.Transaction, n int) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Stats computes headline figures. The daily average spreads the total
// over a 30 day month.
func Stats(txs []models.Transaction) TransactionStats {
	s := TransactionStats{Count: len(txs)}
	if len(txs) == 0 {
		return s
	}

	total := decimal.Zero
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			s.IncomeCount++
		case models.TransactionTypeExpense:
			s.ExpenseCount++
		}
		total = total.Add(txs[i].Amount)
		if txs[i].Amount.GreaterThan(s.Largest) {
			s.Largest = txs[i].Amount
		}
	}

	count := decimal.NewFromInt(int64(len(txs)))
	s.IncomeShare = Round1(percentOf(decimal.NewFromInt(int64(s.IncomeCount)), count))
	s.ExpenseShare = Round1(percentOf(decimal.NewFromInt(int64(s.ExpenseCount)), count))
	s.Average = total.Div(count).Round(0)
	s.DailyAverage = total.Div(decimal.NewFromInt(30)).Round(0)
	return s
}
