package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

const (
	dashboardMonths     = 6
	dashboardCategories = 6
	dashboardRecent     = 5
	dashboardGoals      = 3
)

// MonthSummary aggregates one calendar month.
type MonthSummary struct {
	Key          string          `json:"key"`
	Month        string          `json:"month"`
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Transactions int             `json:"transactions"`
}

// CategoryAmount is a category total.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// TaggedGoal is progress toward a goal named on transactions.
type TaggedGoal struct {
	Name           string          `json:"name"`
	Target         decimal.Decimal `json:"target"`
	DurationMonths int             `json:"duration_months"`
	Saved          decimal.Decimal `json:"saved"`
	Progress       float64         `json:"progress"`
}

// LoanSummary totals money lent and borrowed.
type LoanSummary struct {
	Lent     decimal.Decimal `json:"lent"`
	Borrowed decimal.Decimal `json:"borrowed"`
	Net      decimal.Decimal `json:"net"`
}

// DashboardData is the home page summary.
type DashboardData struct {
	Summary
	IncomeShare        float64              `json:"income_share"`
	ExpenseShare       float64              `json:"expense_share"`
	MonthlyBreakdown   []MonthSummary       `json:"monthly_breakdown"`
	CategorySpending   []CategoryAmount     `json:"category_spending"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	GoalProgress       []TaggedGoal         `json:"goal_progress"`
	Loans              LoanSummary          `json:"loans"`
}

// Dashboard builds the home page summary from income and expense entries.
// Loans are reported separately from the same set.
func Dashboard(txs []models.Transaction, now time.Time) DashboardData {
	valid := make([]models.Transaction, 0, len(txs))
	for i := range txs {
		if isIncomeOrExpense(&txs[i]) {
			valid = append(valid, txs[i])
		}
	}

	d := DashboardData{Summary: Totals(valid)}
	total := d.TotalIncome.Add(d.TotalExpenses)
	d.IncomeShare = Round1(percentOf(d.TotalIncome, total))
	d.ExpenseShare = Round1(percentOf(d.TotalExpenses, total))

	d.MonthlyBreakdown = monthlyBreakdown(valid, now)
	d.CategorySpending = TopCategories(CategoryBreakdown(valid), dashboardCategories)
	d.RecentTransactions = RecentTransactions(valid, dashboardRecent)
	d.GoalProgress = taggedGoals(valid)
	if len(d.GoalProgress) > dashboardGoals {
		d.GoalProgress = d.GoalProgress[:dashboardGoals]
	}
	d.Loans = Loans(txs)
	return d
}

// monthlyBreakdown covers the last six months that have data, or the six
// calendar months ending with now when there is none.
func monthlyBreakdown(txs []models.Transaction, now time.Time) []MonthSummary {
	seen := make(map[string]bool)
	var keys []string
	for i := range txs {
		k := monthKey(txDate(&txs[i]))
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > dashboardMonths {
		keys = keys[len(keys)-dashboardMonths:]
	}
	if len(keys) == 0 {
		start := monthStart(now)
		for i := dashboardMonths - 1; i >= 0; i-- {
			keys = append(keys, monthKey(start.AddDate(0, -i, 0)))
		}
	}

	byKey := make(map[string]*MonthSummary, len(keys))
	out := make([]MonthSummary, len(keys))
	for i, k := range keys {
		first, _ := time.Parse(monthKeyLayout, k)
		out[i] = MonthSummary{Key: k, Month: first.Format("Jan 2006")}
		byKey[k] = &out[i]
	}

	for i := range txs {
		m, ok := byKey[monthKey(txDate(&txs[i]))]
		if !ok {
			continue
		}
		switch txs[i].Type {
		case models.TransactionTypeIncome:
			m.Income = m.Income.Add(txs[i].Amount)
		case models.TransactionTypeExpense:
			m.Expenses = m.Expenses.Add(txs[i].Amount)
		}
		m.Transactions++
	}
	return out
}

// RecentTransactions returns the n most recent transactions by date. Entries
// on the same date keep the newest-created first.
func RecentTransactions(txs []models.Transaction, n int) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// taggedGoals groups goal-tagged transactions by goal name in first-seen
// order. Only income counts toward the saved amount.
func taggedGoals(txs []models.Transaction) []TaggedGoal {
	var goals []TaggedGoal
	index := make(map[string]int)
	for i := range txs {
		g := txs[i].Goal
		if g == nil || g.Name == "" || !g.TargetAmount.IsPositive() {
			continue
		}
		idx, ok := index[g.Name]
		if !ok {
			idx = len(goals)
			index[g.Name] = idx
			goals = append(goals, TaggedGoal{
				Name:           g.Name,
				Target:         g.TargetAmount,
				DurationMonths: g.DurationMonths,
			})
		}
		if txs[i].Type == models.TransactionTypeIncome {
			goals[idx].Saved = goals[idx].Saved.Add(txs[i].Amount)
		}
	}
	for i := range goals {
		goals[i].Progress = Round1(GoalProgress(goals[i].Saved, goals[i].Target))
	}
	return goals
}

// Loans totals lend and borrow entries. Net is lent minus borrowed.
func Loans(txs []models.Transaction) LoanSummary {
	var l LoanSummary
	for i := range txs {
		switch txs[i].Type {
		case models.TransactionTypeLend:
			l.Lent = l.Lent.Add(txs[i].Amount)
		case models.TransactionTypeBorrow:
			l.Borrowed = l.Borrowed.Add(txs[i].Amount)
		}
	}
	l.Net = l.Lent.Sub(l.Borrowed)
	return l
}
