package entryparser

import (
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/models"
)

// CategoryRule maps description keywords to a category.
type CategoryRule struct {
	Category string
	Keywords []string
}

// Rules holds the ordered keyword tables per transaction type. The first
// rule with a keyword contained in the description wins.
type Rules struct {
	Expense []CategoryRule
	Income  []CategoryRule
}

// DefaultRules returns the built-in keyword tables.
func DefaultRules() Rules {
	return Rules{
		Expense: []CategoryRule{
			{Category: "Food", Keywords: []string{"food", "dinner", "lunch", "restaurant"}},
			{Category: "Entertainment", Keywords: []string{"movie", "netflix", "entertainment"}},
			{Category: "Transportation", Keywords: []string{"uber", "taxi", "bus", "transport"}},
			{Category: "Shopping", Keywords: []string{"shopping", "clothes", "amazon"}},
			{Category: "Bills", Keywords: []string{"bill", "electricity", "phone", "internet"}},
			{Category: "Healthcare", Keywords: []string{"doctor", "medicine", "hospital"}},
		},
		Income: []CategoryRule{
			{Category: "Salary", Keywords: []string{"salary", "job", "work"}},
			{Category: "Freelance", Keywords: []string{"freelance", "project", "client"}},
			{Category: "Investment", Keywords: []string{"investment", "dividend", "interest"}},
		},
	}
}

// RulesFromConfig returns the default tables with any table configured in
// the TOML file replacing its default counterpart.
func RulesFromConfig(cfg config.ParserConfig) Rules {
	rules := DefaultRules()
	if len(cfg.ExpenseRules) > 0 {
		rules.Expense = convertRules(cfg.ExpenseRules)
	}
	if len(cfg.IncomeRules) > 0 {
		rules.Income = convertRules(cfg.IncomeRules)
	}
	return rules
}

func convertRules(in []config.CategoryRule) []CategoryRule {
	out := make([]CategoryRule, 0, len(in))
	for _, r := range in {
		if r.Category == "" {
			continue
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		out = append(out, CategoryRule{Category: r.Category, Keywords: keywords})
	}
	return out
}

// Guess returns the category for description. Lend and borrow entries are
// always filed under the loan category.
func (r Rules) Guess(description string, t models.TransactionType) string {
	var table []CategoryRule
	switch t {
	case models.TransactionTypeExpense:
		table = r.Expense
	case models.TransactionTypeIncome:
		table = r.Income
	case models.TransactionTypeLend, models.TransactionTypeBorrow:
		return models.LoanCategory
	}

	desc := strings.ToLower(description)
	for _, rule := range table {
		for _, k := range rule.Keywords {
			if strings.Contains(desc, k) {
				return rule.Category
			}
		}
	}
	return models.OtherCategory
}
