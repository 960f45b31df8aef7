package models

// OtherCategory is used whenever a category is missing or unknown.
const OtherCategory = "Other"

// LoanCategory is the category given to lend and borrow entries captured
// from free text.
const LoanCategory = "Loan"

// ExpenseCategories lists the expense categories offered to users.
var ExpenseCategories = []string{
	"Food", "Entertainment", "Transportation", "Shopping",
	"Bills", "Healthcare", "Education", OtherCategory,
}

// IncomeCategories lists the income categories offered to users.
var IncomeCategories = []string{
	"Salary", "Freelance", "Investment", "Business", "Gift", OtherCategory,
}

// GoalCategories lists the valid goal categories.
var GoalCategories = []GoalCategory{
	GoalCategorySavings, GoalCategoryInvestment, GoalCategoryPurchase,
	GoalCategoryEmergency, GoalCategoryVacation, GoalCategoryEducation,
	GoalCategoryOther,
}

// GoalPriorities lists the valid goal priorities.
var GoalPriorities = []GoalPriority{GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh}

// CategoriesFor returns the catalog for a transaction type. Lend and borrow
// entries have no catalog of their own.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case TransactionTypeExpense:
		return ExpenseCategories
	case TransactionTypeIncome:
		return IncomeCategories
	}
	return []string{LoanCategory}
}
