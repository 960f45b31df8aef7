package services

import (
	"context"
	"errors"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"fintrack/internal/entryparser"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

type stubParser struct {
	entry *entryparser.Entry
	err   error
}

func (p stubParser) Parse(context.Context, string, time.Time) (*entryparser.Entry, error) {
	return p.entry, p.err
}

func newTestTransactionService(db *gorm.DB) TransactionServicer {
	parser := entryparser.NewRulesParser(entryparser.DefaultRules(), "INR")
	return NewTransactionService(db, NewBudgetService(db), parser, "INR")
}

func expenseInput(t *testing.T, category, amount string) CreateTransactionInput {
	return CreateTransactionInput{
		Type:     models.TransactionTypeExpense,
		Amount:   testutil.Amount(t, amount),
		Category: category,
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_with_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:        models.TransactionTypeExpense,
			Amount:      testutil.Amount(t, "600.50"),
			Category:    " Food ",
			Description: "Dinner",
		})
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID")
		}
		if tx.Currency != "INR" {
			t.Errorf("expected default currency INR, got %s", tx.Currency)
		}
		if tx.Source != models.EntrySourceManual {
			t.Errorf("expected manual source, got %s", tx.Source)
		}
		if tx.Category != "Food" {
			t.Errorf("expected trimmed category, got %q", tx.Category)
		}
		if !tx.Date.Equal(models.DateOnly(time.Now().UTC())) {
			t.Errorf("expected today's date, got %v", tx.Date)
		}
	})

	t.Run("currency_uppercased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Shopping", "12")
		in.Currency = "usd"
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)

		if tx.Currency != "USD" {
			t.Errorf("expected USD, got %s", tx.Currency)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, expenseInput(t, "Food", "0"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, expenseInput(t, "Food", "-5"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, expenseInput(t, "   ", "10"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Food", "10")
		in.Type = "transfer"
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("invalid_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Food", "10")
		in.Currency = "RUPEES"
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("time_of_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Food", "10")
		in.Time = "9:05"
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)
		if tx.Time != "09:05" {
			t.Errorf("expected normalized time 09:05, got %q", tx.Time)
		}

		in.Time = "25:00"
		_, err = svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("goal_tag_round_trips", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:     models.TransactionTypeIncome,
			Amount:   testutil.Amount(t, "5000"),
			Category: "Salary",
			Goal: &models.GoalTag{
				Name:           "Laptop",
				TargetAmount:   testutil.Amount(t, "80000"),
				DurationMonths: 6,
			},
		})
		testutil.AssertNoError(t, err)

		got, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.Goal == nil || got.Goal.Name != "Laptop" || got.Goal.DurationMonths != 6 {
			t.Fatalf("unexpected goal tag %+v", got.Goal)
		}
		if !got.Goal.TargetAmount.Equal(testutil.Amount(t, "80000")) {
			t.Errorf("expected goal target 80000, got %s", got.Goal.TargetAmount)
		}
	})

	t.Run("blank_goal_dropped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Food", "10")
		in.Goal = &models.GoalTag{Name: " "}
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)
		if tx.Goal != nil {
			t.Errorf("expected blank goal tag to be dropped, got %+v", tx.Goal)
		}
	})

	t.Run("expense_refreshes_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "Food", "1000")

		_, err := svc.CreateTransaction(user.ID, expenseInput(t, "Food", "250.25"))
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, expenseInput(t, "Food", "100"))
		testutil.AssertNoError(t, err)

		var stored models.Budget
		db.First(&stored, "id = ?", budget.ID)
		if !stored.CurrentSpent.Equal(testutil.Amount(t, "350.25")) {
			t.Errorf("expected current_spent 350.25, got %s", stored.CurrentSpent)
		}
	})

	t.Run("records_metric", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		counter := metrics.TransactionsRecorded.WithLabelValues("borrow", "manual")
		before := promtestutil.ToFloat64(counter)

		_, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:     models.TransactionTypeBorrow,
			Amount:   testutil.Amount(t, "500"),
			Category: "Loan",
		})
		testutil.AssertNoError(t, err)

		if got := promtestutil.ToFloat64(counter); got != before+1 {
			t.Errorf("expected counter to grow by 1, went from %v to %v", before, got)
		}
	})
}

func TestQuickEntry(t *testing.T) {
	t.Run("parses_and_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.QuickEntry(context.Background(), user.ID, "Spent 600 Rs on Dinner", models.EntrySourceVoice)
		testutil.AssertNoError(t, err)

		if tx.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense, got %s", tx.Type)
		}
		if !tx.Amount.Equal(testutil.Amount(t, "600")) {
			t.Errorf("expected amount 600, got %s", tx.Amount)
		}
		if tx.Category != "Food" || tx.Description != "Dinner" {
			t.Errorf("unexpected category/description %q/%q", tx.Category, tx.Description)
		}
		if tx.Source != models.EntrySourceVoice {
			t.Errorf("expected voice source, got %s", tx.Source)
		}
	})

	t.Run("default_source_is_text", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.QuickEntry(context.Background(), user.ID, "Lent 2000 to Rahul", "")
		testutil.AssertNoError(t, err)
		if tx.Source != models.EntrySourceText {
			t.Errorf("expected text source, got %s", tx.Source)
		}
		if tx.Type != models.TransactionTypeLend || tx.Category != models.LoanCategory {
			t.Errorf("unexpected type/category %s/%s", tx.Type, tx.Category)
		}
	})

	t.Run("manual_source_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.QuickEntry(context.Background(), user.ID, "Spent 10 on tea", models.EntrySourceManual)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unrecognized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.QuickEntry(context.Background(), user.ID, "bought coffee", models.EntrySourceText)
		testutil.AssertAppError(t, err, "UNPARSEABLE_ENTRY")

		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("expected nothing recorded, found %d transactions", count)
		}
	})

	t.Run("parser_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db), stubParser{err: errors.New("boom")}, "INR")
		user := testutil.CreateTestUser(t, db)

		_, err := svc.QuickEntry(context.Background(), user.ID, "Spent 10 on tea", models.EntrySourceText)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})
}

func TestParseEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestTransactionService(db)

	counter := metrics.QuickEntryParses.WithLabelValues(entryparser.RulesParserName, "ok")
	before := promtestutil.ToFloat64(counter)

	entry, err := svc.ParseEntry(context.Background(), "Earned 5000 Rs from Salary")
	testutil.AssertNoError(t, err)
	if entry.Type != models.TransactionTypeIncome || entry.Category != "Salary" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if got := promtestutil.ToFloat64(counter); got != before+1 {
		t.Errorf("expected parse counter to grow by 1, went from %v to %v", before, got)
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("preview must not record, found %d transactions", count)
	}

	_, err = svc.ParseEntry(context.Background(), "   ")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("returns_user_transactions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, "Food", "10")
		testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeIncome, "Salary", "100")
		testutil.CreateTestTransaction(t, db, user2.ID, models.TransactionTypeExpense, "Food", "20")

		result, err := svc.GetUserTransactions(user1.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions, got %d", result.TotalItems)
		}
	})

	t.Run("sorted_by_date_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeExpense, "Food", "1", now.AddDate(0, 0, -10))
		newest := testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeExpense, "Food", "2", now)
		testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeExpense, "Food", "3", now.AddDate(0, 0, -5))

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 3 || result.Data[0].ID != newest.ID {
			t.Fatalf("expected newest transaction first, got %+v", result.Data)
		}
		if result.Data[1].Amount.String() != "3" {
			t.Errorf("expected 5-day-old transaction second, got amount %s", result.Data[1].Amount)
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now().UTC()
		dinner := testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeExpense, "Food", "600", now)
		db.Model(dinner).Update("description", "Team Dinner")
		testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeExpense, "Transportation", "80", now.AddDate(0, 0, -3))
		testutil.CreateTestTransactionOn(t, db, user.ID, models.TransactionTypeIncome, "Salary", "5000", now.AddDate(0, 0, -40))

		expense := models.TransactionTypeExpense
		from := now.AddDate(0, 0, -7)
		to := now

		tests := []struct {
			name   string
			filter TransactionFilter
			want   int64
		}{
			{"search_description", TransactionFilter{Search: "dinner"}, 1},
			{"search_category", TransactionFilter{Search: "TRANSPORT"}, 1},
			{"type", TransactionFilter{Type: &expense}, 2},
			{"category", TransactionFilter{Category: "Salary"}, 1},
			{"date_range", TransactionFilter{FromDate: &from, ToDate: &to}, 2},
			{"combined", TransactionFilter{Type: &expense, Search: "food", FromDate: &from}, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, tt.filter)
				testutil.AssertNoError(t, err)
				if result.TotalItems != tt.want {
					t.Errorf("expected %d transactions, got %d", tt.want, result.TotalItems)
				}
			})
		}
	})

	t.Run("search_matches_wildcards_literally", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		for _, desc := range []string{"Sale 100% off", "Sale 1000 items", "report_q3.pdf", "reportq3 print", `C:\bills`} {
			tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Shopping", "10")
			db.Model(tx).Update("description", desc)
		}

		tests := []struct {
			search string
			want   int64
		}{
			{"100%", 1},
			{"report_", 1},
			{"_", 1},
			{`\b`, 1},
			{"sale", 2},
		}
		for _, tt := range tests {
			result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Search: tt.search})
			testutil.AssertNoError(t, err)
			if result.TotalItems != tt.want {
				t.Errorf("search %q: expected %d transactions, got %d", tt.search, tt.want, result.TotalItems)
			}
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", "10")
		}

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(result.Data))
		}
		if result.TotalPages != 3 || !result.HasNext {
			t.Errorf("expected 3 pages with a next page, got %d pages, has_next=%v", result.TotalPages, result.HasNext)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "Salary", "1000")

		tx, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if !tx.Amount.Equal(created.Amount) {
			t.Errorf("expected amount %s, got %s", created.Amount, tx.Amount)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, owner.ID, models.TransactionTypeIncome, "Salary", "1000")

		_, err := svc.GetTransactionByID(other.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", "100")

		desc := "Groceries"
		amount := testutil.Amount(t, "120.75")
		tx, err := svc.UpdateTransaction(user.ID, created.ID, UpdateTransactionInput{Description: &desc, Amount: &amount})
		testutil.AssertNoError(t, err)

		if tx.Description != "Groceries" || !tx.Amount.Equal(amount) {
			t.Errorf("unexpected update result %+v", tx)
		}
		if tx.Category != "Food" || tx.Type != models.TransactionTypeExpense {
			t.Errorf("untouched fields changed: %s/%s", tx.Category, tx.Type)
		}

		reloaded, _ := svc.GetTransactionByID(user.ID, created.ID)
		if !reloaded.Amount.Equal(amount) {
			t.Errorf("expected stored amount %s, got %s", amount, reloaded.Amount)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "Food", "100")

		zero := testutil.Amount(t, "0")
		_, err := svc.UpdateTransaction(user.ID, created.ID, UpdateTransactionInput{Amount: &zero})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("category_change_refreshes_both_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestBudget(t, db, user.ID, "Food", "1000")
		shopping := testutil.CreateTestBudget(t, db, user.ID, "Shopping", "1000")

		created, err := svc.CreateTransaction(user.ID, expenseInput(t, "Food", "300"))
		testutil.AssertNoError(t, err)

		category := "Shopping"
		_, err = svc.UpdateTransaction(user.ID, created.ID, UpdateTransactionInput{Category: &category})
		testutil.AssertNoError(t, err)

		var gotFood, gotShopping models.Budget
		db.First(&gotFood, "id = ?", food.ID)
		db.First(&gotShopping, "id = ?", shopping.ID)
		if !gotFood.CurrentSpent.IsZero() {
			t.Errorf("expected Food budget to drop to 0, got %s", gotFood.CurrentSpent)
		}
		if !gotShopping.CurrentSpent.Equal(testutil.Amount(t, "300")) {
			t.Errorf("expected Shopping budget at 300, got %s", gotShopping.CurrentSpent)
		}
	})

	t.Run("clear_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(t, "Shopping", "100")
		in.Goal = &models.GoalTag{Name: "Bike", TargetAmount: testutil.Amount(t, "20000")}
		created, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, created.ID, UpdateTransactionInput{ClearGoal: true})
		testutil.AssertNoError(t, err)

		reloaded, _ := svc.GetTransactionByID(user.ID, created.ID)
		if reloaded.Goal != nil {
			t.Errorf("expected goal tag cleared, got %+v", reloaded.Goal)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		desc := "x"
		_, err := svc.UpdateTransaction(user.ID, "0190a4b2-7c3e-7000-8000-000000000000", UpdateTransactionInput{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deletes_and_refreshes_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "Food", "1000")

		created, err := svc.CreateTransaction(user.ID, expenseInput(t, "Food", "400"))
		testutil.AssertNoError(t, err)

		err = svc.DeleteTransaction(user.ID, created.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		var stored models.Budget
		db.First(&stored, "id = ?", budget.ID)
		if !stored.CurrentSpent.IsZero() {
			t.Errorf("expected current_spent 0 after delete, got %s", stored.CurrentSpent)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, "0190a4b2-7c3e-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
