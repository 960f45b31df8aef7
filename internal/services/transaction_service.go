package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/entryparser"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

const (
	maxDescriptionLength = 500
	maxEntryTextLength   = 500
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	budgetService   BudgetServicer
	parser          entryparser.Parser
	defaultCurrency string
	now             func() time.Time
}

// NewTransactionService creates a new TransactionServicer. parser handles
// quick entries; defaultCurrency applies to transactions that name none.
func NewTransactionService(db *gorm.DB, budgetService BudgetServicer, parser entryparser.Parser, defaultCurrency string) TransactionServicer {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &transactionService{
		db:              db,
		budgetService:   budgetService,
		parser:          parser,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		now:             time.Now,
	}
}

// CreateTransaction records a transaction and refreshes the budgets it
// counts against.
func (s *transactionService) CreateTransaction(userID string, in CreateTransactionInput) (*models.Transaction, error) {
	transaction := &models.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Goal:        in.Goal,
		Source:      in.Source,
	}
	if err := s.normalize(transaction); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if transaction.Type == models.TransactionTypeExpense {
			return s.budgetService.RefreshSpent(tx, userID, transaction.Category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(transaction.Type), string(transaction.Source)).Inc()
	return transaction, nil
}

// normalize applies defaults and validates a transaction before it is written.
func (s *transactionService) normalize(t *models.Transaction) error {
	if !t.Type.IsValid() {
		return apperrors.ErrInvalidTransactionType
	}
	if !t.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	t.Amount = t.Amount.Round(2)

	t.Category = strings.TrimSpace(t.Category)
	if err := validateCategory(t.Category); err != nil {
		return err
	}

	t.Description = strings.TrimSpace(t.Description)
	if len([]rune(t.Description)) > maxDescriptionLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 500 characters")
	}

	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	if t.Currency == "" {
		t.Currency = s.defaultCurrency
	}
	if !isCurrencyCode(t.Currency) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be a three-letter ISO 4217 code")
	}

	if t.Date.IsZero() {
		t.Date = s.now().UTC()
	}
	t.Date = models.DateOnly(t.Date)

	if t.Time != "" {
		parsed, err := time.Parse("15:04", t.Time)
		if err != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "time must be HH:MM")
		}
		t.Time = parsed.Format("15:04")
	}

	if t.Goal != nil {
		t.Goal.Name = strings.TrimSpace(t.Goal.Name)
		switch {
		case t.Goal.Name == "":
			t.Goal = nil
		case t.Goal.TargetAmount.IsNegative() || t.Goal.DurationMonths < 0:
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "goal target and duration must not be negative")
		}
	}

	switch t.Source {
	case "":
		t.Source = models.EntrySourceManual
	case models.EntrySourceManual, models.EntrySourceText, models.EntrySourceVoice:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "source must be manual, text or voice")
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// QuickEntry parses free text such as "Spent 600 Rs on Dinner" and records
// the result. source must be text or voice.
func (s *transactionService) QuickEntry(ctx context.Context, userID, text string, source models.EntrySource) (*models.Transaction, error) {
	if source == "" {
		source = models.EntrySourceText
	}
	if source != models.EntrySourceText && source != models.EntrySourceVoice {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "source must be text or voice")
	}

	entry, err := s.ParseEntry(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.CreateTransaction(userID, CreateTransactionInput{
		Type:        entry.Type,
		Amount:      entry.Amount,
		Currency:    entry.Currency,
		Category:    entry.Category,
		Description: entry.Description,
		Date:        entry.Date,
		Source:      source,
	})
}

// ParseEntry runs the entry parser without recording anything, so clients
// can preview what a quick entry would create.
func (s *transactionService) ParseEntry(ctx context.Context, text string) (*entryparser.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text is required")
	}
	if len([]rune(text)) > maxEntryTextLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "text must be at most 500 characters")
	}

	entry, err := s.parser.Parse(ctx, text, s.now().UTC())
	if err != nil {
		if errors.Is(err, entryparser.ErrUnrecognized) {
			metrics.QuickEntryParses.WithLabelValues("none", "unrecognized").Inc()
			return nil, apperrors.ErrUnparseableEntry
		}
		metrics.QuickEntryParses.WithLabelValues("none", "error").Inc()
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	metrics.QuickEntryParses.WithLabelValues(entry.ParsedBy, "ok").Inc()
	return entry, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(`(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`, like, like)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", models.DateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", models.DateOnly(*f.ToDate))
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update. Budgets of both the old and
// the new category are refreshed when either side is an expense.
func (s *transactionService) UpdateTransaction(userID, transactionID string, in UpdateTransactionInput) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	affected := expenseCategories(nil, transaction)

	if in.Type != nil {
		transaction.Type = *in.Type
	}
	if in.Amount != nil {
		transaction.Amount = *in.Amount
	}
	if in.Currency != nil {
		transaction.Currency = *in.Currency
	}
	if in.Category != nil {
		transaction.Category = *in.Category
	}
	if in.Description != nil {
		transaction.Description = *in.Description
	}
	if in.Date != nil {
		transaction.Date = *in.Date
	}
	if in.Time != nil {
		transaction.Time = *in.Time
	}
	if in.ClearGoal {
		transaction.Goal = nil
	} else if in.Goal != nil {
		transaction.Goal = in.Goal
	}
	if err := s.normalize(transaction); err != nil {
		return nil, err
	}
	affected = expenseCategories(affected, transaction)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(affected) > 0 {
			return s.budgetService.RefreshSpent(tx, userID, affected...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction and refreshes the budget it
// counted against.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if transaction.Type == models.TransactionTypeExpense {
			return s.budgetService.RefreshSpent(tx, userID, transaction.Category)
		}
		return nil
	})
}

// expenseCategories appends t's category to cats when t is an expense.
func expenseCategories(cats []string, t *models.Transaction) []string {
	if t.Type != models.TransactionTypeExpense {
		return cats
	}
	for _, c := range cats {
		if c == t.Category {
			return cats
		}
	}
	return append(cats, t.Category)
}
