package entryparser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"fintrack/internal/config"
	"fintrack/internal/models"
)

// LLMParserName labels entries produced by LLMParser.
const LLMParserName = "llm"

const llmSystemPrompt = `You extract one personal finance transaction from a short sentence.
Return only minified JSON in one line. No comments. No markdown.

OUTPUT JSON SCHEMA:
{"type":string,"amount":number,"currency":string,"category":string,"description":string}

RULES:
- type MUST be one of: income, expense, lend, borrow.
- amount MUST be a positive number without currency symbols.
- currency MUST be an ISO 4217 code. Use %s when the sentence names none.
- For expense, category MUST be exactly one of: %s.
- For income, category MUST be exactly one of: %s.
- For lend and borrow, category MUST be Loan.
- description is a short noun phrase for what the money was for.
- If the sentence is not a transaction return {"type":""}.`

// LLMParser asks an OpenAI-compatible chat completion endpoint to extract an
// entry. It works against OpenAI and against Ollama's /v1 API.
type LLMParser struct {
	client          *openai.Client
	model           string
	timeout         time.Duration
	defaultCurrency string
}

type llmEntry struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// NewLLMParser creates an LLMParser from cfg.
func NewLLMParser(cfg config.LLMConfig, defaultCurrency string) *LLMParser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &LLMParser{
		client:          openai.NewClientWithConfig(clientCfg),
		model:           cfg.Model,
		timeout:         cfg.Timeout,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

// Parse implements Parser.
func (p *LLMParser) Parse(ctx context.Context, text string, now time.Time) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrUnrecognized
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(llmSystemPrompt, p.defaultCurrency,
		strings.Join(models.ExpenseCategories, ", "),
		strings.Join(models.IncomeCategories, ", "))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	var raw llmEntry
	content := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("llm returned invalid json: %w", err)
	}
	return p.toEntry(raw, text, now)
}

func (p *LLMParser) toEntry(raw llmEntry, text string, now time.Time) (*Entry, error) {
	typ := models.TransactionType(strings.ToLower(strings.TrimSpace(raw.Type)))
	if !typ.IsValid() {
		return nil, ErrUnrecognized
	}

	amount := decimal.NewFromFloat(raw.Amount).Round(2)
	if !amount.IsPositive() {
		return nil, ErrUnrecognized
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if len(currency) != 3 {
		currency = p.defaultCurrency
	}

	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = text
	}

	return &Entry{
		Type:        typ,
		Amount:      amount,
		Currency:    currency,
		Category:    catalogCategory(raw.Category, typ),
		Description: description,
		Date:        models.DateOnly(now),
		ParsedBy:    LLMParserName,
	}, nil
}

// catalogCategory maps a model-supplied category onto the catalog spelling,
// falling back to Other for anything outside it.
func catalogCategory(category string, typ models.TransactionType) string {
	category = strings.TrimSpace(category)
	for _, c := range models.CategoriesFor(typ) {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	if typ == models.TransactionTypeLend || typ == models.TransactionTypeBorrow {
		return models.LoanCategory
	}
	return models.OtherCategory
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
