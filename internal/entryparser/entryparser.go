// Package entryparser turns short free-text descriptions such as
// "Spent 600 Rs on Dinner" into transaction drafts.
package entryparser

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/config"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// ErrUnrecognized is returned when no parser understands the text.
var ErrUnrecognized = errors.New("entryparser: unrecognized entry")

// Entry is a parsed transaction draft.
type Entry struct {
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Currency    string                 `json:"currency"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        time.Time              `json:"date"`
	ParsedBy    string                 `json:"parsed_by"`
}

// Parser converts text into an Entry. now supplies the reference date for
// relative words such as "yesterday".
type Parser interface {
	Parse(ctx context.Context, text string, now time.Time) (*Entry, error)
}

// Chain tries each parser in order and returns the first success.
type Chain []Parser

// Parse implements Parser.
func (c Chain) Parse(ctx context.Context, text string, now time.Time) (*Entry, error) {
	for _, p := range c {
		entry, err := p.Parse(ctx, text, now)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, ErrUnrecognized) {
			logger.Get().Warnw("entry parser failed", "parser", parserName(p), "error", err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, ErrUnrecognized
}

func parserName(p Parser) string {
	switch p.(type) {
	case *RulesParser:
		return RulesParserName
	case *LLMParser:
		return LLMParserName
	}
	return "unknown"
}

// New builds the parser used for quick entries: the rules parser first, then
// the LLM parser when it is enabled in cfg.
func New(cfg *config.Config) Parser {
	chain := Chain{NewRulesParser(RulesFromConfig(cfg.Parser), cfg.DefaultCurrency)}
	if cfg.LLM.Enabled {
		chain = append(chain, NewLLMParser(cfg.LLM, cfg.DefaultCurrency))
	}
	return chain
}
