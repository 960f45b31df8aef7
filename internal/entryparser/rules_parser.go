package entryparser

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// RulesParserName labels entries produced by RulesParser.
const RulesParserName = "rules"

const (
	amountPattern   = `(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?`
	currencyPattern = `(₹|rs\.?|rupees?|inr|\$|usd|dollars?|€|eur|euros?)`
)

type entryPattern struct {
	re  *regexp.Regexp
	typ models.TransactionType
}

// Groups: 1 prefix currency, 2 integer part, 3 fraction, 4 suffix currency,
// 5 description.
func compilePattern(verb, preposition string, typ models.TransactionType) entryPattern {
	expr := `(?i)\b` + verb + `\s+` + currencyPattern + `?\s*` + amountPattern +
		`\s*` + currencyPattern + `?\s+` + preposition + `\s+(.+)`
	return entryPattern{re: regexp.MustCompile(expr), typ: typ}
}

var entryPatterns = []entryPattern{
	compilePattern("spent", "on", models.TransactionTypeExpense),
	compilePattern("earned", "from", models.TransactionTypeIncome),
	compilePattern("lent", "to", models.TransactionTypeLend),
	compilePattern("borrowed", "from", models.TransactionTypeBorrow),
}

var relativeDayRe = regexp.MustCompile(`(?i)\s+(today|yesterday)[.!]?$`)

// RulesParser recognizes the fixed "spent/earned/lent/borrowed" phrasings.
type RulesParser struct {
	rules           Rules
	defaultCurrency string
}

// NewRulesParser creates a RulesParser. An empty defaultCurrency means INR.
func NewRulesParser(rules Rules, defaultCurrency string) *RulesParser {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &RulesParser{rules: rules, defaultCurrency: strings.ToUpper(defaultCurrency)}
}

// Parse implements Parser.
func (p *RulesParser) Parse(_ context.Context, text string, now time.Time) (*Entry, error) {
	text = strings.TrimSpace(text)
	for _, pat := range entryPatterns {
		m := pat.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amount, err := parseAmount(m[2], m[3])
		if err != nil || !amount.IsPositive() {
			return nil, ErrUnrecognized
		}

		currency := p.defaultCurrency
		if c := normalizeCurrency(m[4]); c != "" {
			currency = c
		} else if c := normalizeCurrency(m[1]); c != "" {
			currency = c
		}

		description, date := splitRelativeDay(strings.TrimSpace(m[5]), now)
		if description == "" {
			return nil, ErrUnrecognized
		}

		return &Entry{
			Type:        pat.typ,
			Amount:      amount,
			Currency:    currency,
			Category:    p.rules.Guess(description, pat.typ),
			Description: description,
			Date:        date,
			ParsedBy:    RulesParserName,
		}, nil
	}
	return nil, ErrUnrecognized
}

func parseAmount(whole, fraction string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(whole, ",", "")
	if fraction != "" {
		s += "." + fraction
	}
	return decimal.NewFromString(s)
}

func normalizeCurrency(token string) string {
	switch strings.TrimSuffix(strings.ToLower(token), ".") {
	case "₹", "rs", "rupee", "rupees", "inr":
		return "INR"
	case "$", "usd", "dollar", "dollars":
		return "USD"
	case "€", "eur", "euro", "euros":
		return "EUR"
	}
	return ""
}

func splitRelativeDay(description string, now time.Time) (string, time.Time) {
	today := models.DateOnly(now)
	m := relativeDayRe.FindStringSubmatch(description)
	if m == nil {
		return description, today
	}
	description = strings.TrimSpace(description[:len(description)-len(m[0])])
	if strings.EqualFold(m[1], "yesterday") {
		return description, today.AddDate(0, 0, -1)
	}
	return description, today
}
