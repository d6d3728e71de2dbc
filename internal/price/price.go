// Package price validates and parses locale-formatted price text.
package price

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotAPrice is returned when text does not validate as a price.
// Malformed input is a normal outcome for this parser, not a fault.
var ErrNotAPrice = errors.New("text is not a price")

// Price is a validated price: the canonical display text and its
// decimal value.
type Price struct {
	Text  string
	Value decimal.Decimal
}

// pattern: thousands grouped by dots, two decimals after a comma,
// e.g. "12.345,67". The currency suffix is validated separately.
var amountPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)

// Parser validates raw extracted text against the locale price format.
// Text containing any blacklisted token is rejected even if it would
// otherwise match, so installment, shipping and rating snippets cannot
// masquerade as prices.
type Parser struct {
	currency  string
	blacklist []string
}

func NewParser(currency string, blacklist []string) *Parser {
	lowered := make([]string, 0, len(blacklist))
	for _, token := range blacklist {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			lowered = append(lowered, token)
		}
	}
	return &Parser{currency: currency, blacklist: lowered}
}

// Parse normalizes raw text and returns the validated price.
func (p *Parser) Parse(raw string) (Price, error) {
	text := Normalize(raw)
	if text == "" {
		return Price{}, fmt.Errorf("empty text: %w", ErrNotAPrice)
	}

	lower := strings.ToLower(text)
	for _, token := range p.blacklist {
		if strings.Contains(lower, token) {
			return Price{}, fmt.Errorf("contains %q: %w", token, ErrNotAPrice)
		}
	}

	amount, ok := strings.CutSuffix(text, " "+p.currency)
	if !ok {
		// Some page shapes glue the suffix to the amount.
		amount, ok = strings.CutSuffix(text, p.currency)
		if !ok {
			return Price{}, fmt.Errorf("missing %q suffix: %w", p.currency, ErrNotAPrice)
		}
		amount = strings.TrimSpace(amount)
	}

	if !amountPattern.MatchString(amount) {
		return Price{}, fmt.Errorf("malformed amount %q: %w", amount, ErrNotAPrice)
	}

	plain := strings.ReplaceAll(amount, ".", "")
	plain = strings.ReplaceAll(plain, ",", ".")
	value, err := decimal.NewFromString(plain)
	if err != nil {
		return Price{}, fmt.Errorf("amount %q: %w", amount, ErrNotAPrice)
	}

	return Price{Text: amount + " " + p.currency, Value: value}, nil
}

// Format renders a decimal value back into canonical price text,
// the inverse of Parse for valid inputs.
func (p *Parser) Format(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return grouped.String() + "," + fracPart + " " + p.currency
}

// Normalize collapses whitespace, replaces non-breaking spaces and
// trims the text. It does not validate.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, " ", " ")
	text = strings.Join(strings.Fields(text), " ")
	return text
}
