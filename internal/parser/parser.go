// Package parser extracts a structured quote from free-form assistant text.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/teslaing/cotizador/internal/models"
)

// Parse failure kinds. All are recoverable: the conversation continues and
// the user is asked to clarify.
var (
	ErrMalformedJSON = errors.New("malformed quote json")
	ErrMissingItems  = errors.New("missing items array")
	ErrEmptyItems    = errors.New("empty items array")
	ErrInvalidItem   = errors.New("invalid item fields")
)

// Result holds the outcome of inspecting one assistant reply.
type Result struct {
	// Quote is non-nil when a valid quote payload was extracted.
	Quote *models.Quote
	// Reply is the original assistant text, always set.
	Reply string
	// Raw is the JSON candidate, retained for the debug view on failure.
	Raw string
}

// IsQuote reports whether the reply carried a quote payload.
func (r *Result) IsQuote() bool { return r.Quote != nil }

// Parse inspects assistant text. Text without both a "{" and the literal
// `"items"` is a plain conversational reply, not an error. A candidate
// payload must contain a balanced JSON object with a non-empty items array
// whose rows have a non-empty description and non-negative numeric
// quantity and unit price.
func Parse(text string) (*Result, error) {
	stripped := stripFences(text)
	if !strings.Contains(stripped, "{") || !strings.Contains(stripped, `"items"`) {
		return &Result{Reply: text}, nil
	}

	candidate, ok := extractObject(stripped)
	if !ok {
		return &Result{Reply: text, Raw: stripped}, fmt.Errorf("parser: unbalanced object: %w", ErrMalformedJSON)
	}
	res := &Result{Reply: text, Raw: candidate}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &top); err != nil {
		return res, fmt.Errorf("parser: %v: %w", err, ErrMalformedJSON)
	}

	itemsRaw, found := top["items"]
	if !found {
		return res, fmt.Errorf("parser: %w", ErrMissingItems)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(itemsRaw, &rows); err != nil {
		return res, fmt.Errorf("parser: items is not an array: %w", ErrMissingItems)
	}
	if len(rows) == 0 {
		return res, fmt.Errorf("parser: %w", ErrEmptyItems)
	}

	items := make([]models.LineItem, len(rows))
	for i, row := range rows {
		var it models.LineItem
		if err := json.Unmarshal(row, &it); err != nil {
			return res, fmt.Errorf("parser: item %d: %v: %w", i, err, ErrInvalidItem)
		}
		if err := validateItem(it); err != nil {
			return res, fmt.Errorf("parser: item %d: %v: %w", i, err, ErrInvalidItem)
		}
		items[i] = it
	}

	var q models.Quote
	if err := json.Unmarshal([]byte(candidate), &q); err != nil {
		return res, fmt.Errorf("parser: %v: %w", err, ErrMalformedJSON)
	}
	q.Items = items
	res.Quote = &q
	return res, nil
}

func validateItem(it models.LineItem) error {
	if strings.TrimSpace(it.Description) == "" {
		return errors.New("empty description")
	}
	if it.Quantity < 0 || math.IsNaN(it.Quantity) || math.IsInf(it.Quantity, 0) {
		return fmt.Errorf("bad quantity %v", it.Quantity)
	}
	if it.UnitPrice < 0 || math.IsNaN(it.UnitPrice) || math.IsInf(it.UnitPrice, 0) {
		return fmt.Errorf("bad unit price %v", it.UnitPrice)
	}
	return nil
}

// stripFences removes Markdown code-fence markers. A ```json fence narrows
// the candidate to the fenced block, matching how models wrap payloads.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
		return strings.TrimSpace(rest)
	}
	return strings.ReplaceAll(s, "```", "")
}

// extractObject returns the first balanced JSON object in s. The scanner
// tracks brace depth and string/escape state, so braces in prose after the
// object or inside string values do not confuse it.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
