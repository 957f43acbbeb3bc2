package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal is a JSON-flexible decimal amount. The upstream API emits amounts
// in three shapes depending on the collection: a plain number, a numeric
// string, or a Mongo extended-JSON object {"$numberDecimal": "123.45"}.
// All three decode into the same exact decimal value.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal builds a Decimal from a string, failing on malformed input.
func NewDecimal(s string) (Decimal, error) {
	d, errParse := decimal.NewFromString(s)
	if errParse != nil {
		return Decimal{}, fmt.Errorf("models: parse decimal %q: %w", s, errParse)
	}
	return Decimal{Decimal: d}, nil
}

// UnmarshalJSON accepts numbers, numeric strings and $numberDecimal objects.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		d.Decimal = decimal.Zero
		return nil
	}
	if trimmed[0] == '{' {
		var extended struct {
			Value string `json:"$numberDecimal"`
		}
		if errUnmarshal := json.Unmarshal(trimmed, &extended); errUnmarshal != nil {
			return fmt.Errorf("models: decode $numberDecimal: %w", errUnmarshal)
		}
		parsed, errParse := decimal.NewFromString(extended.Value)
		if errParse != nil {
			return fmt.Errorf("models: parse $numberDecimal %q: %w", extended.Value, errParse)
		}
		d.Decimal = parsed
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		if errUnmarshal := json.Unmarshal(trimmed, &raw); errUnmarshal != nil {
			return fmt.Errorf("models: decode decimal string: %w", errUnmarshal)
		}
		if raw == "" {
			d.Decimal = decimal.Zero
			return nil
		}
	}
	parsed, errParse := decimal.NewFromString(raw)
	if errParse != nil {
		return fmt.Errorf("models: parse decimal %q: %w", raw, errParse)
	}
	d.Decimal = parsed
	return nil
}
