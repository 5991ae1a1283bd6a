package payroll

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ResolvedComponent is a component evaluated against a base salary.
type ResolvedComponent struct {
	Name   string
	Amount decimal.Decimal
	Type   AmountType
	Value  decimal.Decimal
}

// Breakdown keeps resolved components in the order the structure declares them. It encodes as a JSON
// object keyed by component name, {"Basic": {"amount": 400, "type": "percentage", "value": 40}, ...},
// with keys in that order.
type Breakdown []ResolvedComponent

type breakdownEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Type   AmountType      `json:"type"`
	Value  decimal.Decimal `json:"value"`
}

func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b {
		total = total.Add(c.Amount)
	}
	return total
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		typ, err := json.Marshal(c.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(`:{"amount":`)
		buf.WriteString(c.Amount.String())
		buf.WriteString(`,"type":`)
		buf.Write(typ)
		buf.WriteString(`,"value":`)
		buf.WriteString(c.Value.String())
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("breakdown: expected object, got %v", tok)
	}

	out := Breakdown{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("breakdown: expected component name, got %v", tok)
		}

		var entry breakdownEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("breakdown: component %q: %w", name, err)
		}
		out = append(out, ResolvedComponent{
			Name:   name,
			Amount: entry.Amount,
			Type:   entry.Type,
			Value:  entry.Value,
		})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}
