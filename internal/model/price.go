package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Price is a currency amount. It never goes through float64. A price parsed
// from text keeps that text so an unchanged price is written back as it came
// in; computed prices are written with two fraction digits.
type Price struct {
	decimal.Decimal
	text string
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{Decimal: d, text: s}, nil
}

func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Text returns the source text of a parsed price, otherwise the amount with
// exactly two fraction digits, rounding half-up.
func (p Price) Text() string {
	if p.text != "" {
		return p.text
	}
	return p.Decimal.StringFixed(2)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Text())
}

// UnmarshalJSON accepts both "129.90" and 129.90. Numbers are normalized to
// two-digit text on the way out.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = Price{}
		return nil
	}
	if len(b) == 0 || b[0] != '"' {
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("invalid price %s: %w", b, err)
		}
		*p = NewPrice(d)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = Price{}
		return nil
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(p.Text())
}

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var raw string
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
