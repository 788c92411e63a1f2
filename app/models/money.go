package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/km-arc/go-entob/framework/entity"
	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
)

// Currencies accepted by Money.
var Currencies = []string{"RUB", "USD", "EUR"}

// Money is an amount in one of Currencies. The amount is a decimal rounded
// half away from zero to two places.
//
//	m, err := models.Money.Make(entity.Values{"amount": "35.125", "currency": "USD"})
//	m.String() // Money(amount=35.13, currency="USD")
var Money = entity.Define("Money").
	Field("amount", field.MustDescribe(
		field.Types(shape.Of[decimal.Decimal]()),
		field.Coerce(ToAmount),
		field.Serialize(func(v any) any { return v.(decimal.Decimal).StringFixed(2) }),
	)).
	Field("currency", field.MustDescribe(
		field.Types(shape.Of[string]()),
		field.Coerce(func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return strings.ToUpper(strings.TrimSpace(s)), nil
			}
			return v, nil
		}),
		field.Enums(Currencies),
	)).
	MustBuild()

// ToAmount converts strings, floats, integers and decimals into a decimal
// rounded to two places. nil passes through.
func ToAmount(v any) (any, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return nil, nil
	case decimal.Decimal:
		d = x
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return nil, err
		}
		d = parsed
	case float64:
		d = decimal.NewFromFloat(x)
	case float32:
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	default:
		return nil, fmt.Errorf("cannot convert %T to an amount", v)
	}
	return d.Round(2), nil
}

// NewMoney builds a Money entity.
func NewMoney(amount any, currency string) (*entity.Entity, error) {
	return Money.Make(entity.Values{"amount": amount, "currency": currency})
}
