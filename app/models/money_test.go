package models_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entob/app/models"
	"github.com/km-arc/go-entob/framework/entity"
	"github.com/km-arc/go-entob/framework/field"
)

func amountOf(t *testing.T, m *entity.Entity) decimal.Decimal {
	t.Helper()
	d, err := entity.Value[decimal.Decimal](m, "amount")
	require.NoError(t, err)
	return d
}

func TestMoney_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount any
		want   string
	}{
		{"string", "35.125", "35.13"},
		{"string down", "35.124", "35.12"},
		{"negative", "-1.005", "-1.01"},
		{"float", 2.5, "2.50"},
		{"int", 100000, "100000.00"},
		{"int64", int64(7), "7.00"},
		{"decimal", decimal.RequireFromString("0.015"), "0.02"},
		{"padded string", " 12 ", "12.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := models.NewMoney(tt.amount, "USD")
			require.NoError(t, err)
			assert.Equal(t, tt.want, amountOf(t, m).StringFixed(2))
		})
	}
}

func TestMoney_String(t *testing.T) {
	m, err := models.NewMoney("35.125", "USD")
	require.NoError(t, err)
	assert.Equal(t, `Money(amount=35.13, currency="USD")`, m.String())
}

func TestMoney_CurrencyNormalized(t *testing.T) {
	m, err := models.NewMoney("1", " eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", mustString(t, m, "currency"))
}

func TestMoney_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values entity.Values
		kind   error
		field  string
	}{
		{"unknown currency", entity.Values{"amount": "1", "currency": "GBP"}, field.ErrEnum, "currency"},
		{"amount not a number", entity.Values{"amount": "ten", "currency": "USD"}, field.ErrInvalid, "amount"},
		{"amount of the wrong kind", entity.Values{"amount": true, "currency": "USD"}, field.ErrInvalid, "amount"},
		{"missing amount", entity.Values{"currency": "USD"}, field.ErrRequired, "amount"},
		{"missing currency", entity.Values{"amount": "1"}, field.ErrRequired, "currency"},
		{"currency not a string", entity.Values{"amount": "1", "currency": 840}, field.ErrType, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.Money.Make(tt.values)
			require.ErrorIs(t, err, tt.kind)
			fe, ok := field.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestMoney_EqualAcrossInputKinds(t *testing.T) {
	a, err := models.NewMoney("10", "USD")
	require.NoError(t, err)
	b, err := models.NewMoney(10.0, "USD")
	require.NoError(t, err)
	c, err := models.NewMoney(10, "EUR")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestMoney_RoundTrip(t *testing.T) {
	m, err := models.NewMoney("35.12", "RUB")
	require.NoError(t, err)

	again, err := models.Money.New(m.ToMap())
	require.NoError(t, err)
	assert.True(t, m.Equal(again))
	assert.Empty(t, again.ModifiedFields())
}

func TestMoney_JSON(t *testing.T) {
	m, err := models.NewMoney(5, "USD")
	require.NoError(t, err)

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"5.00","currency":"USD"}`, string(raw))
}

func TestMoney_SetKeepsRounding(t *testing.T) {
	m, err := models.NewMoney("1", "USD")
	require.NoError(t, err)

	require.NoError(t, m.Set("amount", "2.345"))
	assert.Equal(t, "2.35", amountOf(t, m).String())
	assert.Equal(t, []string{"amount"}, m.ModifiedFields())

	require.ErrorIs(t, m.Set("currency", "JPY"), field.ErrEnum)
	assert.Equal(t, "USD", mustString(t, m, "currency"))
}
