package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entob/app/models"
	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/entity"
	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/validators"
)

func mustString(t *testing.T, e *entity.Entity, name string) string {
	t.Helper()
	s, err := entity.Value[string](e, name)
	require.NoError(t, err)
	return s
}

func newPayment(t *testing.T, values entity.Values) *entity.Entity {
	t.Helper()
	p, err := models.Payment.New(values)
	require.NoError(t, err)
	return p
}

func usd(amount string) entity.Values {
	return entity.Values{"money": map[string]any{"amount": amount, "currency": "USD"}}
}

func TestPayment_Defaults(t *testing.T) {
	p := newPayment(t, usd("35.125"))

	_, err := uuid.Parse(mustString(t, p, "id"))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, mustString(t, p, "status"))
	assert.Empty(t, p.ModifiedFields())

	money, err := entity.Value[*entity.Entity](p, "money")
	require.NoError(t, err)
	want, err := models.NewMoney("35.13", "USD")
	require.NoError(t, err)
	assert.True(t, money.Equal(want))
}

func TestPayment_IDsAreUnique(t *testing.T) {
	a := newPayment(t, usd("1"))
	b := newPayment(t, usd("1"))
	assert.NotEqual(t, mustString(t, a, "id"), mustString(t, b, "id"))
	assert.False(t, a.Equal(b))
}

func TestPayment_IDReadonly(t *testing.T) {
	p := newPayment(t, usd("1"))
	id := mustString(t, p, "id")

	require.ErrorIs(t, p.Set("id", uuid.NewString()), field.ErrReadonly)
	assert.Equal(t, id, mustString(t, p, "id"))
}

func TestPayment_RejectsMalformedID(t *testing.T) {
	values := usd("1")
	values["id"] = "not-a-uuid"
	_, err := models.Payment.New(values)
	require.ErrorIs(t, err, field.ErrInvalid)
}

func TestPayment_Tags(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"single string", "rent", []string{"rent"}},
		{"json list", []any{" rent ", "q3-2026"}, []string{"rent", "q3-2026"}},
		{"form list", []string{"a", "b"}, []string{"a", "b"}},
		{"absent", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := usd("1")
			values["tags"] = tt.in
			p := newPayment(t, values)
			got, err := entity.Value[[]string](p, "tags")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	values := usd("1")
	values["tags"] = []any{"two words"}
	_, err := models.Payment.New(values)
	require.ErrorIs(t, err, field.ErrInvalid)
}

func TestPayment_InvalidNestedMoney(t *testing.T) {
	_, err := models.Payment.New(entity.Values{
		"money": map[string]any{"amount": "1", "currency": "GBP"},
	})
	require.ErrorIs(t, err, field.ErrEnum)
	assert.True(t, validators.IsInput(err))

	bag := validators.FromError(err)
	require.NotNil(t, bag)
	assert.Equal(t, "The money is invalid.", bag.First("money"))
}

func TestPayment_StatusEnum(t *testing.T) {
	p := newPayment(t, usd("1"))

	require.NoError(t, p.Set("status", models.StatusSettled))
	require.ErrorIs(t, p.Set("status", "refunded"), field.ErrEnum)
	assert.Equal(t, models.StatusSettled, mustString(t, p, "status"))
}

func TestPayment_SharesLedger(t *testing.T) {
	values := usd("1")
	values["ledger"] = "ignored"
	a := newPayment(t, values)
	b := newPayment(t, usd("2"))

	la, err := models.LedgerOf(a)
	require.NoError(t, err)
	lb, err := models.LedgerOf(b)
	require.NoError(t, err)
	assert.Same(t, la, lb)

	require.ErrorIs(t, a.Set("ledger", &services.Ledger{}), field.ErrReadonly)
}

func TestPayment_LedgerIsNotData(t *testing.T) {
	p := newPayment(t, usd("3"))

	assert.NotContains(t, p.Fields(), "ledger")
	assert.NotContains(t, p.ToMap(), "ledger")
	assert.Equal(t, []string{"ledger"}, models.Payment.Dependencies())

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotContains(t, body, "ledger")
	assert.Equal(t, map[string]any{"amount": "3.00", "currency": "USD"}, body["money"])
}

func TestRecord(t *testing.T) {
	p := newPayment(t, usd("4"))
	ledger, err := models.LedgerOf(p)
	require.NoError(t, err)
	before := ledger.Len()

	require.NoError(t, models.Record(p))
	require.ErrorIs(t, models.Record(p), services.ErrDuplicate)
	assert.Equal(t, before+1, ledger.Len())

	stored, ok := ledger.Get(mustString(t, p, "id"))
	require.True(t, ok)
	assert.True(t, stored.Equal(p))
}

func TestRecord_RejectsOtherTypes(t *testing.T) {
	m, err := models.NewMoney("1", "USD")
	require.NoError(t, err)
	assert.Error(t, models.Record(m))
}

func TestPayment_DescriptionLength(t *testing.T) {
	values := usd("1")
	values["description"] = strings.Repeat("x", 141)
	_, err := models.Payment.New(values)
	require.ErrorIs(t, err, field.ErrInvalid)
}
