package models

import (
	"errors"

	"github.com/google/uuid"

	"github.com/km-arc/go-entob/app/providers"
	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/entity"
	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
	"github.com/km-arc/go-entob/framework/validators"
)

// Payment statuses.
const (
	StatusPending = "pending"
	StatusSettled = "settled"
	StatusFailed  = "failed"
)

// Payment is a Money transfer recorded in the ledger. The ledger slot is
// filled from the process-wide ledger provider and is not part of the
// payment's data.
var Payment = entity.Define("Payment").
	Field("id", field.MustDescribe(
		field.Types(shape.Of[string]()),
		field.DefaultFunc(func() any { return uuid.NewString() }),
		field.Readonly(),
		field.Validate(func(v any) bool {
			_, err := uuid.Parse(v.(string))
			return err == nil
		}),
	)).
	Field("money", field.MustDescribe(entity.Nested(Money)...)).
	Field("status", field.MustDescribe(
		field.Types(shape.Of[string]()),
		field.Default(StatusPending),
		field.Enum(StatusPending, StatusSettled, StatusFailed),
	)).
	Field("description", field.MustDescribe(
		field.Types(shape.Of[string]()),
		field.Coerce(validators.Trim),
		field.Nullable(),
		field.Validate(validators.MustRule("max:140")),
	)).
	Field("tags", field.MustDescribe(
		field.Types(shape.SliceOf(shape.Of[string]())),
		field.Coerce(validators.Chain(list, validators.CoerceEach(validators.Trim), validators.Strings)),
		field.Nullable(),
		field.Validate(validators.Each(validators.Regex(`^[A-Za-z0-9_-]+$`))),
	)).
	Dependency("ledger", providers.Ledger).
	MustBuild()

// list wraps a lone string into a one-element list.
func list(v any) (any, error) {
	if s, ok := v.(string); ok {
		return []any{s}, nil
	}
	return v, nil
}

// LedgerOf returns the ledger a payment was built with.
func LedgerOf(p *entity.Entity) (*services.Ledger, error) {
	return entity.Value[*services.Ledger](p, "ledger")
}

// Record stores p in its ledger.
func Record(p *entity.Entity) error {
	if !p.Type().Extends(Payment) {
		return errors.New("models: not a payment")
	}
	ledger, err := LedgerOf(p)
	if err != nil {
		return err
	}
	return ledger.Record(p)
}
