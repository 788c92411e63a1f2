// Package field implements the per-field validation contract.
//
// A Descriptor holds the contract (accepted shapes, default, nullability,
// enum values, validator, coercion, readonly). Binding it to a name yields an
// Attribute, which reads and writes one slot of an instance's Storage.
//
//	currency := field.MustDescribe(
//	    field.Types(shape.Of[string]()),
//	    field.Enum("RUB", "USD", "EUR"),
//	).Bind("Money", "currency")
//
//	err := currency.Set(instance, "GBP")
//	errors.Is(err, field.ErrEnum) // true
//
// # Assignment pipeline
//
//  1. nil with a default: materialize the default (calling the producer) and
//     re-check it against the shapes; failure is ErrConfiguration
//  2. coerce
//  3. nil and not nullable: ErrRequired
//  4. readonly and already holding a non-nil value: ErrReadonly
//  5. nil: store, mark modified
//  6. shape check: ErrType
//  7. enum check: ErrEnum
//  8. validator: ErrInvalid
//  9. store, mark modified
//
// EnvAttribute adds an environment key consulted when construction data
// does not carry the field.
package field
