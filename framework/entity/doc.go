// Package entity builds value objects whose fields are checked on every
// assignment.
//
// A Type is declared once with a Builder and then frozen:
//
//	var Money = entity.Define("Money").
//	    Field("amount", field.MustDescribe(
//	        field.Types(shape.Of[decimal.Decimal]()),
//	        field.Coerce(toAmount),
//	    )).
//	    Field("currency", field.MustDescribe(
//	        field.Types(shape.Of[string]()),
//	        field.Enum("RUB", "USD", "EUR"),
//	    )).
//	    MustBuild()
//
//	m, err := Money.Make(entity.Values{"amount": "35.125", "currency": "USD"})
//	m.String()   // Money(amount=35.13, currency="USD")
//
// Construction resolves env-bound fields first (EnvField), then plain fields,
// then dependency slots (Dependency), which are filled from a
// container.Provider and ignore any input under their name. The modified
// set is empty once New returns; each later Set adds exactly its field.
//
// Extends merges a parent's members into a child. A child redeclaring a
// name replaces the parent's descriptor entirely.
//
// ToMap projects exactly the declared fields, so Type.New(e.ToMap())
// rebuilds an entity equal to e. Dependency slots are neither fields nor
// part of the projection.
package entity
