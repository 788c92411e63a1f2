// Package validators provides validators, coercers and descriptor presets
// for entity fields, plus the rule-string Validator used on raw inputs.
//
// # Field validators
//
//	email := field.MustDescribe(
//	    field.Types(shape.Of[string]()),
//	    field.Coerce(validators.Trim),
//	    field.Validate(validators.All(validators.Email, validators.MaxLen(255))),
//	)
//
//	quantity := validators.MustBoundedInt(1, 100)   // int, coerced with ToInt
//	retries  := validators.NonNegativeInt()
//
// Each and CoerceEach lift an element validator or coercer to collections.
//
// # Rule strings
//
// Rule compiles the pipe-separated syntax into a field validator, and
// Validator applies Rules to a flat map of strings such as query
// parameters:
//
//	v := validators.Make(query, validators.Rules{
//	    "status": "nullable|in:pending,settled",
//	    "limit":  "sometimes|integer|gte:1|lte:100",
//	})
//	if v.Fails() {
//	    // v.Errors(): {"errors": {"limit": ["The limit must be an integer."]}}
//	}
//
// String rules:
//   - required        field must be present and non-empty
//   - min:n, max:n    rune count bounds
//   - size:n          exact rune count
//   - between:a,b     rune count within [a, b]
//   - alpha, alpha_num, alpha_dash
//   - regex:pattern
//
// Format rules: email, url.
//
// Numeric rules: numeric, integer, gt:n, gte:n, lt:n, lte:n.
//
// Comparison rules (Validator only): confirmed, same:other, different:other.
//
// Type rules: boolean, in:a,b,c, not_in:a,b,c.
//
// Control rules: nullable and sometimes end the chain silently on an empty
// value.
//
// # Error bag
//
// FromError turns entity construction errors into the same bag, so both
// sources render as
//
//	{"errors": {"currency": ["The selected currency is invalid."]}}
package validators
