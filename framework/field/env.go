package field

import "github.com/km-arc/go-entob/framework/env"

// EnvAttribute is an Attribute whose initial value comes from an env.Store
// when the construction data does not supply one.
type EnvAttribute struct {
	*Attribute
	key string
}

// BindEnv binds d to name, sourcing its initial value from key.
//
//	port := field.MustDescribe(
//	    field.Types(shape.Of[int]()),
//	    field.Coerce(validators.ToInt),
//	    field.Default(1234),
//	).BindEnv("PostgresConfig", "port", "POSTGRES_PORT")
func (d *Descriptor) BindEnv(owner, name, key string) *EnvAttribute {
	return &EnvAttribute{Attribute: d.Bind(owner, name), key: key}
}

// Key returns the environment key.
func (a *EnvAttribute) Key() string { return a.key }

// Resolve picks the raw value for construction: the explicit value when
// present, otherwise the store entry. The store is queried at most once; an
// unset key yields nil so that the default applies.
func (a *EnvAttribute) Resolve(store env.Store, explicit any, present bool) any {
	if present {
		return explicit
	}
	if store == nil {
		return nil
	}
	if v, ok := store.Lookup(a.key); ok {
		return v
	}
	return nil
}
