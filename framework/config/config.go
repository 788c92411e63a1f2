package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/km-arc/go-entob/framework/entity"
	"github.com/km-arc/go-entob/framework/env"
	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
	"github.com/km-arc/go-entob/framework/validators"
)

var schemas sync.Map // schemaKey → *entity.Type

// schemaKey identifies store: by value when comparable, by reference for
// maps and pointers. Other stores get no key and a fresh schema each time.
func schemaKey(store env.Store) (any, bool) {
	if store == nil {
		return nil, true
	}
	rv := reflect.ValueOf(store)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func:
		return struct {
			t reflect.Type
			p uintptr
		}{rv.Type(), rv.Pointer()}, true
	}
	if rv.Type().Comparable() {
		return store, true
	}
	return nil, false
}

// Schema returns the AppConfig entity type reading from store. The type is
// built once per store, so configs read from one store compare Equal.
//
//	APP_NAME   name       string, default "GoEntob"
//	APP_ENV    env        local | production | testing
//	APP_DEBUG  debug      bool, default true
//	APP_URL    url        http(s) URL, default "http://localhost"
//	APP_PORT   port       1..65535, default 8000
//	LOG_LEVEL  log_level  debug | info | warn | error
func Schema(store env.Store) *entity.Type {
	key, ok := schemaKey(store)
	if !ok {
		return buildSchema(store)
	}
	if t, hit := schemas.Load(key); hit {
		return t.(*entity.Type)
	}
	t, _ := schemas.LoadOrStore(key, buildSchema(store))
	return t.(*entity.Type)
}

func buildSchema(store env.Store) *entity.Type {
	str := func(def string, opts ...field.Option) *field.Descriptor {
		return field.MustDescribe(append([]field.Option{
			field.Types(shape.Of[string]()),
			field.Coerce(validators.Trim),
			field.Default(def),
		}, opts...)...)
	}
	return entity.Define("AppConfig").
		EnvField("name", "APP_NAME", str("GoEntob", field.Validate(validators.MinLen(1)))).
		EnvField("env", "APP_ENV", str("local", field.Enum("local", "production", "testing"))).
		EnvField("debug", "APP_DEBUG", field.MustDescribe(
			field.Types(shape.Of[bool]()),
			field.Coerce(validators.ToBool),
			field.Default(true),
		)).
		EnvField("url", "APP_URL", str("http://localhost", field.Validate(validators.URL))).
		EnvField("port", "APP_PORT", field.MustDescribe(
			field.Types(shape.Of[int]()),
			field.Coerce(validators.ToInt),
			field.Default(8000),
			field.Validate(func(v any) bool { return v.(int) >= 1 && v.(int) <= 65535 }),
		)).
		EnvField("log_level", "LOG_LEVEL", str("info",
			field.Coerce(func(v any) (any, error) {
				if s, ok := v.(string); ok {
					return strings.ToLower(strings.TrimSpace(s)), nil
				}
				return v, nil
			}),
			field.Enum("debug", "info", "warn", "error"),
		)).
		WithEnvStore(store).
		MustBuild()
}

// Config is a validated AppConfig entity with typed accessors.
type Config struct {
	*entity.Entity
}

// Load reads .env files into the process environment (missing files are
// skipped) and builds the config from it.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	env.Load(envFiles...)
	return FromStore(env.OS())
}

// FromStore builds the config from store. overrides win over the store.
func FromStore(store env.Store, overrides ...entity.Values) (*Config, error) {
	e, err := Schema(store).Make(overrides...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &Config{Entity: e}, nil
}

func value[T any](c *Config, name string) T {
	v, _ := entity.Value[T](c.Entity, name)
	return v
}

func (c *Config) Name() string  { return value[string](c, "name") }
func (c *Config) Env() string   { return value[string](c, "env") }
func (c *Config) Debug() bool   { return value[bool](c, "debug") }
func (c *Config) URL() string   { return value[string](c, "url") }
func (c *Config) Port() int     { return value[int](c, "port") }
func (c *Config) Addr() string  { return fmt.Sprintf(":%d", c.Port()) }
func (c *Config) IsLocal() bool { return c.Env() == "local" }

// LogLevel maps log_level to a slog.Level.
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(value[string](c, "log_level"))); err != nil {
		return slog.LevelInfo
	}
	return l
}
