package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store is a read-only key → string lookup. An unset key reports ok=false.
type Store interface {
	Lookup(key string) (string, bool)
}

// ── Stores ───────────────────────────────────────────────────────────────────

type osStore struct{}

func (osStore) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// OS returns the process environment as a Store.
func OS() Store { return osStore{} }

// Map is an in-memory Store, handy in tests.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// File parses one or more .env files without touching the process
// environment. Later files override earlier ones.
//
//	store, err := env.File(".env", ".env.local")
func File(paths ...string) (Map, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	out := Map{}
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("env: read %s: %w", p, err)
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out, nil
}

// Chain consults stores in order and returns the first hit.
//
//	env.Chain(env.OS(), fileStore)   // process env wins over the file
func Chain(stores ...Store) Store { return chain(stores) }

type chain []Store

func (c chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Load reads .env files into the process environment. Existing variables are
// never overwritten. Missing files are not an error: .env may not exist in
// production.
func Load(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ── Typed lookups ────────────────────────────────────────────────────────────

// Get returns a raw value, falling back when the key is unset or empty.
func Get(s Store, key, fallback string) string {
	if v, ok := s.Lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

// GetInt returns an int value, falling back when unset or unparsable.
func GetInt(s Store, key string, fallback int) int {
	v, ok := s.Lookup(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// GetBool returns a bool value, falling back when unset or unparsable.
func GetBool(s Store, key string, fallback bool) bool {
	v, ok := s.Lookup(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
