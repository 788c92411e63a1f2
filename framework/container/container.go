package container

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// ErrNotBound is returned by Make for an abstract with no binding.
var ErrNotBound = errors.New("container: no binding registered")

// Extender decorates the resolved instance of an abstract.
type Extender func(instance any, c *Container) (any, error)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a named registry of Providers: the composition root.
//
// It supports:
//   - Bind (Factory) / Singleton / Instance (Constant) / Register (any Provider)
//   - Alias
//   - Make / Resolve[T] (generic)
//   - Ref: a Provider that resolves a name lazily, for wiring bindings
//     into each other and into entity dependency slots
//   - Extend (decorators applied on every resolution)
//   - Tag / Tagged
//   - Forget / Flush
//   - Rebinding / AfterResolving callbacks
type Container struct {
	mu sync.RWMutex

	// abstract → provider
	bindings map[string]Provider

	// abstracts resolved at least once
	resolved map[string]bool

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]Extender

	// abstract → last decorated pointer instance
	extended map[string]decorated

	// tag → []abstract
	tags map[string][]string

	// rebound callbacks: abstract → []func(any)
	reboundCallbacks map[string][]func(any)

	afterResolving []func(string, any)

	logger *slog.Logger
}

// Option configures a Container.
type Option func(c *Container)

// WithLogger sets the logger used for resolution traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		bindings:         make(map[string]Provider),
		resolved:         make(map[string]bool),
		aliases:          make(map[string]string),
		extenders:        make(map[string][]Extender),
		extended:         make(map[string]decorated),
		tags:             make(map[string][]string),
		reboundCallbacks: make(map[string][]func(any)),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	// The container is bound to itself.
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register binds an existing Provider under abstract, replacing any
// previous binding. Replacing a binding that was already resolved fires
// its Rebinding callbacks with the new instance.
func (c *Container) Register(abstract string, p Provider) {
	c.mu.Lock()
	key := c.canonical(abstract)
	rebound := c.resolved[key] && len(c.reboundCallbacks[key]) > 0
	c.bindings[key] = p
	delete(c.resolved, key)
	delete(c.extended, key)
	c.mu.Unlock()

	if rebound {
		c.fireRebound(key)
	}
}

// Bind registers a Factory: fn runs on every Make.
//
//	c.Bind("session", NewSession, c.Ref("engine"))
func (c *Container) Bind(abstract string, fn any, args ...any) {
	c.Register(abstract, NewFactory(fn, args...))
}

// Singleton registers a Singleton: fn runs on the first Make only.
//
//	c.Singleton("engine", NewEngine, c.Ref("config"))
func (c *Container) Singleton(abstract string, fn any, args ...any) {
	c.Register(abstract, NewSingleton(fn, args...))
}

// Instance registers a pre-built value.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.Register(abstract, NewConstant(instance))
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract. Extenders survive
// rebinding and run in registration order on every resolution; a pointer
// instance already decorated is served from cache, so a Singleton stays
// one value.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => ...)
//	c.Extend("log", func(instance any, c *container.Container) (any, error) {
//	    return instance.(*slog.Logger).With("version", Version), nil
//	})
func (c *Container) Extend(abstract string, fn Extender) {
	c.mu.Lock()
	key := c.canonical(abstract)
	c.extenders[key] = append(c.extenders[key], fn)
	delete(c.extended, key)
	rebound := c.resolved[key] && len(c.reboundCallbacks[key]) > 0
	c.mu.Unlock()

	if rebound {
		c.fireRebound(key)
	}
}

type decorated struct {
	source, result any
}

func (c *Container) applyExtenders(key string, instance any) (any, error) {
	c.mu.RLock()
	exts := c.extenders[key]
	cached, hit := c.extended[key]
	c.mu.RUnlock()

	if len(exts) == 0 {
		return instance, nil
	}
	cacheable := instance != nil && reflect.TypeOf(instance).Kind() == reflect.Pointer
	if cacheable && hit && cached.source == instance {
		return cached.result, nil
	}

	out := instance
	for _, ext := range exts {
		var err error
		if out, err = ext(out, c); err != nil {
			return nil, fmt.Errorf("extend: %w", err)
		}
	}
	if cacheable {
		c.mu.Lock()
		c.extended[key] = decorated{source: instance, result: out}
		c.mu.Unlock()
	}
	return out, nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"config", "ledger"}, "app.services")
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves all abstracts registered under a tag, in tagging order.
// It stops at the first failure.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	abstracts := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		instance, err := c.Make(abs)
		if err != nil {
			return nil, fmt.Errorf("container: tag [%s]: %w", tag, err)
		}
		result = append(result, instance)
	}
	return result, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract through its provider.
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	p, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrNotBound, abstract)
	}

	instance, err := p.Provide()
	if err == nil {
		instance, err = c.applyExtenders(key, instance)
	}
	if err != nil {
		c.logger.Debug("container: resolve failed", "abstract", key, "error", err)
		return nil, fmt.Errorf("container: resolve [%s]: %w", key, err)
	}

	c.mu.Lock()
	c.resolved[key] = true
	cbs := c.afterResolving
	c.mu.Unlock()

	c.logger.Debug("container: resolved", "abstract", key, "provider", fmt.Sprintf("%T", p))
	for _, cb := range cbs {
		cb(key, instance)
	}
	return instance, nil
}

// Provider returns the provider bound to abstract.
func (c *Container) Provider(abstract string) (Provider, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.bindings[c.canonical(abstract)]
	return p, ok
}

// Ref returns a Provider that resolves abstract through the container when
// provided. Binding need not exist yet when Ref is called.
func (c *Container) Ref(abstract string) Provider {
	return ref{c: c, abstract: abstract}
}

type ref struct {
	c        *Container
	abstract string
}

func (r ref) Provide() (any, error) { return r.c.Make(r.abstract) }

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[c.canonical(abstract)]
	return ok
}

// Resolved returns true if the abstract has been resolved at least once.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolved[c.canonical(abstract)]
}

// Forget removes the binding of an abstract. Aliases, tags and extenders
// naming it are kept.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.resolved, key)
	delete(c.extended, key)
}

// Flush resets the entire container. Callbacks registered with
// AfterResolving are kept.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]Provider)
	c.resolved = make(map[string]bool)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
	c.extended = make(map[string]decorated)
	c.tags = make(map[string][]string)
	c.reboundCallbacks = make(map[string][]func(any))
}

// Bindings returns all registered abstract keys, sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired with the new instance whenever a
// resolved abstract is re-bound or extended. A failed resolution of the
// new binding is logged and skips the callbacks.
//
//	// Laravel: $app->rebinding('config', fn($app, $config) => ...)
func (c *Container) Rebinding(abstract string, cb func(instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	c.reboundCallbacks[key] = append(c.reboundCallbacks[key], cb)
}

func (c *Container) fireRebound(key string) {
	instance, err := c.Make(key)
	if err != nil {
		c.logger.Warn("container: rebound resolve failed", "abstract", key, "error", err)
		return
	}
	c.mu.RLock()
	cbs := append(([]func(any))(nil), c.reboundCallbacks[key]...)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

// AfterResolving registers a callback fired after any abstract is resolved.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// canonical resolves an alias to its canonical key (must hold mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key.
//
//	key := container.TypeKey((*services.Ledger)(nil))  // ".../app/services.Ledger"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	ledger, err := container.Resolve[*services.Ledger](c, "ledger")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%s]: [%s] resolved to %T",
			reflect.TypeOf((*T)(nil)).Elem(), abstract, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
