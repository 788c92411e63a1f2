package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings of the composition root.
//
// Register binds providers into the container. Boot is called after every
// provider has been registered, so it may resolve other bindings.
//
//	type LedgerServiceProvider struct{ container.BaseProvider }
//
//	func (p *LedgerServiceProvider) Register(app *container.Container) {
//	    app.Singleton("ledger", services.NewLedger, app.Ref("config"))
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container)

	// Provides lists the abstracts this provider registers. Only consulted
	// for deferred providers.
	Provides() []string

	// IsDeferred returns true if Register should wait until one of
	// Provides() is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, including deferred
// ones.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		d := &deferred{registry: r, provider: provider}
		for _, abstract := range provider.Provides() {
			r.app.Register(abstract, deferredRef{d: d, abstract: abstract})
		}
		return
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		provider.Boot(r.app)
	}
}

// deferred registers its provider for real on the first resolution of any
// of the provider's abstracts.
type deferred struct {
	registry *ProviderRegistry
	provider ServiceProvider
	loaded   bool
}

func (d *deferred) load() {
	if d.loaded {
		return
	}
	d.loaded = true
	d.provider.Register(d.registry.app)
	if d.registry.booted {
		d.provider.Boot(d.registry.app)
	}
}

// deferredRef stands in for one abstract until the real binding exists.
type deferredRef struct {
	d        *deferred
	abstract string
}

func (r deferredRef) Provide() (any, error) {
	r.d.load()
	app := r.d.registry.app
	if p, _ := app.Provider(r.abstract); p == Provider(r) {
		app.Forget(r.abstract)
		return nil, fmt.Errorf("%w: deferred provider %T did not bind [%s]", ErrNotBound, r.d.provider, r.abstract)
	}
	return app.Make(r.abstract)
}

// Boot calls Boot() on all eager providers. Must be called after ALL
// providers have been registered; repeated calls are ignored.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
