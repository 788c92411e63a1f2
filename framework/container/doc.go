// Package container provides lazy providers and a named container built on
// them.
//
// # Providers
//
// A Provider produces a value from a function and stored parameters. Any
// parameter that is itself a Provider is resolved first.
//
//	config  := container.NewSingleton(LoadConfig)
//	engine  := container.NewSingleton(NewEngine, config)     // built once
//	session := container.NewFactory(NewSession, engine)      // built on every Provide
//	kind    := container.NewClass[*Engine]()                 // constant reflect.Type
//
//	s, err := container.Get[*Session](session)
//
// Functions may return T or (T, error). Keyword parameters travel in a
// trailing Kwargs argument and arrive as the function's last parameter.
//
// Singleton caches its first successful value for the provider's lifetime;
// there is no reset. Factory never caches. Constant never calls anything.
// Cycles in the provider graph are not detected.
//
// # Container
//
// The Container names providers for the composition root:
//
//	c := container.New(container.WithLogger(logger))
//	c.Singleton("config", LoadConfig)
//	c.Singleton("engine", NewEngine, c.Ref("config"))
//	c.Bind("session", NewSession, c.Ref("engine"))
//
//	engine, err := container.Resolve[*Engine](c, "engine")
//
// Ref returns a Provider resolving a name on demand, so named bindings can be
// handed to entity dependency slots.
//
// Extend decorates what a name resolves to, Tag groups names for Tagged,
// and Rebinding fires when a resolved name is bound again:
//
//	c.Extend("log", func(v any, _ *container.Container) (any, error) {
//	    return v.(*slog.Logger).With("version", Version), nil
//	})
//	c.Tag([]string{"config", "ledger"}, "app.services")
//	services, err := c.Tagged("app.services")
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("ledger", services.NewLedger, app.Ref("config"))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// A deferred provider (IsDeferred true, Provides non-empty) is registered
// only when one of its abstracts is first resolved. If it then fails to bind
// the abstract, the placeholder binding is forgotten.
package container
