package container_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entob/framework/container"
)

// ── stub service providers ───────────────────────────────────────────────────

// storeProvider binds a shared engine and a per-call session built on it.
type storeProvider struct {
	container.BaseProvider
	engines  counter
	booted   int
	sessions int
}

func (p *storeProvider) Register(app *container.Container) {
	app.Register("engine", container.NewSingleton(p.engines.newEngine, "store", 5432))
	app.Register("session", container.NewFactory(func(e *engine) *session {
		p.sessions++
		return &session{engine: e}
	}, app.Ref("engine")))
}

func (p *storeProvider) Boot(app *container.Container) {
	p.booted++
}

// reportProvider is deferred: it binds "report" from "engine" on first use.
type reportProvider struct {
	container.BaseProvider
	registered, booted bool
}

func (p *reportProvider) Register(app *container.Container) {
	p.registered = true
	app.Bind("report", func(e *engine) string {
		return strings.ToUpper(e.user)
	}, app.Ref("engine"))
}

func (p *reportProvider) Boot(app *container.Container) { p.booted = true }
func (p *reportProvider) IsDeferred() bool               { return true }
func (p *reportProvider) Provides() []string             { return []string{"report"} }

// ghostProvider claims an abstract it never binds.
type ghostProvider struct {
	container.BaseProvider
}

func (p *ghostProvider) Register(app *container.Container) {}
func (p *ghostProvider) IsDeferred() bool                  { return true }
func (p *ghostProvider) Provides() []string                { return []string{"ghost"} }

func newRegistry() (*container.Container, *container.ProviderRegistry) {
	c := container.New()
	return c, container.NewProviderRegistry(c)
}

// ── Eager providers ──────────────────────────────────────────────────────────

func TestRegistry_EagerBindingsShareSingleton(t *testing.T) {
	c, reg := newRegistry()
	p := &storeProvider{}
	reg.Register(p)
	reg.Boot()

	s1 := container.MustResolve[*session](c, "session")
	s2 := container.MustResolve[*session](c, "session")
	assert.NotSame(t, s1, s2)
	assert.Same(t, s1.engine, s2.engine)
	assert.Equal(t, 1, p.engines.count())
	assert.Equal(t, 2, p.sessions)
}

func TestRegistry_BootOrder(t *testing.T) {
	_, reg := newRegistry()
	p := &storeProvider{}
	reg.Register(p)
	assert.Zero(t, p.booted, "Boot must wait for registry.Boot")
	assert.False(t, reg.Booted())

	reg.Boot()
	reg.Boot()
	assert.Equal(t, 1, p.booted)
	assert.True(t, reg.Booted())

	late := &storeProvider{}
	reg.Register(late)
	assert.Equal(t, 1, late.booted, "a provider registered after Boot is booted at once")
}

func TestRegistry_DuplicateRegisterIgnored(t *testing.T) {
	_, reg := newRegistry()
	p := &storeProvider{}
	reg.Register(p)
	reg.Register(p)
	reg.Boot()

	assert.Len(t, reg.Providers(), 1)
	assert.Equal(t, 1, p.booted)
}

func TestRegistry_ProviderBindingReplacedByRegister(t *testing.T) {
	c, reg := newRegistry()
	reg.Register(&storeProvider{})
	c.Register("engine", container.NewConstant(&engine{user: "fixed"}))

	s := container.MustResolve[*session](c, "session")
	assert.Equal(t, "fixed", s.engine.user, "Ref follows the current binding")
}

// ── Deferred providers ───────────────────────────────────────────────────────

func TestRegistry_DeferredLoadsOnFirstMake(t *testing.T) {
	c, reg := newRegistry()
	reg.Register(&storeProvider{})
	p := &reportProvider{}
	reg.Register(p)
	reg.Boot()

	assert.False(t, p.registered)
	assert.True(t, c.Bound("report"))
	assert.NotContains(t, reg.Providers(), container.ServiceProvider(p))

	got := container.MustResolve[string](c, "report")
	assert.Equal(t, "STORE", got)
	assert.True(t, p.registered)
	assert.True(t, p.booted)
}

func TestRegistry_DeferredFeedsRefChain(t *testing.T) {
	c, reg := newRegistry()
	reg.Register(&storeProvider{})
	reg.Register(&reportProvider{})
	c.Bind("headline", func(r string) string { return "# " + r }, c.Ref("report"))
	c.Alias("headline", "title")

	assert.Equal(t, "# STORE", container.MustResolve[string](c, "title"))
}

func TestRegistry_DeferredNeverBinds(t *testing.T) {
	c, reg := newRegistry()
	reg.Register(&ghostProvider{})
	require.True(t, c.Bound("ghost"))

	_, err := c.Make("ghost")
	assert.True(t, errors.Is(err, container.ErrNotBound))
	assert.False(t, c.Bound("ghost"), "the placeholder binding is forgotten")

	_, err = c.Make("ghost")
	assert.ErrorIs(t, err, container.ErrNotBound)
}

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	p.Boot(container.New())
	assert.False(t, p.IsDeferred())
	assert.Empty(t, p.Provides())
}
