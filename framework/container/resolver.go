package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrArguments is returned when stored parameters do not fit the
// construction function.
var ErrArguments = errors.New("container: arguments do not match function")

// ── Provider ──────────────────────────────────────────────────────────────────

// Provider is a unit of lazy construction.
//
// Parameters stored on a provider may themselves be Providers; they are
// resolved first, recursively. Cycles are not detected: a graph that refers
// back to itself either recurses without end or, through a Singleton,
// deadlocks.
type Provider interface {
	Provide() (any, error)
}

// Kwargs carries keyword parameters. Passed as the last argument to
// NewSingleton / NewFactory, it is resolved entry by entry and handed to the
// function as its final Kwargs parameter.
//
//	container.NewFactory(NewSession, engine, container.Kwargs{"timeout": timeout})
//
//	func NewSession(e *Engine, kw container.Kwargs) *Session
type Kwargs map[string]any

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// call holds a construction function and its stored parameters.
type call struct {
	fn     reflect.Value
	args   []any
	kwargs Kwargs
}

func newCall(fn any, args []any) call {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: provider needs a function, got %T", fn))
	}
	c := call{fn: v, args: args}
	if n := len(args); n > 0 {
		if kw, ok := args[n-1].(Kwargs); ok {
			c.args, c.kwargs = args[:n-1], kw
		}
	}
	return c
}

// collectParams resolves every Provider among the stored parameters.
func (c call) collectParams() ([]any, Kwargs, error) {
	args := make([]any, len(c.args))
	for i, arg := range c.args {
		if p, ok := arg.(Provider); ok {
			v, err := p.Provide()
			if err != nil {
				return nil, nil, err
			}
			arg = v
		}
		args[i] = arg
	}

	if c.kwargs == nil {
		return args, nil, nil
	}
	kwargs := make(Kwargs, len(c.kwargs))
	for name, value := range c.kwargs {
		if p, ok := value.(Provider); ok {
			v, err := p.Provide()
			if err != nil {
				return nil, nil, err
			}
			value = v
		}
		kwargs[name] = value
	}
	return args, kwargs, nil
}

// invoke resolves the parameters and calls the function.
func (c call) invoke() (any, error) {
	args, kwargs, err := c.collectParams()
	if err != nil {
		return nil, err
	}
	if kwargs != nil {
		args = append(args, kwargs)
	}

	in, err := c.values(args)
	if err != nil {
		return nil, err
	}

	out := c.fn.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if c.fn.Type().Out(0) == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		if err := asError(out[len(out)-1]); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
}

// values converts args into call arguments, checking count and types.
func (c call) values(args []any) ([]reflect.Value, error) {
	ft := c.fn.Type()
	n := ft.NumIn()
	if (!ft.IsVariadic() && len(args) != n) || (ft.IsVariadic() && len(args) < n-1) {
		return nil, fmt.Errorf("%w: %s wants %d arguments, got %d", ErrArguments, ft, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			want = ft.In(n - 1).Elem()
		} else {
			want = ft.In(i)
		}
		if a == nil {
			switch want.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
				in[i] = reflect.Zero(want)
				continue
			}
			return nil, fmt.Errorf("%w: argument %d of %s is nil", ErrArguments, i, ft)
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(want) {
			return nil, fmt.Errorf("%w: argument %d of %s is %s, want %s", ErrArguments, i, ft, v.Type(), want)
		}
		in[i] = v
	}
	return in, nil
}

func asError(v reflect.Value) error {
	if !v.Type().Implements(errorType) {
		return nil
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	err, _ := v.Interface().(error)
	return err
}

// ── Strategies ────────────────────────────────────────────────────────────────

// Singleton calls its function once and caches the first successful result
// for the life of the provider. Failed attempts are not cached.
type Singleton struct {
	call
	mu     sync.Mutex
	done   bool
	result any
}

// NewSingleton returns a caching provider of fn(args...).
//
//	engine := container.NewSingleton(NewEngine, cfg.User, cfg.Password)
func NewSingleton(fn any, args ...any) *Singleton {
	return &Singleton{call: newCall(fn, args)}
}

// Provide returns the cached value, constructing it on the first call.
// Concurrent first calls construct once.
func (s *Singleton) Provide() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return s.result, nil
	}
	v, err := s.invoke()
	if err != nil {
		return nil, err
	}
	s.result, s.done = v, true
	return v, nil
}

// Factory calls its function on every Provide.
type Factory struct {
	call
}

// NewFactory returns a non-caching provider of fn(args...).
func NewFactory(fn any, args ...any) *Factory {
	return &Factory{call: newCall(fn, args)}
}

// Provide resolves the parameters and calls the function again.
func (f *Factory) Provide() (any, error) {
	return f.invoke()
}

// Constant always provides the same value and never calls anything.
type Constant struct {
	get func() any
}

// NewConstant returns a provider of v.
func NewConstant(v any) *Constant {
	return &Constant{get: func() any { return v }}
}

// NewClass returns a provider of the reflect.Type of T.
func NewClass[T any]() *Constant {
	return NewConstant(reflect.TypeOf((*T)(nil)).Elem())
}

func (c *Constant) Provide() (any, error) { return c.get(), nil }

// ── Typed access ──────────────────────────────────────────────────────────────

// Get provides from p and type-asserts the result.
//
//	engine, err := container.Get[*Engine](engineProvider)
func Get[T any](p Provider) (T, error) {
	var zero T
	v, err := p.Provide()
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: Get[%s]: provider returned %T", reflect.TypeOf((*T)(nil)).Elem(), v)
	}
	return typed, nil
}
