// Package module wires the changelog endpoints into the API using modkit
package module

import (
	"net/http"

	modkit "whatsnew/internal/modkit"
	"whatsnew/internal/modkit/httpkit"

	chttp "whatsnew/internal/services/api/changelog/http"
	releasesdom "whatsnew/internal/services/releases/domain"
	synthdom "whatsnew/internal/services/synth/domain"
)

// Ports declares the injected service ports this API module requires
type Ports struct {
	Synth     synthdom.SynthPort
	Aggregate releasesdom.AggregatePort
}

// Module implements the changelog API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the changelog module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("changelog"),
		modkit.WithPrefix("/changelog"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Synth == nil {
		panic("changelog API module requires Synth port (from services/synth)")
	}
	if injected.Aggregate == nil {
		panic("changelog API module requires Aggregate port (from services/releases)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		chttp.Register(r, chttp.Ports{
			Synth:     injected.Synth,
			Aggregate: injected.Aggregate,
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
