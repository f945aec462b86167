// Package module wires the release-window aggregation service to its GitHub
// listing adapter
package module

import (
	"whatsnew/internal/adapters/source/github"
	"whatsnew/internal/modkit"
	"whatsnew/internal/modkit/httpkit"
	"whatsnew/internal/services/releases/domain"
	"whatsnew/internal/services/releases/service"
)

var _ domain.ListerPort = (*github.Source)(nil)

// Ports exposed by the releases module
type Ports struct {
	Aggregate domain.AggregatePort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the releases module, wiring its adapter from config
func New(deps modkit.Deps) *Module {
	cfg := FromConfig(deps.Cfg)

	lister, err := github.New(github.Options{
		BaseURL:    cfg.GitHubBaseURL,
		UserAgent:  cfg.GitHubUserAgent,
		Timeout:    cfg.GitHubTimeout,
		Token:      cfg.GitHubToken,
		MaxRetries: cfg.GitHubMaxRetries,
		RetryBase:  cfg.GitHubRetryBase,
	})
	if err != nil {
		panic(err)
	}

	svc := service.New(lister, service.Options{Workers: cfg.Workers})

	m := &Module{deps: deps}
	m.ports = Ports{Aggregate: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "releases" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; releases has no routes of its own
func (m *Module) MountRoutes(_ httpkit.Router) {}
