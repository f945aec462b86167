// Package module wires the synthesis pipeline to its GitHub source and
// optional LLM enhancer
package module

import (
	"whatsnew/internal/adapters/enhance/llm"
	"whatsnew/internal/adapters/source/github"
	"whatsnew/internal/modkit"
	"whatsnew/internal/modkit/httpkit"
	"whatsnew/internal/services/synth/domain"
	"whatsnew/internal/services/synth/service"
)

// compile-time port checks against the github adapter
var _ domain.SourcePort = (*github.Source)(nil)
var _ domain.PingerPort = (*github.Source)(nil)

// Ports exposed by the synth module
type Ports struct {
	Synth  domain.SynthPort
	Pinger domain.PingerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the synth module. Adapters are wired from config; a missing
// LLM token downgrades AI enhancement to off instead of failing boot
func New(deps modkit.Deps) *Module {
	cfg := FromConfig(deps.Cfg)

	src, err := github.New(github.Options{
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

	var enhancer domain.EnhancerPort
	if cfg.AIEnhance {
		if cfg.LLMToken == "" {
			deps.Log.Warn().Msg("synth module: AI enhancement enabled without ENHANCE_LLM_TOKEN, running deterministic only")
			cfg.AIEnhance = false
		} else {
			enh, err := llm.New(llm.Options{
				BaseURL:   cfg.LLMBaseURL,
				Model:     cfg.LLMModel,
				Token:     cfg.LLMToken,
				MaxTokens: cfg.LLMMaxTokens,
				Timeout:   cfg.LLMTimeout,
			})
			if err != nil {
				panic(err)
			}
			enhancer = enh
		}
	}

	svc := service.New(src, service.Options{
		AIEnhance:    cfg.AIEnhance,
		AIThreshold:  cfg.AIThreshold,
		MinRawLen:    cfg.MinRawLen,
		MinItemScore: cfg.MinItemScore,
		MaxCommits:   cfg.MaxCommits,
		Enhancer:     enhancer,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Synth: svc, Pinger: src}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "synth" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; synth has no routes of its own
func (m *Module) MountRoutes(_ httpkit.Router) {}
