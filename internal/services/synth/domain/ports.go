package domain

import (
	"context"

	"whatsnew/internal/core/wnf"
)

// SynthPort is consumed by handlers and other modules
type SynthPort interface {
	Changelog(ctx context.Context, q Query) (*wnf.Document, error)
}

// SourcePort is the data-source collaborator boundary. Both fetches return
// (nil, nil) for "no data"; an error always means transport failure
type SourcePort interface {
	// FetchPrimary returns the release body (or changelog file fallback)
	// synthesized into a source result
	FetchPrimary(ctx context.Context, owner, repo, tag string) (*wnf.SourceResult, error)

	// FetchUnreleased returns commit history since the latest tag synthesized
	// into a source result
	FetchUnreleased(ctx context.Context, owner, repo string, opt UnreleasedOpts) (*wnf.SourceResult, error)
}

// EnhanceInput is what the AI collaborator receives: the raw body, the
// reference ids that actually occur in it, and the deterministic result as
// grounding context
type EnhanceInput struct {
	Raw     string
	Anchors []string
	Hint    *wnf.SourceResult
}

// Enhancement is the AI collaborator's answer. Refs inside Categories are
// untrusted until the pipeline filters them against the anchor set
type Enhancement struct {
	Categories  []wnf.Category
	Version     string
	HasBreaking bool
	Notes       []wnf.Note
}

// EnhancerPort is the optional AI-extraction collaborator. Errors are
// swallowed by the pipeline; the deterministic result always survives
type EnhancerPort interface {
	Enhance(ctx context.Context, in EnhanceInput) (*Enhancement, error)
}

// PingerPort reports upstream reachability; readiness probes consume it
type PingerPort interface {
	Ping(ctx context.Context) error
}
