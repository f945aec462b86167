// Package llm is the optional AI-extraction collaborator: when deterministic
// extraction scores too low, it asks an OpenAI-compatible model to re-extract
// the changelog from the raw text. The adapter only builds prompts and parses
// strict-JSON replies; anchor filtering and failure swallowing stay in the
// synthesis service
package llm

import (
	"context"
	"strings"
	"time"

	perr "whatsnew/internal/platform/errors"
	"whatsnew/internal/platform/logger"
	synthdom "whatsnew/internal/services/synth/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1500
	defaultTimeout   = 30 * time.Second

	// maxRawLen bounds the prompt; release bodies beyond this carry footers
	// and contributor lists, not more changes
	maxRawLen = 12000
)

// Options configures the enhancer
type Options struct {
	// BaseURL overrides the API endpoint for OpenAI-compatible servers
	BaseURL string
	Model   string
	Token   string

	MaxTokens int
	Timeout   time.Duration
}

// Enhancer implements the EnhancerPort over langchaingo
type Enhancer struct {
	opts Options
	log  logger.Logger

	// generate is the model call, swappable in tests
	generate func(ctx context.Context, prompt string) (string, error)
}

// New builds an Enhancer. Fails when the client cannot be constructed
// (missing token and no ambient credentials)
func New(o Options) (*Enhancer, error) {
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}

	copts := []openai.Option{
		openai.WithModel(o.Model),
		openai.WithToken(o.Token),
	}
	if o.BaseURL != "" {
		copts = append(copts, openai.WithBaseURL(o.BaseURL))
	}
	client, err := openai.New(copts...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "llm client init failed")
	}

	e := &Enhancer{opts: o, log: *logger.Named("enhance.llm")}
	e.generate = func(ctx context.Context, prompt string) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, client, prompt,
			llms.WithTemperature(0),
			llms.WithMaxTokens(o.MaxTokens),
		)
	}
	return e, nil
}

// Enhance re-extracts categories from the raw body. Errors here are advisory:
// the pipeline logs them and ships the deterministic result
func (e *Enhancer) Enhance(ctx context.Context, in synthdom.EnhanceInput) (*synthdom.Enhancement, error) {
	raw := strings.TrimSpace(in.Raw)
	if raw == "" {
		return nil, perr.InvalidArgf("nothing to enhance")
	}
	if len(raw) > maxRawLen {
		raw = raw[:maxRawLen]
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start := time.Now()
	out, err := e.generate(ctx, buildPrompt(raw, in.Anchors))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "llm generate failed")
	}
	e.log.Debug().
		Dur("latency", time.Since(start)).
		Int("raw_len", len(raw)).
		Int("anchors", len(in.Anchors)).
		Msg("llm enhancement call")

	return parseResponse(out)
}
