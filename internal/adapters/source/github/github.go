// Package github is the GitHub-backed data source: it fetches releases,
// changelog files and commit history over the REST API and synthesizes them
// into scored source results. Retries, backoff and rate-limit waits live
// here; the core pipeline only ever sees a result, an absence, or a typed
// transport error
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "whatsnew/internal/platform/errors"
	"whatsnew/internal/platform/logger"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "whatsnew"
	defaultMaxRetry  = 5
	defaultRetryBase = 500 * time.Millisecond

	// maxBackoff caps exponential growth; rate-limit resets further out than
	// maxRateWait are surfaced to the caller instead of slept through
	maxBackoff  = 30 * time.Second
	maxRateWait = 30 * time.Second
)

// Options configures the Source
type Options struct {
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests)
	// Empty means api.github.com
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token authenticates requests. Empty means tokenless which is a very
	// low quota so not recommended
	Token string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Source wraps the GitHub client with retry handling and synthesis
type Source struct {
	api   *gh.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Source with sane defaults. The only hard failure is an
// unparseable BaseURL override
func New(o Options) (*Source, error) {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}

	hc := &http.Client{Timeout: o.Timeout}
	if o.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.Token})
		hc = oauth2.NewClient(context.Background(), ts)
		hc.Timeout = o.Timeout
	}

	api := gh.NewClient(hc)
	api.UserAgent = o.UserAgent
	if o.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.BaseURL, "/") + "/")
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid github base url %q", o.BaseURL)
		}
		api.BaseURL = u
	}

	return &Source{
		api:   api,
		opts:  o,
		log:   *logger.Named("source.github"),
		now:   time.Now,
		sleep: time.Sleep,
	}, nil
}

// Ping probes the API with the rate-limit endpoint, which is free and works
// tokenless. Used by readiness checks
func (s *Source) Ping(ctx context.Context) error {
	_, _, err := s.api.RateLimit.Get(ctx)
	return perr.FromGitHub(err, "github ping failed")
}

// do runs one API call with retries. fn must be safe to invoke repeatedly:
// transient failures back off exponentially, rate limits wait for the reset
// when it is near enough, everything else maps to a typed error and returns
func (s *Source) do(ctx context.Context, op string, fn func() (*gh.Response, error)) error {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := s.now()
		resp, err := fn()
		lat := s.now().Sub(start)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		s.log.Debug().
			Str("op", op).
			Int("status", status).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("github api call")

		if err == nil {
			return nil
		}
		if !perr.IsRetryable(err) || !s.shouldRetry(attempts) {
			return perr.FromGitHubf(err, "github %s failed", op)
		}

		wait := s.backoff(attempts)
		if w, ok := rateWait(err, s.now()); ok {
			if w > maxRateWait {
				return perr.FromGitHubf(err, "github %s rate limited", op)
			}
			if w > wait {
				wait = w
			}
		}
		s.log.Warn().
			Str("op", op).
			Dur("retry_in", wait).
			Int("attempt", attempts).
			Msg("github transient error retrying")
		s.sleep(wait)
		attempts++
	}
}

// rateWait extracts the server-directed wait from a rate limit error
func rateWait(err error, now time.Time) (time.Duration, bool) {
	if rl, ok := perr.ExtractRateLimit(err); ok {
		return rl.Rate.Reset.Time.Sub(now), true
	}
	if ab, ok := perr.ExtractAbuseRateLimit(err); ok && ab.RetryAfter != nil {
		return *ab.RetryAfter, true
	}
	return 0, false
}

func (s *Source) backoff(attempt int) time.Duration {
	ms := int64(s.opts.RetryBase / time.Millisecond)
	// simple exponential with cap
	ms = ms << uint(attempt)
	if lim := int64(maxBackoff / time.Millisecond); ms > lim {
		ms = lim
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Source) shouldRetry(attempt int) bool {
	return attempt < s.opts.MaxRetries
}

func notFound(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeNotFound)
}
