package module

import (
	"time"

	"whatsnew/internal/platform/config"
)

// Options holds configuration for the releases module and its source adapter.
// Zero values defer to the adapter and service defaults
type Options struct {
	Workers int

	GitHubToken      string
	GitHubBaseURL    string
	GitHubUserAgent  string
	GitHubTimeout    time.Duration
	GitHubMaxRetries int
	GitHubRetryBase  time.Duration
}

// FromConfig extracts Options from the given config.Conf. GitHub settings
// share the SOURCE_GITHUB_ prefix with the synth module so both modules speak
// to the API with the same credentials and limits
func FromConfig(cfg config.Conf) Options {
	rl := cfg.Prefix("CORE_RELEASES_")
	gh := cfg.Prefix("SOURCE_GITHUB_")
	return Options{
		Workers: rl.MayInt("WORKERS", 0),

		GitHubToken:      gh.MayString("TOKEN", ""),
		GitHubBaseURL:    gh.MayString("BASE_URL", ""),
		GitHubUserAgent:  gh.MayString("USER_AGENT", ""),
		GitHubTimeout:    gh.MayDuration("TIMEOUT", 0),
		GitHubMaxRetries: gh.MayInt("MAX_RETRIES", 0),
		GitHubRetryBase:  gh.MayDuration("RETRY_BASE", 0),
	}
}
