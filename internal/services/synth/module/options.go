package module

import (
	"time"

	"whatsnew/internal/platform/config"
)

// Options holds configuration for the synth module and the adapters it wires.
// Zero values defer to the adapter defaults
type Options struct {
	AIEnhance    bool
	AIThreshold  float64
	MinRawLen    int
	MinItemScore float64
	MaxCommits   int

	GitHubToken      string
	GitHubBaseURL    string
	GitHubUserAgent  string
	GitHubTimeout    time.Duration
	GitHubMaxRetries int
	GitHubRetryBase  time.Duration

	LLMBaseURL   string
	LLMModel     string
	LLMToken     string
	LLMMaxTokens int
	LLMTimeout   time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sy := cfg.Prefix("CORE_SYNTH_")
	gh := cfg.Prefix("SOURCE_GITHUB_")
	ai := cfg.Prefix("ENHANCE_LLM_")
	return Options{
		AIEnhance:    sy.MayBool("AI_ENHANCE", false),
		AIThreshold:  sy.MayFloat64("AI_THRESHOLD", 0),
		MinRawLen:    sy.MayInt("AI_MIN_RAW_LEN", 0),
		MinItemScore: sy.MayFloat64("MIN_ITEM_SCORE", 0),
		MaxCommits:   sy.MayInt("MAX_COMMITS", 0),

		GitHubToken:      gh.MayString("TOKEN", ""),
		GitHubBaseURL:    gh.MayString("BASE_URL", ""),
		GitHubUserAgent:  gh.MayString("USER_AGENT", ""),
		GitHubTimeout:    gh.MayDuration("TIMEOUT", 0),
		GitHubMaxRetries: gh.MayInt("MAX_RETRIES", 0),
		GitHubRetryBase:  gh.MayDuration("RETRY_BASE", 0),

		LLMBaseURL:   ai.MayString("BASE_URL", ""),
		LLMModel:     ai.MayString("MODEL", ""),
		LLMToken:     ai.MayString("TOKEN", ""),
		LLMMaxTokens: ai.MayInt("MAX_TOKENS", 0),
		LLMTimeout:   ai.MayDuration("TIMEOUT", 0),
	}
}
