package score

import (
	"math"
	"strings"

	"whatsnew/internal/core/wnf"
)

const (
	// DefaultThreshold is the composite score below which deterministic
	// extraction is considered too weak to ship on its own
	DefaultThreshold = 0.55
	// DefaultMinRawLen keeps tiny bodies away from the AI fallback: there
	// is nothing more to mine from a two-line release note
	DefaultMinRawLen = 200
)

// Assessment is the quality-gate verdict for one extraction result
type Assessment struct {
	Score              float64
	ShouldFallbackToAI bool
	Reasons            []string
}

// Assessor gates the AI fallback. The zero value uses the default threshold
// and minimum raw length
type Assessor struct {
	Threshold float64
	MinRawLen int
}

// Assess scores the categorized result against the raw input it came from.
// Fallback fires only when the score is below the threshold and the raw body
// is long enough to plausibly contain more than was extracted
func (a Assessor) Assess(cats []wnf.Category, formatConfidence float64, rawLen int) Assessment {
	threshold := a.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	minRaw := a.MinRawLen
	if minRaw <= 0 {
		minRaw = DefaultMinRawLen
	}

	var items []wnf.ChangeItem
	for _, c := range cats {
		items = append(items, c.Items...)
	}

	var contentSum float64
	var terse int
	for _, it := range items {
		contentSum += Content(it.Text, "", it.Scope, it.Refs)
		if len(strings.TrimSpace(it.Text)) < terseLen {
			terse++
		}
	}

	s := 0.4 * formatConfidence
	var terseRatio float64
	if n := len(items); n > 0 {
		s += 0.6 * (contentSum / float64(n))
		terseRatio = float64(terse) / float64(n)
	}
	s = clamp01(s - math.Max(0, terseRatio-0.2)*0.5)

	var reasons []string
	if len(items) == 0 {
		reasons = append(reasons, "no items extracted")
	}
	if terseRatio > 0.5 {
		reasons = append(reasons, "most items terse")
	}
	if rawLen >= 1000 && len(items) < 3 {
		reasons = append(reasons, "few items for large input")
	}
	if s < threshold {
		reasons = append(reasons, "low composite")
	}

	return Assessment{
		Score:              s,
		ShouldFallbackToAI: s < threshold && rawLen >= minRaw,
		Reasons:            reasons,
	}
}

// Assess applies the default gate
func Assess(cats []wnf.Category, formatConfidence float64, rawLen int) Assessment {
	return Assessor{}.Assess(cats, formatConfidence, rawLen)
}
