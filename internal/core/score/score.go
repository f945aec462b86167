// Package score computes per-item quality scores and the weighted composite
// confidence for a synthesized release. Everything here clamps into [0,1]
// rather than failing: a degenerate input is a low score, not an error
package score

import (
	"math"
	"regexp"
	"strings"

	"whatsnew/internal/core/categorize"
	"whatsnew/internal/core/extract"
	"whatsnew/internal/core/wnf"
)

// Composite dimension weights. They sum to 1; the terse penalty is applied
// after the weighted sum
const (
	weightStructural     = 0.30
	weightContent        = 0.35
	weightCompleteness   = 0.20
	weightCategorization = 0.15
)

const (
	// terseLen is the display length below which an item counts as terse
	terseLen = 15
	// minComposite floors the composite so one bad dimension cannot zero
	// out a result that still carries items
	minComposite = 0.3
)

// genericOnlyRe matches texts that are a generic word and nothing else
var genericOnlyRe = regexp.MustCompile(`(?i)^(?:fix|update|change|typo|lint|minor|misc|wip|cleanup|polish)$`)

var actionVerbs = []string{
	"add", "fix", "update", "remove", "improve", "implement", "support",
	"introduce", "refactor", "optimize", "upgrade", "enable", "allow",
	"resolve", "prevent", "drop", "rework", "migrate", "document",
	"simplify", "rename", "bump", "correct", "handle",
}

// tierScores weight the categorizer's inference tiers: explicit signals are
// near-certain, keyword guesses moderately trusted, hints weak
var tierScores = map[categorize.Tier]float64{
	categorize.TierExplicitBreaking: 1.0,
	categorize.TierConventional:     0.95,
	categorize.TierKeyword:          0.7,
	categorize.TierHint:             0.5,
	categorize.TierNone:             0.3,
}

// Structural scores how much machine-readable structure an item carries.
// A conventional type lifts the base; a bare conventional commit (type with
// a sub-5-char description) halves it
func Structural(text, convType, scope string) float64 {
	s := 0.5
	if convType != "" {
		s = 0.85
	}
	if scope != "" {
		s += 0.05
	}
	if bareConventional(text, convType) {
		s *= 0.5
	}
	return clamp01(s)
}

// Content scores how informative the display text is for a reader
func Content(text, convType, scope string, refs []string) float64 {
	t := strings.TrimSpace(text)
	s := 0.5
	switch n := len(t); {
	case n < 10:
		s -= 0.35
	case n < 20:
		s += 0.05
	case n <= 200:
		s += 0.15
	default:
		s -= 0.05
	}
	if convType != "" {
		s += 0.15
	}
	if scope != "" {
		s += 0.10
	}
	if len(refs) > 0 {
		s += 0.10
	}
	if startsWithActionVerb(t) {
		s += 0.10
	}
	if genericOnlyRe.MatchString(t) {
		s -= 0.25
	}
	return clamp01(s)
}

// Combined is the per-item quality score attached to output items
func Combined(text, convType, scope string, refs []string) float64 {
	return 0.4*Structural(text, convType, scope) + 0.6*Content(text, convType, scope, refs)
}

// Composite aggregates items into the confidence breakdown. tiers comes from
// categorize.WithReasons and must align with items; estimatedCount is the
// expected item count when the caller knows one (<= 0 means no estimate)
func Composite(items []extract.Item, tiers []categorize.Tier, formatConfidence float64, estimatedCount int) wnf.ConfidenceBreakdown {
	var contentSum float64
	var terse, bare int
	for _, it := range items {
		contentSum += Content(it.Text, it.ConvType, it.Scope, it.Refs)
		if len(strings.TrimSpace(it.Text)) < terseLen {
			terse++
		}
		if bareConventional(it.Text, it.ConvType) {
			bare++
		}
	}

	n := len(items)
	var avgContent, terseRatio, bareRatio float64
	if n > 0 {
		avgContent = contentSum / float64(n)
		terseRatio = float64(terse) / float64(n)
		bareRatio = float64(bare) / float64(n)
	}

	structuralDim := clamp01(formatConfidence * (1 - bareRatio*0.3))
	completeness := 1.0
	if estimatedCount > 0 {
		completeness = clamp01(float64(n) / float64(estimatedCount))
	}

	weighted := weightStructural*structuralDim +
		weightContent*avgContent +
		weightCompleteness*completeness +
		weightCategorization*tierAverage(tiers)

	penalty := math.Max(0, terseRatio-0.2) * 0.5
	composite := math.Max(minComposite, weighted-penalty)

	return wnf.ConfidenceBreakdown{
		Composite:  clamp01(composite),
		Structural: structuralDim,
		Quality:    clamp01(avgContent),
		TerseRatio: terseRatio,
		ItemCount:  n,
	}
}

// tierAverage defaults to a neutral 0.5 when no reasons were supplied
func tierAverage(tiers []categorize.Tier) float64 {
	if len(tiers) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, t := range tiers {
		if s, ok := tierScores[t]; ok {
			sum += s
		} else {
			sum += 0.5
		}
	}
	return sum / float64(len(tiers))
}

func bareConventional(text, convType string) bool {
	return convType != "" && len(strings.TrimSpace(text)) < 5
}

func startsWithActionVerb(t string) bool {
	fields := strings.Fields(strings.ToLower(t))
	if len(fields) == 0 {
		return false
	}
	for _, v := range actionVerbs {
		if strings.HasPrefix(fields[0], v) {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
