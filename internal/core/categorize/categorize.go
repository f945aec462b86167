// Package categorize assigns final categories to extracted items through a
// four-tier inference chain: explicit breaking flag, conventional-commit
// type, keyword analysis, then the extractor's section hint. The first tier
// that matches wins; nothing below it is consulted
package categorize

import (
	"strings"

	"whatsnew/internal/core/extract"
	"whatsnew/internal/core/wnf"
)

// Tier names the inference tier that decided an item's category. The scorer
// weighs these when computing the categorization dimension
type Tier string

const (
	TierExplicitBreaking Tier = "explicit_breaking"
	TierConventional     Tier = "conventional_commit"
	TierKeyword          Tier = "keyword_match"
	TierHint             Tier = "source_hint"
	TierNone             Tier = "no_signal"
)

// KeywordThreshold is the minimum keyword score for tier 2 to claim an item
const KeywordThreshold = 1.0

// convTypes maps conventional-commit types to categories
var convTypes = map[string]wnf.CategoryID{
	"feat":        wnf.CategoryFeatures,
	"feature":     wnf.CategoryFeatures,
	"fix":         wnf.CategoryFixes,
	"bug":         wnf.CategoryFixes,
	"docs":        wnf.CategoryDocs,
	"doc":         wnf.CategoryDocs,
	"refactor":    wnf.CategoryRefactor,
	"perf":        wnf.CategoryPerf,
	"performance": wnf.CategoryPerf,
	"chore":       wnf.CategoryChore,
	"build":       wnf.CategoryChore,
	"ci":          wnf.CategoryChore,
	"style":       wnf.CategoryOther,
	"test":        wnf.CategoryOther,
	"tests":       wnf.CategoryOther,
	"revert":      wnf.CategoryOther,
	"breaking":    wnf.CategoryBreaking,
}

// categoryKeywords drive tier-2 inference. Tokens match by prefix, so
// "removed" hits "remove" and "fixes" hits "fix"
var categoryKeywords = map[wnf.CategoryID][]string{
	wnf.CategoryFeatures: {"add", "new", "introduce", "implement", "support", "enable", "allow", "create", "expose", "extend"},
	wnf.CategoryFixes:    {"fix", "resolve", "bug", "issue", "error", "correct", "patch", "handle", "prevent", "crash"},
	wnf.CategoryBreaking: {"breaking", "remove", "delete", "deprecate", "migrate", "drop", "incompatible"},
	wnf.CategoryPerf:     {"performance", "speed", "optimize", "faster", "latency", "throughput"},
	wnf.CategoryDeps:     {"bump", "upgrade", "dependency", "dependencies"},
	wnf.CategoryDocs:     {"document", "docs", "readme", "jsdoc"},
	wnf.CategoryRefactor: {"refactor", "restructure", "reorganize", "cleanup", "rename"},
	wnf.CategoryChore:    {"chore", "maintain", "internal", "tooling", "housekeeping"},
	wnf.CategorySecurity: {"security", "vulnerability", "cve", "exploit"},
}

// Categorize assigns each item to exactly one category and returns the
// non-empty categories in fixed priority order
func Categorize(items []extract.Item) []wnf.Category {
	cats, _ := WithReasons(items)
	return cats
}

// WithReasons is Categorize plus the per-item inference tier, aligned with
// the input order
func WithReasons(items []extract.Item) ([]wnf.Category, []Tier) {
	buckets := make(map[wnf.CategoryID][]wnf.ChangeItem, len(wnf.CategoryOrder))
	tiers := make([]Tier, len(items))

	for i, it := range items {
		id, tier := categorizeItem(it)
		tiers[i] = tier
		buckets[id] = append(buckets[id], changeItem(it, id))
	}

	var out []wnf.Category
	for _, id := range wnf.CategoryOrder {
		if len(buckets[id]) == 0 {
			continue
		}
		out = append(out, wnf.NewCategory(id, buckets[id]))
	}
	return out, tiers
}

func categorizeItem(it extract.Item) (wnf.CategoryID, Tier) {
	if it.Breaking {
		return wnf.CategoryBreaking, TierExplicitBreaking
	}
	if it.ConvType != "" {
		if id, ok := convTypes[strings.ToLower(it.ConvType)]; ok {
			return id, TierConventional
		}
	}
	if id, ok := keywordCategory(it.Text); ok {
		return id, TierKeyword
	}
	if it.Hint.Category != "" && it.Hint.Category.Valid() {
		return it.Hint.Category, TierHint
	}
	return wnf.CategoryOther, TierNone
}

// keywordCategory scores every candidate category and picks the strictly
// highest scorer at or above the threshold. Candidates are visited in the
// fixed priority order and only a strictly greater score displaces the
// leader, so score ties keep the higher-priority category
func keywordCategory(text string) (wnf.CategoryID, bool) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return "", false
	}

	best := wnf.CategoryID("")
	bestScore := 0.0
	for _, id := range wnf.CategoryOrder {
		kws := categoryKeywords[id]
		if len(kws) == 0 {
			continue
		}
		score := 0.0
		for ti, tok := range tokens {
			if !matchesAny(tok, kws) {
				continue
			}
			score++
			if ti == 0 {
				// leading verbs are the strongest signal
				score += 0.5
			}
		}
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	if bestScore >= KeywordThreshold {
		return best, true
	}
	return "", false
}

func matchesAny(tok string, kws []string) bool {
	for _, k := range kws {
		if strings.HasPrefix(tok, k) {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// changeItem converts an extracted item, preserving the breaking flag even
// when tier 2/3 routed the item into a non-breaking category
func changeItem(it extract.Item, id wnf.CategoryID) wnf.ChangeItem {
	out := wnf.ChangeItem{
		Text:     it.Text,
		Refs:     it.Refs,
		Scope:    it.Scope,
		Breaking: it.Breaking || id == wnf.CategoryBreaking,
	}
	if it.Score > 0 {
		s := it.Score
		out.Score = &s
	}
	return out
}
