// Package itemfilter is the heuristic noise gate for change items: it rejects
// entries that carry no information for a reader (bare usernames, merge
// commits, version bumps, acknowledgments) and scores the survivors
package itemfilter

import (
	"regexp"
	"strings"
	"unicode"

	"whatsnew/internal/core/wnf"
)

// MinLength is the shortest text that can pass validation
const MinLength = 4

// Verdict is the validation outcome. Score is meaningful only when Valid
type Verdict struct {
	Valid bool
	Score float64
}

var (
	usernameRe = regexp.MustCompile(`^\[?@[\w-]+\]?(?:\([^)]*\))?$`)
	mergeRe    = regexp.MustCompile(`^Merge\s+(?:branch|pull request|remote-tracking branch)\b`)
	pkgVerRe   = regexp.MustCompile(`^@?[\w./-]+@v?\d[\w.+-]*$`)
	versionRe  = regexp.MustCompile(`^v?\d+\.\d+\.\d+[\w.+-]*$`)
	versionMsg = regexp.MustCompile(`(?i)^(?:version|release)\s+v?\d+\.\d+(?:\.\d+)?[\w.+-]*$`)
	ackRe      = regexp.MustCompile(`(?i)\bmade their first contribution\b|^thanks?\s+(?:to\s+)?@`)

	convPrefixRe  = regexp.MustCompile(`^(?:feat|fix|docs|style|refactor|perf|test|build|ci|chore)(?:\([^)]*\))?!?:`)
	scopePrefixRe = regexp.MustCompile(`^\*\*[^*]+\*\*\s*:`)
	prRefRe       = regexp.MustCompile(`#\d+|https?://\S+/pull/\d+`)
)

// Validate rejects noise and scores the rest. The checks run cheapest first;
// any hit short-circuits to invalid
func Validate(text string) Verdict {
	t := strings.TrimSpace(text)
	if t == "" {
		return Verdict{}
	}
	if usernameRe.MatchString(t) {
		return Verdict{}
	}
	if mergeRe.MatchString(t) {
		return Verdict{}
	}
	if pkgVerRe.MatchString(t) {
		return Verdict{}
	}
	if pureSymbols(t) {
		return Verdict{}
	}
	if len(strings.Fields(t)) == 1 {
		return Verdict{}
	}
	if ackRe.MatchString(t) {
		return Verdict{}
	}
	if versionRe.MatchString(t) || versionMsg.MatchString(t) {
		return Verdict{}
	}
	if len(t) < MinLength {
		return Verdict{}
	}
	return Verdict{Valid: true, Score: scoreText(t)}
}

// ValidateItem applies Validate to the item's display text and folds in the
// signals the item carries out of band (refs and scope live on the item, not
// in the text, once extraction has cleaned it)
func ValidateItem(it wnf.ChangeItem) Verdict {
	v := Validate(it.Text)
	if !v.Valid {
		return v
	}
	if len(it.Refs) > 0 && !prRefRe.MatchString(it.Text) {
		v.Score = clamp01(v.Score + 0.1)
	}
	if it.Scope != "" && !scopePrefixRe.MatchString(it.Text) {
		v.Score = clamp01(v.Score + 0.1)
	}
	return v
}

func scoreText(t string) float64 {
	score := 0.5
	if convPrefixRe.MatchString(t) {
		score += 0.2
	}
	if prRefRe.MatchString(t) {
		score += 0.1
	}
	if len(t) >= 20 {
		score += 0.1
	} else {
		score -= 0.1
	}
	if scopePrefixRe.MatchString(t) {
		score += 0.1
	}
	return clamp01(score)
}

// pureSymbols reports text with no letters or digits in any script: emoji
// runs, dividers, decoration
func pureSymbols(t string) bool {
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
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
