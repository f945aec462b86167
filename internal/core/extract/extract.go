// Package extract turns raw release-note text into the normalized item model.
// One extractor per format; all of them are total functions that degrade to
// zero items on malformed input rather than failing. Extractors never assign
// final categories, only hints; categorization is a separate pass
package extract

import (
	"regexp"
	"strings"

	"whatsnew/internal/core/format"
	"whatsnew/internal/core/wnf"
)

// Hint carries an extractor's non-authoritative category suggestion along
// with the section title it came from. The categorizer consults it last
type Hint struct {
	Section  string
	Category wnf.CategoryID
}

// Item is one normalized change entry. Text never re-embeds a reference or
// scope that is already captured in Refs/Scope
type Item struct {
	Text     string
	Refs     []string
	Hint     Hint
	ConvType string
	Scope    string
	Breaking bool
	Author   string
	PRURL    string
	Score    float64
}

// Meta describes how a Release was parsed
type Meta struct {
	Format           format.Kind
	FormatConfidence float64
	Summary          string
	Title            string
}

// Release is the output of one extractor run
type Release struct {
	Items []Item
	Meta  Meta
}

// Extract parses body according to kind, dispatching over the closed format
// set. Unknown kinds parse as generic
func Extract(kind format.Kind, body string) Release {
	return ExtractVersion(kind, body, "")
}

// ExtractVersion is Extract with a version pin: when a keep-a-changelog body
// carries multiple version blocks, only the block for version is parsed
// (empty pin means the newest block). Other formats ignore the pin
func ExtractVersion(kind format.Kind, body, version string) Release {
	body = normalizeEOL(body)

	var rel Release
	switch kind {
	case format.KindChangesets:
		rel = changesets(body)
	case format.KindAutoGenerated:
		rel = autoGenerated(body)
	case format.KindVendor:
		rel = vendorCurated(body)
	case format.KindKeepAChangelog:
		rel = keepAChangelog(body, version)
	case format.KindConventional:
		rel = conventional(body)
	default:
		rel = generic(body)
	}

	rel.Meta.Format = kind
	rel.Meta.FormatConfidence = format.Confidence(body)
	if rel.Meta.Title == "" {
		rel.Meta.Title = firstHeaderTitle(body)
	}
	return rel
}

func normalizeEOL(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

var (
	headerRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	h1Re     = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)
	mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bulletRe = regexp.MustCompile(`^\s*[-*+]\s+(.+?)\s*$`)
)

// section is a contiguous header-delimited slice of the body. Content before
// the first header lands in an untitled level-0 section
type section struct {
	level int
	title string
	lines []string
}

func splitSections(body string, maxLevel int) []section {
	secs := []section{{}}
	for _, ln := range strings.Split(body, "\n") {
		if m := headerRe.FindStringSubmatch(ln); m != nil && len(m[1]) <= maxLevel {
			title := mdLinkRe.ReplaceAllString(m[2], "$1")
			secs = append(secs, section{level: len(m[1]), title: title})
			continue
		}
		cur := &secs[len(secs)-1]
		cur.lines = append(cur.lines, ln)
	}
	return secs
}

// bullets returns the text of top-level bullet lines, folding wrapped
// continuation lines into the preceding bullet. Nested bullets (indent >= 2)
// are details of the entry above and are skipped
func bullets(lines []string) []string {
	var out []string
	for _, ln := range lines {
		trimmed := strings.TrimLeft(ln, " \t")
		indent := len(ln) - len(trimmed)
		if m := bulletRe.FindStringSubmatch(ln); m != nil {
			if indent >= 2 {
				continue
			}
			out = append(out, m[1])
			continue
		}
		if trimmed == "" || indent == 0 || len(out) == 0 {
			continue
		}
		out[len(out)-1] += " " + strings.TrimSpace(trimmed)
	}
	return out
}

func firstHeaderTitle(body string) string {
	if m := h1Re.FindStringSubmatch(body); m != nil {
		return mdLinkRe.ReplaceAllString(m[1], "$1")
	}
	return ""
}

// sectionCategories maps normalized section titles to suggested categories.
// Keep-a-changelog names and conventional-commit style names are both listed
var sectionCategories = map[string]wnf.CategoryID{
	"added":        wnf.CategoryFeatures,
	"new":          wnf.CategoryFeatures,
	"new features": wnf.CategoryFeatures,
	"features":     wnf.CategoryFeatures,
	"feature":      wnf.CategoryFeatures,
	"feat":         wnf.CategoryFeatures,
	"enhancements": wnf.CategoryFeatures,
	"enhancement":  wnf.CategoryFeatures,
	"improvements": wnf.CategoryFeatures,

	"fixed":     wnf.CategoryFixes,
	"fixes":     wnf.CategoryFixes,
	"fix":       wnf.CategoryFixes,
	"bug fixes": wnf.CategoryFixes,
	"bugfixes":  wnf.CategoryFixes,
	"bugs":      wnf.CategoryFixes,

	"removed":          wnf.CategoryBreaking,
	"breaking":         wnf.CategoryBreaking,
	"breaking changes": wnf.CategoryBreaking,
	"deprecated":       wnf.CategoryBreaking,

	"security":    wnf.CategorySecurity,
	"performance": wnf.CategoryPerf,
	"perf":        wnf.CategoryPerf,

	"dependencies":       wnf.CategoryDeps,
	"deps":               wnf.CategoryDeps,
	"dependency updates": wnf.CategoryDeps,

	"docs":          wnf.CategoryDocs,
	"documentation": wnf.CategoryDocs,

	"refactor":    wnf.CategoryRefactor,
	"refactoring": wnf.CategoryRefactor,

	"chore":        wnf.CategoryChore,
	"chores":       wnf.CategoryChore,
	"maintenance":  wnf.CategoryChore,
	"internal":     wnf.CategoryChore,
	"housekeeping": wnf.CategoryChore,

	"changed":       wnf.CategoryOther,
	"changes":       wnf.CategoryOther,
	"other":         wnf.CategoryOther,
	"other changes": wnf.CategoryOther,
	"misc":          wnf.CategoryOther,
	"miscellaneous": wnf.CategoryOther,
}

// sectionCategory resolves a header title to a category hint. Titles are
// lowercased and stripped of emoji and punctuation before lookup; decorated
// titles ("Exciting New Features") resolve via the longest table key they
// contain as a whole phrase
func sectionCategory(title string) (wnf.CategoryID, bool) {
	if m := mdLinkRe.FindStringSubmatch(title); m != nil {
		title = m[1]
	}
	norm := normalizeTitle(title)
	if norm == "what's changed" {
		// the generated catch-all section carries no category signal
		return "", false
	}
	if c, ok := sectionCategories[norm]; ok {
		return c, true
	}
	best := ""
	var bestCat wnf.CategoryID
	for k, c := range sectionCategories {
		if len(k) > len(best) && containsPhrase(norm, k) {
			best, bestCat = k, c
		}
	}
	return bestCat, best != ""
}

func containsPhrase(s, phrase string) bool {
	idx := strings.Index(s, phrase)
	for idx >= 0 {
		pre := idx == 0 || s[idx-1] == ' '
		post := idx+len(phrase) == len(s) || s[idx+len(phrase)] == ' '
		if pre && post {
			return true
		}
		next := strings.Index(s[idx+1:], phrase)
		if next < 0 {
			break
		}
		idx += 1 + next
	}
	return false
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r == ' ', r == '\'':
			b.WriteRune(r)
		case r == '-', r == '_':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
