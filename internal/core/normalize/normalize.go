// Package normalize provides deterministic text normalization for dedup keys
// Pipeline order for Fold
// 1 Control/invalid byte cleanup
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace to single spaces and trim
//
// ForDedup layers changelog-specific noise stripping on top so two phrasings
// of the same change ("Fix retry loop (#88)" vs "fix retry loop") compare equal
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Fold returns the folded form of s following the pipeline described above
func Fold(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 collapse whitespace and trim
	return collapseSpaces(ns)
}

// dedupKeyLen caps dedup keys; beyond this length two real items that share
// a prefix are the same change reworded
const dedupKeyLen = 100

var (
	leadingRefRe  = regexp.MustCompile(`^#\d+\s*[-:]\s*`)
	scopeBoldRe   = regexp.MustCompile(`^\*\*[^*]+\*\*\s*:?\s*`)
	authorTailRe  = regexp.MustCompile(`(?i)(?:,\s*)?\bby\s+@[\w-]+(?:\[bot\])?\s*$`)
	refGroupRe    = regexp.MustCompile(`(?i)\s*\((?:#\d+|gh-\d+)(?:\s*,\s*(?:#\d+|gh-\d+))*\)\s*$`)
	closingTailRe = regexp.MustCompile(`(?i)(?:,\s*)?\(?\s*(?:closes|fixes|resolves)\s+#\d+\s*\)?\s*$`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*)\)`)
)

// ForDedup reduces an item's display text to a stable comparison key: folded,
// stripped of ref/author/scope decoration, whitespace-flattened, and capped.
// Idempotent: ForDedup(ForDedup(s)) == ForDedup(s)
func ForDedup(s string) string {
	// iterate to a fixpoint so stripping one layer of decoration cannot
	// expose another on a later call
	for i := 0; i < 4; i++ {
		next := dedupPass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func dedupPass(s string) string {
	s = Fold(s)
	s = leadingRefRe.ReplaceAllString(s, "")
	s = scopeBoldRe.ReplaceAllString(s, "")
	s = authorTailRe.ReplaceAllString(s, "")
	s = refGroupRe.ReplaceAllString(s, "")
	s = closingTailRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, " -:,.")
	return truncateRunes(s, dedupKeyLen)
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// collapseSpaces converts whitespace runs to a single ASCII space, but preserves line breaks.
// Runs that contain any newline are collapsed to a single newline. Leading/trailing spaces/newlines are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	out := b.String()
	// Trim both spaces and newlines on edges
	out = strings.Trim(out, " \n\t\r")
	return out
}
