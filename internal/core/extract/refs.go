package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	issueRefRe = regexp.MustCompile(`#\d+\b`)
	ghRefRe    = regexp.MustCompile(`\bGH-\d+\b`)
	prURLRe    = regexp.MustCompile(`https?://[^\s)]+/(?:pull|issues)/(\d+)\b`)
	shaRe      = regexp.MustCompile(`\b[0-9a-f]{7,40}\b`)

	trailingRefsRe = regexp.MustCompile(`\s*\((?:#\d+|GH-\d+)(?:\s*,\s*(?:#\d+|GH-\d+))*\)\s*$`)
	closingRefRe   = regexp.MustCompile(`(?i)(?:,\s*)?\(?\s*(?:closes|fixes|resolves)\s+#\d+\s*\)?\s*$`)

	emptyBracketsRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	spaceRunRe      = regexp.MustCompile(`[ \t]{2,}`)
)

// ExtractRefs collects reference identifiers appearing anywhere in text:
// issue/PR numbers (#123), GH-123 style ids, pull-request and issue URLs
// (captured as #<number>), and abbreviated commit SHAs. Results are unique,
// in first-seen order per pattern
func ExtractRefs(text string) []string {
	var refs []string
	seen := map[string]struct{}{}
	add := func(r string) {
		if r == "" {
			return
		}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		refs = append(refs, r)
	}
	for _, m := range prURLRe.FindAllStringSubmatch(text, -1) {
		add("#" + m[1])
	}
	for _, m := range issueRefRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range ghRefRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range shaRe.FindAllString(text, -1) {
		if plausibleSHA(m) {
			add(m)
		}
	}
	return refs
}

// plausibleSHA guards the bare-hex match: an abbreviated SHA virtually always
// mixes digits and letters, and requiring both keeps prose words ("defaced")
// and bare numbers out of the ref set
func plausibleSHA(s string) bool {
	var digit, letter bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'f':
			letter = true
		}
	}
	return digit && letter
}

// StripTrailingRefs removes trailing reference groups like "(#123, #456)" and
// "(closes #12)" from text. Idempotent: stripping already-clean text is a
// no-op
func StripTrailingRefs(text string) string {
	out := text
	for {
		next := trailingRefsRe.ReplaceAllString(out, "")
		next = closingRefRe.ReplaceAllString(next, "")
		if next == out {
			return strings.TrimRight(out, " \t")
		}
		out = next
	}
}

// StripRefs removes every reference token from text so the display string
// never re-embeds an id carried in Refs. Leftover empty brackets and doubled
// whitespace are collapsed. Idempotent
func StripRefs(text string) string {
	out := StripTrailingRefs(text)
	out = prURLRe.ReplaceAllString(out, "")
	out = issueRefRe.ReplaceAllString(out, "")
	out = ghRefRe.ReplaceAllString(out, "")
	out = shaRe.ReplaceAllStringFunc(out, func(m string) string {
		if plausibleSHA(m) {
			return ""
		}
		return m
	})
	out = emptyBracketsRe.ReplaceAllString(out, "")
	out = spaceRunRe.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	return strings.TrimRight(out, " -:,")
}

// Anchors returns the sorted reference set present in body. AI-extracted
// results are filtered against it: any returned ref not in the set is
// discarded as hallucinated
func Anchors(body string) []string {
	refs := ExtractRefs(body)
	sort.Strings(refs)
	return refs
}

func dedupRefs(refs []string) []string {
	if len(refs) < 2 {
		return refs
	}
	out := refs[:0]
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
