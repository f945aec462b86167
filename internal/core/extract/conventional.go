package extract

import (
	"regexp"
	"strings"
)

var (
	convSubjectRe     = regexp.MustCompile(`^(feat|fix|docs|style|refactor|perf|test|build|ci|chore)(?:\(([^)]*)\))?(!)?:\s*(.*)$`)
	breakingSubjectRe = regexp.MustCompile(`^BREAKING(?:[ -]CHANGES?)?:\s*(.*)$`)
)

// conventional parses one item per matching subject line. Lines that are not
// conventional subjects (merge commits, blanks, prose) are skipped
func conventional(body string) Release {
	var items []Item
	for _, ln := range strings.Split(body, "\n") {
		ln = strings.TrimSpace(ln)
		var it Item
		var raw string
		if m := convSubjectRe.FindStringSubmatch(ln); m != nil {
			it.ConvType = m[1]
			it.Scope = m[2]
			it.Breaking = m[3] == "!"
			raw = m[4]
		} else if m := breakingSubjectRe.FindStringSubmatch(ln); m != nil {
			it.Breaking = true
			raw = m[1]
		} else {
			continue
		}
		it.Refs = ExtractRefs(raw)
		it.Text = StripRefs(raw)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	return Release{Items: items}
}

// applySubject parses conventional-commit and BREAKING prefixes out of raw,
// filling the item's type/scope/breaking fields and leaving clean display
// text. Raw text without a recognized prefix passes through with only refs
// lifted out
func applySubject(it *Item, raw string) {
	if m := breakingSubjectRe.FindStringSubmatch(raw); m != nil {
		it.Breaking = true
		raw = m[1]
	} else if m := convSubjectRe.FindStringSubmatch(raw); m != nil {
		it.ConvType = m[1]
		if m[2] != "" {
			it.Scope = m[2]
		}
		if m[3] == "!" {
			it.Breaking = true
		}
		raw = m[4]
	}
	it.Refs = dedupRefs(append(it.Refs, ExtractRefs(raw)...))
	it.Text = StripRefs(raw)
}
