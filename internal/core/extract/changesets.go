package extract

import (
	"regexp"
	"strings"

	"whatsnew/internal/core/wnf"
)

var (
	changesetSectionRe = regexp.MustCompile(`^###\s+(Major|Minor|Patch)\s+Changes\s*$`)
	hashBracketRe      = regexp.MustCompile(`^\[([0-9a-f]{7,40})\]\s*:?\s*(.*)$`)
	hashColonRe        = regexp.MustCompile(`^([0-9a-f]{7,40}):\s*(.*)$`)
	boldPkgRe          = regexp.MustCompile(`^\*\*\(([^)]+)\)\*\*\s*:?\s*(.*)$`)
	updatedDepsRe      = regexp.MustCompile(`^Updated dependencies\b\s*(?:\[([0-9a-f]{7,40})\])?`)
)

// changesetHints maps the three changeset sections to suggested categories:
// semver majors imply breaking work, minors new functionality, patches fixes
var changesetHints = map[string]wnf.CategoryID{
	"Major": wnf.CategoryBreaking,
	"Minor": wnf.CategoryFeatures,
	"Patch": wnf.CategoryFixes,
}

func changesets(body string) Release {
	var items []Item
	secName := ""
	var secLines []string
	flush := func() {
		if secName != "" {
			items = append(items, changesetSectionItems(secName, secLines)...)
		}
		secLines = nil
	}
	for _, ln := range strings.Split(body, "\n") {
		if m := changesetSectionRe.FindStringSubmatch(ln); m != nil {
			flush()
			secName = m[1]
			continue
		}
		secLines = append(secLines, ln)
	}
	flush()
	return Release{Items: items}
}

func changesetSectionItems(name string, lines []string) []Item {
	hint := Hint{Section: name + " Changes", Category: changesetHints[name]}
	var items []Item
	for _, b := range bullets(lines) {
		if m := updatedDepsRe.FindStringSubmatch(b); m != nil {
			it := Item{
				Text: "Updated dependencies",
				Hint: Hint{Section: hint.Section, Category: wnf.CategoryDeps},
			}
			if m[1] != "" {
				it.Refs = []string{m[1]}
			}
			items = append(items, it)
			continue
		}

		it := Item{Hint: hint}
		rest := b
		if m := hashBracketRe.FindStringSubmatch(rest); m != nil {
			it.Refs = append(it.Refs, m[1])
			rest = m[2]
		} else if m := hashColonRe.FindStringSubmatch(rest); m != nil {
			it.Refs = append(it.Refs, m[1])
			rest = m[2]
		}
		if m := boldPkgRe.FindStringSubmatch(rest); m != nil {
			it.Scope = m[1]
			rest = m[2]
		}
		applySubject(&it, rest)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}
