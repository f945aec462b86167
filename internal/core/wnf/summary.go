package wnf

import (
	"fmt"
	"strconv"
	"strings"
)

// summaryOrder is the sentence order for Summarize. Readers scan for the
// headline items first, so features and fixes lead and housekeeping trails
var summaryOrder = []CategoryID{
	CategoryFeatures,
	CategoryFixes,
	CategoryBreaking,
	CategorySecurity,
	CategoryPerf,
	CategoryDeps,
	CategoryRefactor,
	CategoryDocs,
	CategoryChore,
	CategoryOther,
}

// phrase holds singular/plural wording per category
var summaryPhrases = map[CategoryID][2]string{
	CategoryFeatures: {"new feature", "new features"},
	CategoryFixes:    {"bug fix", "bug fixes"},
	CategoryBreaking: {"breaking change", "breaking changes"},
	CategorySecurity: {"security fix", "security fixes"},
	CategoryPerf:     {"performance improvement", "performance improvements"},
	CategoryDeps:     {"dependency update", "dependency updates"},
	CategoryRefactor: {"refactor", "refactors"},
	CategoryDocs:     {"documentation change", "documentation changes"},
	CategoryChore:    {"maintenance change", "maintenance changes"},
	CategoryOther:    {"other change", "other changes"},
}

// Summarize builds a deterministic one-line summary from category counts,
// e.g. "3 new features, 2 bug fixes, 1 breaking change"
func Summarize(cats []Category) string {
	counts := make(map[CategoryID]int, len(cats))
	for _, c := range cats {
		counts[c.ID] += len(c.Items)
	}

	parts := make([]string, 0, 4)
	for _, id := range summaryOrder {
		n := counts[id]
		if n == 0 {
			continue
		}
		p := summaryPhrases[id]
		word := p[0]
		if n != 1 {
			word = p[1]
		}
		parts = append(parts, strconv.Itoa(n)+" "+word)
	}
	if len(parts) == 0 {
		return "No notable changes"
	}
	return strings.Join(parts, ", ")
}

// DeriveNotes inspects the categorized items and the version string and emits
// reader guidance: breaking changes become a migration note, a major version
// bump becomes an upgrade note. Derivation is deterministic; AI-provided notes
// are appended by the caller after validation, not here
func DeriveNotes(cats []Category, version string) []Note {
	var notes []Note

	breaking := 0
	for _, c := range cats {
		for _, it := range c.Items {
			if it.Breaking || c.ID == CategoryBreaking {
				breaking++
			}
		}
	}
	if breaking > 0 {
		text := fmt.Sprintf("This release contains %d breaking change", breaking)
		if breaking != 1 {
			text += "s"
		}
		text += "; review the breaking changes section before upgrading"
		notes = append(notes, Note{Type: NoteMigration, Text: text})
	}

	if major, ok := majorRelease(version); ok {
		notes = append(notes, Note{
			Type: NoteUpgrade,
			Text: fmt.Sprintf("Version %d.0.0 is a major release and may change public APIs", major),
		})
	}

	return notes
}

// majorRelease reports whether version looks like an X.0.0 release with X >= 1
func majorRelease(version string) (int, bool) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 1 {
		return 0, false
	}
	if parts[1] != "0" {
		return 0, false
	}
	// tolerate prerelease/build suffixes on the patch slot ("0-rc.1", "0+meta")
	patch := parts[2]
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch = patch[:i]
	}
	if patch != "0" {
		return 0, false
	}
	return major, true
}
