// Package merge combines the primary release source (release body or
// changelog file) with commit history into one result. Dedup is per
// category: two items are the same change when they share a reference id
// or their dedup-normalized texts are equal
package merge

import (
	"whatsnew/internal/core/normalize"
	"whatsnew/internal/core/wnf"
)

// Results merges the two source results. Either side may be nil; with only
// one present it is returned unchanged. With both, the primary side wins on
// text and metadata, confidence is the max of the two, and categories come
// back in priority order with empties dropped
func Results(primary, commits *wnf.SourceResult) *wnf.SourceResult {
	if primary == nil {
		return commits
	}
	if commits == nil {
		return primary
	}

	grouped := make(map[wnf.CategoryID][]wnf.ChangeItem)
	var extra []wnf.CategoryID // ids outside the fixed order, first seen wins
	for _, cats := range [][]wnf.Category{primary.Categories, commits.Categories} {
		for _, c := range cats {
			if _, seen := grouped[c.ID]; !seen && !c.ID.Valid() {
				extra = append(extra, c.ID)
			}
			grouped[c.ID] = append(grouped[c.ID], c.Items...)
		}
	}

	var out []wnf.Category
	for _, id := range append(append([]wnf.CategoryID{}, wnf.CategoryOrder...), extra...) {
		items := dedupItems(grouped[id])
		if len(items) == 0 {
			continue
		}
		out = append(out, wnf.NewCategory(id, items))
	}

	conf, bd := primary.Confidence, primary.Breakdown
	if commits.Confidence > conf {
		conf, bd = commits.Confidence, commits.Breakdown
	}

	return &wnf.SourceResult{
		Source:     primary.Source,
		Categories: out,
		Confidence: conf,
		Breakdown:  bd,
		Meta:       mergeMeta(primary.Meta, commits.Meta),
	}
}

// dedupItems keeps the first occurrence of each change. Primary items come
// first in the input, so on a cross-source duplicate the primary's text
// survives verbatim; the duplicate only contributes refs and its breaking flag
func dedupItems(items []wnf.ChangeItem) []wnf.ChangeItem {
	if len(items) < 2 {
		return items
	}
	kept := make([]wnf.ChangeItem, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, it := range items {
		key := normalize.ForDedup(it.Text)
		idx := -1
		for i := range kept {
			if sharesRef(kept[i].Refs, it.Refs) || (key != "" && keys[i] == key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			kept = append(kept, it)
			keys = append(keys, key)
			continue
		}
		kept[idx] = absorb(kept[idx], it)
	}
	return kept
}

func absorb(into, dup wnf.ChangeItem) wnf.ChangeItem {
	into.Refs = unionRefs(into.Refs, dup.Refs)
	if dup.Breaking {
		into.Breaking = true
	}
	if into.Scope == "" {
		into.Scope = dup.Scope
	}
	return into
}

func sharesRef(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, r := range a {
		seen[r] = struct{}{}
	}
	for _, r := range b {
		if _, ok := seen[r]; ok {
			return true
		}
	}
	return false
}

func unionRefs(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	for _, r := range a {
		seen[r] = struct{}{}
	}
	for _, r := range b {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		a = append(a, r)
	}
	return a
}

// mergeMeta starts from the primary side and fills gaps from the commit
// side, which is where compare URLs and commit counts live
func mergeMeta(p, c wnf.SourceMeta) wnf.SourceMeta {
	if p.Tag == "" {
		p.Tag = c.Tag
	}
	if p.Version == "" {
		p.Version = c.Version
	}
	if p.ReleaseURL == "" {
		p.ReleaseURL = c.ReleaseURL
	}
	if p.CompareURL == "" {
		p.CompareURL = c.CompareURL
	}
	if p.ChangelogURL == "" {
		p.ChangelogURL = c.ChangelogURL
	}
	if p.Date == nil {
		p.Date = c.Date
	}
	if p.CommitCount == 0 {
		p.CommitCount = c.CommitCount
	}
	if p.RawContent == "" {
		p.RawContent = c.RawContent
	}
	return p
}
