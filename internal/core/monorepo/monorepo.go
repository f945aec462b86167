// Package monorepo groups per-package release tags ("@scope/pkg@1.2.3")
// into one report per package. Plain repos collapse into a single main
// package named after the repository
package monorepo

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"whatsnew/internal/core/wnf"
)

// tagPkgRe splits "name@version" tags; the name may be npm-scoped
var tagPkgRe = regexp.MustCompile(`^(@?[^@]+)@(.+)$`)

// versionTagRe matches plain version tags like "v1.2.3" or "2.0.0"
var versionTagRe = regexp.MustCompile(`^v?\d`)

// Release is one synthesized release feeding the aggregation. Callers pass
// releases newest first, the order the listing API returns them in
type Release struct {
	Tag        string
	URL        string
	Date       *time.Time
	Categories []wnf.Category
	Confidence float64
}

// PackageName extracts the package part of a monorepo tag. Tags without a
// name@version shape return "" and belong to the main package
func PackageName(tag string) string {
	if m := tagPkgRe.FindStringSubmatch(tag); m != nil {
		return m[1]
	}
	return ""
}

// Version extracts the version part of a tag, without any leading "v"
func Version(tag string) string {
	s := tag
	if m := tagPkgRe.FindStringSubmatch(tag); m != nil {
		s = m[2]
	}
	return strings.TrimPrefix(s, "v")
}

// Aggregate groups releases by package. Within a group categories are
// concatenated with exact-text dedup (cross-release noise is identical
// strings, not rephrasings), confidence is averaged, and the main package
// sorts first with the rest alphabetical
func Aggregate(repoName string, releases []Release) []wnf.PackageChanges {
	groups := make(map[string][]Release)
	var order []string
	for _, r := range releases {
		name := PackageName(r.Tag)
		if name == "" {
			name = repoName
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], r)
	}

	out := make([]wnf.PackageChanges, 0, len(order))
	for _, name := range order {
		out = append(out, buildPackage(repoName, name, groups[name]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsMain != out[j].IsMain {
			return out[i].IsMain
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func buildPackage(repoName, name string, rels []Release) wnf.PackageChanges {
	grouped := make(map[wnf.CategoryID][]wnf.ChangeItem)
	seen := make(map[wnf.CategoryID]map[string]struct{})
	summaries := make([]wnf.ReleaseSummary, 0, len(rels))

	isMain := name == repoName
	latest := ""
	var confSum float64
	for _, r := range rels {
		confSum += r.Confidence
		if versionTagRe.MatchString(r.Tag) {
			isMain = true
		}
		if latest == "" {
			latest = Version(r.Tag)
		}
		summaries = append(summaries, summary(r))
		for _, c := range r.Categories {
			if seen[c.ID] == nil {
				seen[c.ID] = make(map[string]struct{})
			}
			for _, it := range c.Items {
				if _, dup := seen[c.ID][it.Text]; dup {
					continue
				}
				seen[c.ID][it.Text] = struct{}{}
				grouped[c.ID] = append(grouped[c.ID], it)
			}
		}
	}

	var cats []wnf.Category
	for _, id := range wnf.CategoryOrder {
		if items := grouped[id]; len(items) > 0 {
			cats = append(cats, wnf.NewCategory(id, items))
		}
	}

	return wnf.PackageChanges{
		Name:          name,
		IsMain:        isMain,
		Categories:    cats,
		Releases:      summaries,
		ReleaseCount:  len(rels),
		LatestVersion: latest,
		Confidence:    confSum / float64(len(rels)),
	}
}

// Summaries flattens releases into summary rows, preserving input order
func Summaries(releases []Release) []wnf.ReleaseSummary {
	out := make([]wnf.ReleaseSummary, 0, len(releases))
	for _, r := range releases {
		out = append(out, summary(r))
	}
	return out
}

func summary(r Release) wnf.ReleaseSummary {
	return wnf.ReleaseSummary{
		Tag:        r.Tag,
		Version:    Version(r.Tag),
		URL:        r.URL,
		Date:       r.Date,
		ItemCount:  wnf.CountItems(r.Categories),
		Confidence: r.Confidence,
	}
}
