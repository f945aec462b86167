// Package synthesize runs the pure transformation stages over one input:
// format detection, extraction, categorization, scoring. Sources and
// services call it once per body; it does no I/O and returns nil for
// absence instead of erroring
package synthesize

import (
	"regexp"
	"strings"

	"whatsnew/internal/core/categorize"
	"whatsnew/internal/core/extract"
	"whatsnew/internal/core/format"
	"whatsnew/internal/core/normalize"
	"whatsnew/internal/core/score"
	"whatsnew/internal/core/wnf"
)

// FromBody transforms one release body or changelog file into a scored
// source result. version pins the keep-a-changelog block when the body holds
// several releases; pass "" for the latest
func FromBody(source, body, version string) *wnf.SourceResult {
	body = normalize.Sanitize(body)
	if strings.TrimSpace(body) == "" {
		return nil
	}
	kind := format.Detect(body)
	rel := extract.ExtractVersion(kind, body, version)
	return fromRelease(source, body, version, rel, estimateItems(body))
}

// FromCommits treats commit subjects as a conventional-commit stream. Lines
// that are not conventional (merge commits included) are skipped by the
// extractor; the subject count feeds the completeness dimension so a mostly
// unparseable history scores honestly low
func FromCommits(subjects []string) *wnf.SourceResult {
	if len(subjects) == 0 {
		return nil
	}
	body := normalize.Sanitize(strings.Join(subjects, "\n"))
	rel := extract.Extract(format.KindConventional, body)
	return fromRelease("commit-history", body, "", rel, len(subjects))
}

func fromRelease(source, body, version string, rel extract.Release, estimated int) *wnf.SourceResult {
	if len(rel.Items) == 0 {
		return nil
	}

	items := rel.Items
	for i := range items {
		items[i].Score = score.Combined(items[i].Text, items[i].ConvType, items[i].Scope, items[i].Refs)
	}

	cats, tiers := categorize.WithReasons(items)
	bd := score.Composite(items, tiers, rel.Meta.FormatConfidence, estimated)

	if version == "" {
		version = versionFromTitle(rel.Meta.Title)
	}

	return &wnf.SourceResult{
		Source:     source,
		Categories: cats,
		Confidence: bd.Composite,
		Breakdown:  &bd,
		Meta: wnf.SourceMeta{
			Version:    version,
			RawContent: body,
		},
	}
}

var titleVersionRe = regexp.MustCompile(`^v?(\d+(?:\.\d+)+[\w.+-]*)$`)

// versionFromTitle recovers a version from extraction metadata, which is how
// changelog files without a requested tag get one ("## [1.4.0] - ...")
func versionFromTitle(title string) string {
	if m := titleVersionRe.FindStringSubmatch(strings.TrimSpace(title)); m != nil {
		return m[1]
	}
	return ""
}

var bulletishRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\S`)

// estimateItems counts bullet-ish lines in a body. The completeness dimension
// compares extracted items against this; a body with no bullets estimates 0,
// which the scorer treats as "no estimate"
func estimateItems(body string) int {
	n := 0
	for _, ln := range strings.Split(body, "\n") {
		if bulletishRe.MatchString(ln) {
			n++
		}
	}
	return n
}
