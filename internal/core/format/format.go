// Package format classifies raw release-note text into one of the known
// changelog formats. Detection is ordered most-specific first so that bodies
// mixing conventions never fall through to the generic parser by accident
package format

import (
	"regexp"
	"strings"
)

// Kind enumerates the supported changelog formats. The set is closed:
// extraction dispatches over it exhaustively
type Kind string

const (
	// KindChangesets is the changesets convention used by JS monorepos
	// (### Major/Minor/Patch Changes sections)
	KindChangesets Kind = "changesets"
	// KindAutoGenerated is the platform-generated release-notes layout
	// ("What's Changed" with "* title by @author in <pr-url>" bullets)
	KindAutoGenerated Kind = "auto-generated"
	// KindVendor is the vendor-curated layout built from collapsible
	// <details><summary> blocks and tier headers
	KindVendor Kind = "vendor"
	// KindKeepAChangelog is the keep-a-changelog convention
	// (## [x.y.z] version headers with ### Added/Fixed/... sections)
	KindKeepAChangelog Kind = "keep-a-changelog"
	// KindConventional is a plain list of conventional-commit subjects
	KindConventional Kind = "conventional-commits"
	// KindGeneric is the fallback for everything else
	KindGeneric Kind = "generic"
)

// Kinds lists every format in detection order
var Kinds = []Kind{
	KindChangesets,
	KindAutoGenerated,
	KindVendor,
	KindKeepAChangelog,
	KindConventional,
	KindGeneric,
}

var (
	whatsChangedRe  = regexp.MustCompile(`(?im)^#{1,6}\s*what'?s changed\b`)
	prBulletRe      = regexp.MustCompile(`(?im)^\s*[*-]\s+.+\s+by\s+@[\w-]+(\[bot\])?\s+in\s+https?://\S+/pull/\d+`)
	fullChangelogRe = regexp.MustCompile(`(?i)\*{0,2}full changelog\*{0,2}\s*:?`)
	newContribsRe   = regexp.MustCompile(`(?im)^#{1,6}\s*new contributors\b`)

	detailsCodeRe  = regexp.MustCompile(`(?is)<details[^>]*>\s*<summary>[^<]*\[[^\]]*\][^<]*<code>`)
	vendorTierRe   = regexp.MustCompile(`(?m)^####\s+(Ultimate|Premium|Free|Core)\b`)
	vendorHeaderRe = regexp.MustCompile(`(?m)^#####\s+\[[^\]]+\]\([^)]+\)`)

	kacVersionRe = regexp.MustCompile(`(?m)^##\s+\[\d+\.\d+\.\d+[^\]]*\]`)
	kacSectionRe = regexp.MustCompile(`(?m)^###\s+(Added|Changed|Deprecated|Removed|Fixed|Security)\b`)

	conventionalLineRe = regexp.MustCompile(`(?m)^(feat|fix|docs|style|refactor|perf|test|build|ci|chore)(\([^)]*\))?!?:`)

	anyHeaderRe = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
)

// Detect classifies body into a format kind. It never fails; unrecognized
// input is generic
func Detect(body string) Kind {
	switch {
	case isChangesets(body):
		return KindChangesets
	case isAutoGenerated(body):
		return KindAutoGenerated
	case isVendor(body):
		return KindVendor
	case isKeepAChangelog(body):
		return KindKeepAChangelog
	case isConventional(body):
		return KindConventional
	default:
		return KindGeneric
	}
}

// Confidence scores how reliably body will parse under its detected format.
// Recognized formats carry fixed confidences; generic quality depends on how
// much markdown structure survives
func Confidence(body string) float64 {
	switch Detect(body) {
	case KindChangesets, KindAutoGenerated, KindVendor, KindKeepAChangelog:
		return 0.9
	case KindConventional:
		return 0.85
	}
	if anyHeaderRe.MatchString(body) {
		return 0.7
	}
	if len(body) < 50 {
		return 0.3
	}
	return 0.6
}

func isChangesets(body string) bool {
	return strings.Contains(body, "### Major Changes") ||
		strings.Contains(body, "### Minor Changes") ||
		strings.Contains(body, "### Patch Changes")
}

func isAutoGenerated(body string) bool {
	if whatsChangedRe.MatchString(body) {
		return true
	}
	// bullets alone are ambiguous; require the surrounding generated scaffolding
	if prBulletRe.MatchString(body) {
		return fullChangelogRe.MatchString(body) || newContribsRe.MatchString(body)
	}
	return false
}

func isVendor(body string) bool {
	if detailsCodeRe.MatchString(body) {
		return true
	}
	return vendorTierRe.MatchString(body) && vendorHeaderRe.MatchString(body)
}

func isKeepAChangelog(body string) bool {
	return kacVersionRe.MatchString(body) || kacSectionRe.MatchString(body)
}

func isConventional(body string) bool {
	return conventionalLineRe.MatchString(body)
}
