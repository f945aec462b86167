package format

import "testing"

const autoGenBody = `## What's Changed
* Add dark mode by @alice in https://github.com/acme/widget/pull/101
* Fix flaky tests by @bob in https://github.com/acme/widget/pull/102

## New Contributors
* @bob made their first contribution in https://github.com/acme/widget/pull/102

**Full Changelog**: https://github.com/acme/widget/compare/v1.0.0...v1.1.0
`

const changesetsBody = `### Major Changes

- a1b2c3d: feat(core)!: drop legacy config loader

### Patch Changes

- Updated dependencies [9f8e7d6]
`

const vendorBody = `#### Premium

##### [Forms](https://example.com/forms)

<details><summary>[Conditional logic](https://example.com/forms/logic) <code>feature</code></summary>
Adds branching rules to form steps.
</details>
`

const kacBody = `## [1.4.0] - 2024-06-01

### Added
- OAuth device flow

### Fixed
- Crash when config missing
`

const conventionalBody = `feat(api): add rate limit headers
fix: handle nil pointer in parser
chore: bump linters
`

func TestDetectFixedOrder(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Kind
	}{
		{"changesets", changesetsBody, KindChangesets},
		{"auto-generated", autoGenBody, KindAutoGenerated},
		{"vendor details block", vendorBody, KindVendor},
		{"keep-a-changelog", kacBody, KindKeepAChangelog},
		{"conventional", conventionalBody, KindConventional},
		{"generic prose", "We shipped a bunch of improvements this week across the board.", KindGeneric},
		{"empty", "", KindGeneric},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.body); got != tc.want {
				t.Fatalf("Detect = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDetectPrecedence(t *testing.T) {
	// changesets sections win even when conventional lines appear inside
	if got := Detect(changesetsBody); got != KindChangesets {
		t.Fatalf("changesets body with conventional sub-lines = %s", got)
	}

	// a keep-a-changelog body embedding conventional-style bullets stays keep-a-changelog
	mixed := kacBody + "\nfeat: stray line\n"
	if got := Detect(mixed); got != KindKeepAChangelog {
		t.Fatalf("mixed body = %s, want keep-a-changelog", got)
	}

	// PR bullets without generated scaffolding are not auto-generated
	bare := "* Add dark mode by @alice in https://github.com/acme/widget/pull/101\n"
	if got := Detect(bare); got == KindAutoGenerated {
		t.Fatalf("bare PR bullet should not classify as auto-generated")
	}
}

func TestConfidence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want float64
	}{
		{"changesets", changesetsBody, 0.9},
		{"auto-generated", autoGenBody, 0.9},
		{"vendor", vendorBody, 0.9},
		{"keep-a-changelog", kacBody, 0.9},
		{"conventional", conventionalBody, 0.85},
		{"generic with headers", "# Release\n\nAssorted improvements and housekeeping items landed.\n", 0.7},
		{"tiny body", "bugfixes", 0.3},
		{"long plain body", "This release improves startup time and lowers memory usage across all supported platforms without config changes.", 0.6},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Confidence(tc.body); got != tc.want {
				t.Fatalf("Confidence = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectChangesetsScenario(t *testing.T) {
	body := "### Major Changes\n- abc1234: rewrite scheduler"
	if got := Detect(body); got != KindChangesets {
		t.Fatalf("Detect = %s, want changesets", got)
	}
	if got := Confidence(body); got != 0.9 {
		t.Fatalf("Confidence = %v, want 0.9", got)
	}
}
