package extract

import (
	"regexp"
	"strings"

	"whatsnew/internal/core/wnf"
)

var (
	detailsBlockRe = regexp.MustCompile(`(?is)<details[^>]*>\s*<summary>(.*?)</summary>(.*?)</details>`)
	codeLabelRe    = regexp.MustCompile(`(?i)<code>([^<]*)</code>`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// vendorStages maps <code> stage labels inside summaries to categories
var vendorStages = map[string]wnf.CategoryID{
	"feature":      wnf.CategoryFeatures,
	"new":          wnf.CategoryFeatures,
	"improved":     wnf.CategoryFeatures,
	"improvement":  wnf.CategoryFeatures,
	"experimental": wnf.CategoryFeatures,

	"bugfix": wnf.CategoryFixes,
	"bug":    wnf.CategoryFixes,
	"fix":    wnf.CategoryFixes,
	"fixed":  wnf.CategoryFixes,

	"removed":    wnf.CategoryBreaking,
	"removal":    wnf.CategoryBreaking,
	"deprecated": wnf.CategoryBreaking,

	"security":    wnf.CategorySecurity,
	"performance": wnf.CategoryPerf,

	"updated": wnf.CategoryOther,
	"update":  wnf.CategoryOther,
}

type vendorHeader struct {
	pos   int
	level int
	title string
}

// vendorCurated parses vendor-curated notes built from collapsible details
// blocks under tier (####) and category (#####) headers. Bodies without any
// details blocks fall back to bullet-with-link parsing
func vendorCurated(body string) Release {
	blocks := detailsBlockRe.FindAllStringSubmatchIndex(body, -1)
	if len(blocks) == 0 {
		return Release{Items: vendorBullets(body)}
	}

	headers := vendorHeaders(body)
	var items []Item
	for _, loc := range blocks {
		summary := body[loc[2]:loc[3]]
		detail := body[loc[4]:loc[5]]
		sec := headerBefore(headers, loc[0])

		it := Item{Hint: Hint{Section: sec}}
		if cat, ok := stageCategory(codeLabels(summary)); ok {
			it.Hint.Category = cat
		} else if cat, ok := sectionCategory(sec); ok {
			it.Hint.Category = cat
		}

		title := mdLinkRe.ReplaceAllString(summary, "$1")
		title = codeLabelRe.ReplaceAllString(title, "")
		title = htmlTagRe.ReplaceAllString(title, "")

		it.Refs = ExtractRefs(summary + " " + detail)
		it.Text = StripRefs(strings.TrimSpace(title))
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	return Release{Items: items}
}

func vendorHeaders(body string) []vendorHeader {
	var hs []vendorHeader
	pos := 0
	for _, ln := range strings.Split(body, "\n") {
		if m := headerRe.FindStringSubmatch(ln); m != nil {
			if lvl := len(m[1]); lvl == 4 || lvl == 5 {
				title := mdLinkRe.ReplaceAllString(m[2], "$1")
				hs = append(hs, vendorHeader{pos: pos, level: lvl, title: title})
			}
		}
		pos += len(ln) + 1
	}
	return hs
}

// headerBefore returns the nearest category header title preceding pos,
// falling back to the tier title. A new tier resets the category context
func headerBefore(hs []vendorHeader, pos int) string {
	tier, cat := "", ""
	for _, h := range hs {
		if h.pos >= pos {
			break
		}
		if h.level == 4 {
			tier, cat = h.title, ""
		} else {
			cat = h.title
		}
	}
	if cat != "" {
		return cat
	}
	return tier
}

func stageCategory(labels []string) (wnf.CategoryID, bool) {
	for _, l := range labels {
		if c, ok := vendorStages[normalizeTitle(l)]; ok {
			return c, true
		}
	}
	return "", false
}

func codeLabels(s string) []string {
	var out []string
	for _, m := range codeLabelRe.FindAllStringSubmatch(s, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func vendorBullets(body string) []Item {
	var items []Item
	for _, sec := range splitSections(body, 5) {
		cat, _ := sectionCategory(sec.title)
		for _, b := range bullets(sec.lines) {
			it := Item{
				Hint: Hint{Section: sec.title, Category: cat},
				Refs: ExtractRefs(b),
			}
			it.Text = StripRefs(mdLinkRe.ReplaceAllString(b, "$1"))
			if it.Text == "" {
				continue
			}
			items = append(items, it)
		}
	}
	return items
}
