package extract

import (
	"regexp"
	"strings"
)

var (
	kacVersionHeaderRe = regexp.MustCompile(`^##\s+\[?([^\]\s]+)\]?(?:\s+-\s+\S+)?\s*$`)
	kacSectionHeaderRe = regexp.MustCompile(`^###\s+(.+?)\s*$`)
)

type kacBlock struct {
	version string
	lines   []string
}

// keepAChangelog parses exactly one version block: the requested one when
// version is set, otherwise the newest block that actually has entries, so a
// bare [Unreleased] header at the top never masks the latest release below it
func keepAChangelog(body, version string) Release {
	blocks := kacBlocks(body)
	if len(blocks) == 0 {
		blocks = []kacBlock{{lines: strings.Split(body, "\n")}}
	}

	if version != "" {
		want := strings.TrimPrefix(strings.ToLower(version), "v")
		for _, b := range blocks {
			if strings.TrimPrefix(strings.ToLower(b.version), "v") == want {
				return kacRelease(b)
			}
		}
	}
	for _, b := range blocks {
		if rel := kacRelease(b); len(rel.Items) > 0 {
			return rel
		}
	}
	return kacRelease(blocks[0])
}

func kacRelease(b kacBlock) Release {
	items, summary := kacBlockItems(b.lines)
	return Release{
		Items: items,
		Meta:  Meta{Summary: summary, Title: b.version},
	}
}

func kacBlocks(body string) []kacBlock {
	var blocks []kacBlock
	for _, ln := range strings.Split(body, "\n") {
		if m := kacVersionHeaderRe.FindStringSubmatch(ln); m != nil && looksLikeVersion(m[1]) {
			blocks = append(blocks, kacBlock{version: m[1]})
			continue
		}
		if len(blocks) == 0 {
			continue
		}
		cur := &blocks[len(blocks)-1]
		cur.lines = append(cur.lines, ln)
	}
	return blocks
}

func kacBlockItems(lines []string) ([]Item, string) {
	var items []Item
	var summary []string

	secTitle := ""
	var secLines []string
	flush := func() {
		if secTitle == "" {
			// prose before the first section doubles as the block summary
			for _, ln := range secLines {
				ln = strings.TrimSpace(ln)
				if ln != "" && !strings.HasPrefix(ln, "-") && !strings.HasPrefix(ln, "*") {
					summary = append(summary, ln)
				}
			}
		} else {
			items = append(items, kacSectionItems(secTitle, secLines)...)
		}
		secLines = nil
	}
	for _, ln := range lines {
		if m := kacSectionHeaderRe.FindStringSubmatch(ln); m != nil {
			flush()
			secTitle = m[1]
			continue
		}
		secLines = append(secLines, ln)
	}
	flush()

	return items, strings.Join(summary, " ")
}

// looksLikeVersion keeps level-2 prose headers from being mistaken for
// version blocks
func looksLikeVersion(s string) bool {
	low := strings.ToLower(s)
	if low == "unreleased" {
		return true
	}
	t := strings.TrimPrefix(low, "v")
	return t != "" && t[0] >= '0' && t[0] <= '9'
}

func kacSectionItems(title string, lines []string) []Item {
	cat, _ := sectionCategory(title)
	var items []Item
	for _, b := range bullets(lines) {
		it := Item{Hint: Hint{Section: title, Category: cat}}
		applySubject(&it, b)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}
