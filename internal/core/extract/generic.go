package extract

import "strings"

// generic is the fallback parser: sectioned bullets first, then any bullet
// list, then loose non-empty lines. Each stage only runs when the previous
// one produced nothing, so prose-only bodies still yield items
func generic(body string) Release {
	secs := splitSections(body, 6)

	var items []Item
	for _, sec := range secs {
		if sec.level == 0 {
			continue
		}
		cat, _ := sectionCategory(sec.title)
		for _, b := range bullets(sec.lines) {
			it := Item{Hint: Hint{Section: sec.title, Category: cat}}
			applySubject(&it, b)
			if it.Text == "" {
				continue
			}
			items = append(items, it)
		}
	}
	if len(items) > 0 {
		return Release{Items: items, Meta: Meta{Summary: leadingProse(secs)}}
	}

	for _, b := range bullets(strings.Split(body, "\n")) {
		it := Item{}
		applySubject(&it, b)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	if len(items) > 0 {
		return Release{Items: items}
	}

	return Release{Items: looseItems(body)}
}

// leadingProse joins the first prose paragraph before any header into a
// release summary
func leadingProse(secs []section) string {
	if len(secs) == 0 || secs[0].level != 0 {
		return ""
	}
	var out []string
	for _, ln := range secs[0].lines {
		t := strings.TrimSpace(ln)
		if t == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(t, "-") || strings.HasPrefix(t, "*") || strings.HasPrefix(t, ">") {
			break
		}
		out = append(out, t)
	}
	return strings.Join(out, " ")
}

func looseItems(body string) []Item {
	var items []Item
	inFence := false
	for _, ln := range strings.Split(body, "\n") {
		t := strings.TrimSpace(ln)
		if strings.HasPrefix(t, "```") {
			inFence = !inFence
			continue
		}
		if inFence || t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		it := Item{}
		applySubject(&it, t)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}
