package extract

import "regexp"

// autoBulletRe matches the generated "<title> by @<author> in <pr-url>"
// bullet body (the bullet marker is already stripped)
var autoBulletRe = regexp.MustCompile(`^(.+?)\s+by\s+@([\w-]+(?:\[bot\])?)\s+in\s+(https?://\S+/pull/(\d+))/?\s*$`)

// autoGenerated parses platform-generated release notes. Sections group
// bullets under optional category headers; the "New Contributors" section is
// acknowledgment noise and is skipped wholesale
func autoGenerated(body string) Release {
	var items []Item
	for _, sec := range splitSections(body, 3) {
		if normalizeTitle(sec.title) == "new contributors" {
			continue
		}
		cat, _ := sectionCategory(sec.title)
		for _, b := range bullets(sec.lines) {
			m := autoBulletRe.FindStringSubmatch(b)
			if m == nil {
				continue
			}
			it := Item{
				Hint:   Hint{Section: sec.title, Category: cat},
				Author: m[2],
				PRURL:  m[3],
				Refs:   []string{"#" + m[4]},
			}
			applySubject(&it, m[1])
			if it.Text == "" {
				continue
			}
			items = append(items, it)
		}
	}
	return Release{Items: items}
}
