package wnf

import (
	"strings"
)

// Markdown renders the document as a human-readable changelog.
// Output is deterministic for a given document
func (d *Document) Markdown() string {
	var b strings.Builder

	title := d.Source.Repo
	if d.Version != "" {
		title += " " + d.Version
	} else if d.Source.Tag != "" {
		title += " " + d.Source.Tag
	}
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if d.Summary != "" {
		b.WriteString(d.Summary)
		b.WriteString("\n\n")
	}

	for _, n := range d.Notes {
		b.WriteString("> **")
		b.WriteString(strings.ToUpper(string(n.Type)[:1]) + string(n.Type)[1:])
		b.WriteString(":** ")
		b.WriteString(n.Text)
		b.WriteString("\n")
	}
	if len(d.Notes) > 0 {
		b.WriteString("\n")
	}

	writeCategories(&b, "## ", d.Categories)

	var links []string
	if d.Links.Release != "" {
		links = append(links, "[Release]("+d.Links.Release+")")
	}
	if d.Links.Compare != "" {
		links = append(links, "[Compare]("+d.Links.Compare+")")
	}
	if d.Links.Changelog != "" {
		links = append(links, "[Changelog]("+d.Links.Changelog+")")
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, " · "))
		b.WriteString("\n")
	}

	return b.String()
}

// Markdown renders the aggregated document with a section per package
func (d *AggregatedDocument) Markdown() string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(d.Source.Repo)
	b.WriteString("\n\n")

	for _, p := range d.Packages {
		title := p.Name
		if p.LatestVersion != "" {
			title += " " + p.LatestVersion
		}
		b.WriteString("## ")
		b.WriteString(title)
		b.WriteString("\n\n")
		writeCategories(&b, "### ", p.Categories)
	}

	return b.String()
}

func writeCategories(b *strings.Builder, heading string, cats []Category) {
	for _, c := range cats {
		if len(c.Items) == 0 {
			continue
		}
		b.WriteString(heading)
		b.WriteString(c.Title)
		b.WriteString("\n\n")
		for _, it := range c.Items {
			b.WriteString("- ")
			if it.Scope != "" {
				b.WriteString("**")
				b.WriteString(it.Scope)
				b.WriteString(":** ")
			}
			b.WriteString(it.Text)
			if len(it.Refs) > 0 {
				b.WriteString(" (")
				b.WriteString(strings.Join(it.Refs, ", "))
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}
