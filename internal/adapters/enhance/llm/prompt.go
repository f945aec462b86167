package llm

import (
	"fmt"
	"strings"

	"whatsnew/internal/core/wnf"
)

// buildPrompt frames the task for the model: strict JSON output, the closed
// category id set, and references restricted to the anchor list
func buildPrompt(raw string, anchors []string) string {
	var b strings.Builder

	b.WriteString("You are a changelog extraction engine. Extract every user-facing change from the release notes below.\n\n")
	b.WriteString("Respond with a single JSON object and nothing else, using exactly this shape:\n")
	b.WriteString(`{"categories":[{"id":"fixes","items":[{"text":"Fix connection leak","refs":["#123"],"scope":"api","breaking":false}]}],"version":"1.2.3","hasBreakingChanges":false,"notes":[{"type":"info","text":"..."}]}`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Category ids MUST come from this set: %s.\n", strings.Join(categoryIDs(), ", "))
	b.WriteString("Note types MUST come from: upgrade, migration, deprecation, info.\n")
	b.WriteString("Item text must be one concise sentence without markdown, links, usernames, or trailing reference ids.\n")
	b.WriteString("Skip contributor acknowledgments, version-bump noise, and merge commits.\n")
	if len(anchors) > 0 {
		fmt.Fprintf(&b, "Only use reference ids from this list, never invent one: %s.\n", strings.Join(anchors, ", "))
	} else {
		b.WriteString("Do not emit any reference ids.\n")
	}

	b.WriteString("\nRelease notes:\n")
	b.WriteString(raw)
	b.WriteString("\n")
	return b.String()
}

func categoryIDs() []string {
	out := make([]string, len(wnf.CategoryOrder))
	for i, id := range wnf.CategoryOrder {
		out[i] = string(id)
	}
	return out
}
