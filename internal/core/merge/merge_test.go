package merge

import (
	"testing"
	"time"

	"whatsnew/internal/core/wnf"
)

func result(source string, conf float64, cats ...wnf.Category) *wnf.SourceResult {
	return &wnf.SourceResult{Source: source, Categories: cats, Confidence: conf}
}

func cat(id wnf.CategoryID, texts ...string) wnf.Category {
	items := make([]wnf.ChangeItem, 0, len(texts))
	for _, tx := range texts {
		items = append(items, wnf.ChangeItem{Text: tx})
	}
	return wnf.NewCategory(id, items)
}

func TestResultsOneSided(t *testing.T) {
	p := result("github-release", 0.8, cat(wnf.CategoryFixes, "Fix retry loop"))
	c := result("commit-history", 0.6, cat(wnf.CategoryFeatures, "Add OAuth support"))

	if got := Results(p, nil); got != p {
		t.Fatalf("primary alone must pass through unchanged")
	}
	if got := Results(nil, c); got != c {
		t.Fatalf("commits alone must pass through unchanged")
	}
	if got := Results(nil, nil); got != nil {
		t.Fatalf("nothing in, nothing out; got %+v", got)
	}
}

func TestResultsSharedRefCollapses(t *testing.T) {
	p := result("github-release", 0.8, wnf.NewCategory(wnf.CategoryFeatures, []wnf.ChangeItem{
		{Text: "Add OAuth support", Refs: []string{"#123"}},
	}))
	c := result("commit-history", 0.6, wnf.NewCategory(wnf.CategoryFeatures, []wnf.ChangeItem{
		{Text: "add oauth login flow", Refs: []string{"#123", "a1b2c3d"}},
	}))

	got := Results(p, c)
	if len(got.Categories) != 1 || len(got.Categories[0].Items) != 1 {
		t.Fatalf("expected one merged item, got %+v", got.Categories)
	}
	it := got.Categories[0].Items[0]
	if it.Text != "Add OAuth support" {
		t.Fatalf("primary text must survive verbatim, got %q", it.Text)
	}
	if len(it.Refs) != 2 || it.Refs[0] != "#123" || it.Refs[1] != "a1b2c3d" {
		t.Fatalf("refs = %v", it.Refs)
	}
}

func TestResultsNormalizedTextCollapses(t *testing.T) {
	p := result("github-release", 0.8, wnf.NewCategory(wnf.CategoryFixes, []wnf.ChangeItem{
		{Text: "Fix retry loop"},
	}))
	c := result("commit-history", 0.6, wnf.NewCategory(wnf.CategoryFixes, []wnf.ChangeItem{
		{Text: "fix retry loop", Refs: []string{"#88"}, Breaking: true},
	}))

	got := Results(p, c)
	if len(got.Categories) != 1 || len(got.Categories[0].Items) != 1 {
		t.Fatalf("expected one merged item, got %+v", got.Categories)
	}
	it := got.Categories[0].Items[0]
	if it.Text != "Fix retry loop" {
		t.Fatalf("text = %q", it.Text)
	}
	if len(it.Refs) != 1 || it.Refs[0] != "#88" {
		t.Fatalf("duplicate's refs must be absorbed, got %v", it.Refs)
	}
	if !it.Breaking {
		t.Fatalf("breaking flag must survive the collapse")
	}
}

func TestResultsDistinctItemsSurvive(t *testing.T) {
	p := result("github-release", 0.8, cat(wnf.CategoryFixes, "Fix retry loop"))
	c := result("commit-history", 0.6, cat(wnf.CategoryFixes, "Handle empty config file"))

	got := Results(p, c)
	items := got.Categories[0].Items
	if len(items) != 2 {
		t.Fatalf("expected both items, got %+v", items)
	}
	if items[0].Text != "Fix retry loop" || items[1].Text != "Handle empty config file" {
		t.Fatalf("primary items must come first: %+v", items)
	}
}

func TestResultsNoCrossCategoryDedup(t *testing.T) {
	p := result("github-release", 0.8, wnf.NewCategory(wnf.CategoryFeatures, []wnf.ChangeItem{
		{Text: "Add OAuth support", Refs: []string{"#123"}},
	}))
	c := result("commit-history", 0.6, wnf.NewCategory(wnf.CategoryFixes, []wnf.ChangeItem{
		{Text: "Fix OAuth redirect", Refs: []string{"#123"}},
	}))

	got := Results(p, c)
	if wnf.CountItems(got.Categories) != 2 {
		t.Fatalf("dedup is per category; got %+v", got.Categories)
	}
}

func TestResultsConfidenceMax(t *testing.T) {
	p := result("github-release", 0.7, cat(wnf.CategoryFixes, "Fix retry loop"))
	p.Breakdown = &wnf.ConfidenceBreakdown{Composite: 0.7}
	c := result("commit-history", 0.9, cat(wnf.CategoryFeatures, "Add OAuth support"))
	c.Breakdown = &wnf.ConfidenceBreakdown{Composite: 0.9}

	got := Results(p, c)
	if got.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want max side", got.Confidence)
	}
	if got.Breakdown == nil || got.Breakdown.Composite != 0.9 {
		t.Fatalf("breakdown must follow the winning side, got %+v", got.Breakdown)
	}
	if got.Source != "github-release" {
		t.Fatalf("source label stays primary, got %q", got.Source)
	}
}

func TestResultsPriorityOrderAndEmptyDrop(t *testing.T) {
	p := result("github-release", 0.8,
		cat(wnf.CategoryChore, "Update CI pipeline"),
		wnf.NewCategory(wnf.CategorySecurity, nil),
	)
	c := result("commit-history", 0.6,
		cat(wnf.CategoryFixes, "Fix retry loop"),
		cat(wnf.CategoryBreaking, "Remove legacy endpoints"),
	)

	got := Results(p, c)
	want := []wnf.CategoryID{wnf.CategoryBreaking, wnf.CategoryFixes, wnf.CategoryChore}
	if len(got.Categories) != len(want) {
		t.Fatalf("categories = %+v", got.Categories)
	}
	for i, id := range want {
		if got.Categories[i].ID != id {
			t.Fatalf("categories[%d] = %s, want %s", i, got.Categories[i].ID, id)
		}
	}
}

func TestResultsMetaFoldsCommitSide(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := result("github-release", 0.8, cat(wnf.CategoryFixes, "Fix retry loop"))
	p.Meta = wnf.SourceMeta{Tag: "v1.2.0", ReleaseURL: "https://example.com/releases/v1.2.0"}
	c := result("commit-history", 0.6, cat(wnf.CategoryFixes, "Handle empty config file"))
	c.Meta = wnf.SourceMeta{CompareURL: "https://example.com/compare/v1.1.0...v1.2.0", CommitCount: 14, Date: &date}

	got := Results(p, c)
	m := got.Meta
	if m.Tag != "v1.2.0" || m.ReleaseURL == "" {
		t.Fatalf("primary meta lost: %+v", m)
	}
	if m.CompareURL == "" || m.CommitCount != 14 || m.Date == nil {
		t.Fatalf("commit meta not folded in: %+v", m)
	}
}
