package categorize

import (
	"testing"

	"whatsnew/internal/core/extract"
	"whatsnew/internal/core/wnf"
)

func TestCategorizeTiers(t *testing.T) {
	cases := []struct {
		name string
		item extract.Item
		want wnf.CategoryID
		tier Tier
	}{
		{
			name: "explicit breaking beats conventional type",
			item: extract.Item{Text: "add shiny thing", ConvType: "feat", Breaking: true},
			want: wnf.CategoryBreaking,
			tier: TierExplicitBreaking,
		},
		{
			name: "conventional feat",
			item: extract.Item{Text: "add x", ConvType: "feat"},
			want: wnf.CategoryFeatures,
			tier: TierConventional,
		},
		{
			name: "conventional style maps to other",
			item: extract.Item{Text: "reformat imports", ConvType: "style"},
			want: wnf.CategoryOther,
			tier: TierConventional,
		},
		{
			name: "conventional ci maps to chore",
			item: extract.Item{Text: "parallelize pipeline", ConvType: "ci"},
			want: wnf.CategoryChore,
			tier: TierConventional,
		},
		{
			name: "unknown conventional type falls through to keywords",
			item: extract.Item{Text: "fix flaky retries", ConvType: "wip"},
			want: wnf.CategoryFixes,
			tier: TierKeyword,
		},
		{
			name: "keyword with plural stem",
			item: extract.Item{Text: "Fixes wrong duration on resumed steps"},
			want: wnf.CategoryFixes,
			tier: TierKeyword,
		},
		{
			name: "keyword breaking via remove",
			item: extract.Item{Text: "Remove legacy API endpoints"},
			want: wnf.CategoryBreaking,
			tier: TierKeyword,
		},
		{
			name: "keyword tie keeps higher priority category",
			item: extract.Item{Text: "quietly add fix"},
			want: wnf.CategoryFeatures,
			tier: TierKeyword,
		},
		{
			name: "hint fallback",
			item: extract.Item{Text: "updated copy on landing page", Hint: extract.Hint{Category: wnf.CategoryDocs}},
			want: wnf.CategoryDocs,
			tier: TierHint,
		},
		{
			name: "no signal lands in other",
			item: extract.Item{Text: "general polish pass"},
			want: wnf.CategoryOther,
			tier: TierNone,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cats, tiers := WithReasons([]extract.Item{tc.item})
			if len(cats) != 1 {
				t.Fatalf("categories = %+v", cats)
			}
			if cats[0].ID != tc.want {
				t.Fatalf("category = %s, want %s", cats[0].ID, tc.want)
			}
			if tiers[0] != tc.tier {
				t.Fatalf("tier = %s, want %s", tiers[0], tc.tier)
			}
		})
	}
}

func TestCategorizeOrderInvariance(t *testing.T) {
	items := []extract.Item{
		{Text: "handle nil pointer", ConvType: "fix"},
		{Text: "add dark mode", ConvType: "feat"},
		{Text: "drop v1 endpoints", Breaking: true},
	}
	reversed := []extract.Item{items[2], items[1], items[0]}

	want := []wnf.CategoryID{wnf.CategoryBreaking, wnf.CategoryFeatures, wnf.CategoryFixes}
	for _, in := range [][]extract.Item{items, reversed} {
		cats := Categorize(in)
		if len(cats) != len(want) {
			t.Fatalf("categories = %+v", cats)
		}
		for i, c := range cats {
			if c.ID != want[i] {
				t.Fatalf("cats[%d] = %s, want %s", i, c.ID, want[i])
			}
		}
	}
}

func TestCategorizeBreakingFlagPreserved(t *testing.T) {
	// keyword routing into breaking must set the flag on the output item
	cats := Categorize([]extract.Item{{Text: "Remove legacy API endpoints"}})
	if len(cats) != 1 || cats[0].ID != wnf.CategoryBreaking {
		t.Fatalf("categories = %+v", cats)
	}
	if !cats[0].Items[0].Breaking {
		t.Fatalf("breaking flag not set on keyword-routed item")
	}

	// explicit flag survives on the item regardless of category
	cats = Categorize([]extract.Item{{Text: "rework hashing seam", Breaking: true}})
	if !cats[0].Items[0].Breaking {
		t.Fatalf("explicit breaking flag lost")
	}
}

func TestCategorizeCopiesFields(t *testing.T) {
	items := []extract.Item{{
		Text:  "add retry budget",
		Refs:  []string{"#12"},
		Scope: "client",
		Score: 0.8,
	}}
	cats := Categorize(items)
	it := cats[0].Items[0]
	if it.Text != "add retry budget" || it.Scope != "client" {
		t.Fatalf("item = %+v", it)
	}
	if len(it.Refs) != 1 || it.Refs[0] != "#12" {
		t.Fatalf("refs = %v", it.Refs)
	}
	if it.Score == nil || *it.Score != 0.8 {
		t.Fatalf("score = %v", it.Score)
	}

	cats = Categorize([]extract.Item{{Text: "add retry budget"}})
	if cats[0].Items[0].Score != nil {
		t.Fatalf("zero score must stay unset")
	}
}

func TestCategorizeEmptyInput(t *testing.T) {
	cats, tiers := WithReasons(nil)
	if len(cats) != 0 || len(tiers) != 0 {
		t.Fatalf("cats=%v tiers=%v", cats, tiers)
	}
}
