// Package wnf defines the structured changelog document ("what's new format")
// produced by the synthesis pipeline, plus helpers for assembling it.
// Everything here is pure data; services fill it in, transports serialize it
package wnf

import (
	"sort"
	"time"
)

// SpecVersion identifies the document wire format
const SpecVersion = "wnf/1"

// CategoryID is the closed set of category identifiers.
// Consumers can rely on this set being stable; new ids are additive only
type CategoryID string

const (
	// CategoryBreaking holds incompatible changes that require caller action
	CategoryBreaking CategoryID = "breaking"
	// CategorySecurity holds vulnerability fixes and hardening
	CategorySecurity CategoryID = "security"
	// CategoryFeatures holds new functionality
	CategoryFeatures CategoryID = "features"
	// CategoryFixes holds bug fixes
	CategoryFixes CategoryID = "fixes"
	// CategoryPerf holds performance improvements
	CategoryPerf CategoryID = "perf"
	// CategoryDeps holds dependency updates
	CategoryDeps CategoryID = "deps"
	// CategoryRefactor holds internal restructuring
	CategoryRefactor CategoryID = "refactor"
	// CategoryChore holds build, CI and maintenance work
	CategoryChore CategoryID = "chore"
	// CategoryDocs holds documentation changes
	CategoryDocs CategoryID = "docs"
	// CategoryOther holds everything that fits nowhere else
	CategoryOther CategoryID = "other"
)

// CategoryOrder is the fixed presentation priority, most important first
var CategoryOrder = []CategoryID{
	CategoryBreaking,
	CategorySecurity,
	CategoryFeatures,
	CategoryFixes,
	CategoryPerf,
	CategoryDeps,
	CategoryRefactor,
	CategoryChore,
	CategoryDocs,
	CategoryOther,
}

var categoryRank = func() map[CategoryID]int {
	m := make(map[CategoryID]int, len(CategoryOrder))
	for i, id := range CategoryOrder {
		m[id] = i
	}
	return m
}()

var categoryTitles = map[CategoryID]string{
	CategoryBreaking: "Breaking Changes",
	CategorySecurity: "Security",
	CategoryFeatures: "New Features",
	CategoryFixes:    "Bug Fixes",
	CategoryPerf:     "Performance",
	CategoryDeps:     "Dependencies",
	CategoryRefactor: "Refactoring",
	CategoryChore:    "Maintenance",
	CategoryDocs:     "Documentation",
	CategoryOther:    "Other Changes",
}

// Valid reports whether id is one of the closed set
func (id CategoryID) Valid() bool {
	_, ok := categoryRank[id]
	return ok
}

// Rank returns the priority index for id (lower sorts first); unknown ids sort last
func Rank(id CategoryID) int {
	if r, ok := categoryRank[id]; ok {
		return r
	}
	return len(CategoryOrder)
}

// TitleFor returns the human heading for a category id
func TitleFor(id CategoryID) string {
	if t, ok := categoryTitles[id]; ok {
		return t
	}
	return categoryTitles[CategoryOther]
}

// ChangeItem is one displayed change line. Text is already clean: references
// and the conventional scope prefix live in Refs/Scope, never re-embedded
type ChangeItem struct {
	Text     string   `json:"text"`
	Refs     []string `json:"refs,omitempty"`
	Scope    string   `json:"scope,omitempty"`
	Breaking bool     `json:"breaking,omitempty"`
	Score    *float64 `json:"score,omitempty"`
}

// Category groups change items under one category id
type Category struct {
	ID    CategoryID   `json:"id"`
	Title string       `json:"title"`
	Items []ChangeItem `json:"items"`
}

// NewCategory builds a category with its canonical title
func NewCategory(id CategoryID, items []ChangeItem) Category {
	return Category{ID: id, Title: TitleFor(id), Items: items}
}

// SortCategories orders cats by the fixed priority in place and returns cats
func SortCategories(cats []Category) []Category {
	sort.SliceStable(cats, func(i, j int) bool {
		return Rank(cats[i].ID) < Rank(cats[j].ID)
	})
	return cats
}

// DropEmpty removes categories with no items, preserving order
func DropEmpty(cats []Category) []Category {
	out := cats[:0]
	for _, c := range cats {
		if len(c.Items) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// CountItems sums the items across all categories
func CountItems(cats []Category) int {
	n := 0
	for _, c := range cats {
		n += len(c.Items)
	}
	return n
}

// ConfidenceBreakdown explains how a confidence score was computed
type ConfidenceBreakdown struct {
	Composite  float64 `json:"composite"`
	Structural float64 `json:"structural"`
	Quality    float64 `json:"quality"`
	TerseRatio float64 `json:"terseRatio"`
	ItemCount  int     `json:"itemCount"`
}

// SourceMeta carries per-source provenance. RawContent is the body that items
// were extracted from; it stays internal and never reaches the wire
type SourceMeta struct {
	Tag          string
	Version      string
	ReleaseURL   string
	CompareURL   string
	ChangelogURL string
	Date         *time.Time
	CommitCount  int
	RawContent   string
}

// SourceResult is what one data source yields after extraction,
// categorization and scoring. A source with nothing to say returns nil
// instead of an empty result
type SourceResult struct {
	Source     string
	Categories []Category
	Confidence float64
	Breakdown  *ConfidenceBreakdown
	Meta       SourceMeta
}

// NoteType is the closed set of note kinds
type NoteType string

const (
	// NoteUpgrade flags a release that likely needs caller attention to adopt
	NoteUpgrade NoteType = "upgrade"
	// NoteMigration flags changes that require migration steps
	NoteMigration NoteType = "migration"
	// NoteDeprecation flags functionality on the way out
	NoteDeprecation NoteType = "deprecation"
	// NoteInfo is a general remark
	NoteInfo NoteType = "info"
)

// Note carries upgrade/migration/deprecation guidance alongside the categories
type Note struct {
	Type NoteType `json:"type"`
	Text string   `json:"text"`
}

// Links holds the canonical URLs related to a release
type Links struct {
	Release   string `json:"release,omitempty"`
	Compare   string `json:"compare,omitempty"`
	Changelog string `json:"changelog,omitempty"`
}

// Source identifies the repository a document describes
type Source struct {
	Platform string `json:"platform"`
	Repo     string `json:"repo"`
	Tag      string `json:"tag,omitempty"`
}

// Document is the versioned output of the synthesis pipeline
type Document struct {
	Spec          string               `json:"spec"`
	Source        Source               `json:"source"`
	Version       string               `json:"version,omitempty"`
	ReleasedAt    *time.Time           `json:"releasedAt,omitempty"`
	Summary       string               `json:"summary"`
	Categories    []Category           `json:"categories"`
	Notes         []Note               `json:"notes,omitempty"`
	Links         Links                `json:"links"`
	Confidence    float64              `json:"confidence"`
	Breakdown     *ConfidenceBreakdown `json:"confidenceBreakdown,omitempty"`
	GeneratedFrom []string             `json:"generatedFrom"`
	GeneratedAt   *time.Time           `json:"generatedAt,omitempty"`
}

// ReleaseSummary is one release row inside an aggregated report
type ReleaseSummary struct {
	Tag        string     `json:"tag"`
	Version    string     `json:"version,omitempty"`
	URL        string     `json:"url,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	ItemCount  int        `json:"itemCount"`
	Confidence float64    `json:"confidence"`
}

// PackageChanges groups one package's merged changes across releases.
// Monorepos publish tags like "@scope/pkg@1.2.3"; plain repos collapse into a
// single main package named after the repository
type PackageChanges struct {
	Name          string           `json:"name"`
	IsMain        bool             `json:"isMain"`
	Categories    []Category       `json:"categories"`
	Releases      []ReleaseSummary `json:"releases"`
	ReleaseCount  int              `json:"releaseCount"`
	LatestVersion string           `json:"latestVersion,omitempty"`
	Confidence    float64          `json:"confidence"`
}

// AggregatedDocument is the multi-release, per-package report
type AggregatedDocument struct {
	Spec         string           `json:"spec"`
	Source       Source           `json:"source"`
	Packages     []PackageChanges `json:"packages"`
	Releases     []ReleaseSummary `json:"releases"`
	ReleaseCount int              `json:"releaseCount"`
	GeneratedAt  *time.Time       `json:"generatedAt,omitempty"`
}
