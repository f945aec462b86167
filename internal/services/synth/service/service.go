// Package service contains the changelog synthesis pipeline: concurrent
// source fetches, merge, the quality-gated AI fallback, the item noise gate
// and final document assembly
package service

import (
	"context"
	"sync"
	"time"

	"whatsnew/internal/core/extract"
	"whatsnew/internal/core/itemfilter"
	"whatsnew/internal/core/merge"
	"whatsnew/internal/core/score"
	"whatsnew/internal/core/wnf"
	perr "whatsnew/internal/platform/errors"
	"whatsnew/internal/platform/logger"
	"whatsnew/internal/services/synth/domain"

	"github.com/google/uuid"
)

// Service is the public service port
type Service interface{ domain.SynthPort }

// Options control pipeline behavior
type Options struct {
	// AIEnhance enables the quality-gated LLM fallback. It is inert
	// without an Enhancer
	AIEnhance   bool
	AIThreshold float64
	MinRawLen   int

	// MinItemScore drops surviving items scoring below it; zero keeps
	// everything the validator passes
	MinItemScore float64

	// MaxCommits bounds the unreleased history fetch
	MaxCommits int

	// Enhancer is optional
	Enhancer domain.EnhancerPort
}

// Svc implements the synthesis pipeline
type Svc struct {
	source   domain.SourcePort
	enhancer domain.EnhancerPort
	assessor score.Assessor
	opts     Options
}

// New constructs the pipeline service
func New(source domain.SourcePort, opt Options) *Svc {
	if source == nil {
		panic("synth.Service requires a non nil SourcePort")
	}
	return &Svc{
		source:   source,
		enhancer: opt.Enhancer,
		assessor: score.Assessor{Threshold: opt.AIThreshold, MinRawLen: opt.MinRawLen},
		opts:     opt,
	}
}

// Changelog synthesizes one release into a document. The two fetches run
// concurrently; one failing side degrades to absence when the other has
// data, and the only caller-visible failure modes are invalid identifiers,
// both sides failing hard, and total absence of data
func (s *Svc) Changelog(ctx context.Context, q domain.Query) (*wnf.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	pc := domain.Context{Owner: q.Owner, Repo: q.Repo, Tag: q.Tag, RunID: uuid.NewString()}
	ctx = logger.WithRun(ctx, pc.RunID)
	log := logger.C(ctx)

	var wg sync.WaitGroup
	var primary, commits *wnf.SourceResult
	var primaryErr, commitsErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		primary, primaryErr = s.source.FetchPrimary(ctx, q.Owner, q.Repo, q.Tag)
	}()
	go func() {
		defer wg.Done()
		commits, commitsErr = s.source.FetchUnreleased(ctx, q.Owner, q.Repo, domain.UnreleasedOpts{MaxCommits: s.opts.MaxCommits})
	}()
	wg.Wait()

	switch {
	case primaryErr != nil && commitsErr != nil:
		return nil, perr.Wrapf(primaryErr, perr.CodeOf(primaryErr), "both sources failed for %s", q.Ref())
	case primaryErr != nil && commits == nil:
		return nil, primaryErr
	case commitsErr != nil && primary == nil:
		return nil, commitsErr
	}
	if primaryErr != nil {
		log.Warn().Err(primaryErr).Str("repo", q.Slug()).Msg("primary source failed, continuing with commit history")
		primary = nil
	}
	if commitsErr != nil {
		log.Warn().Err(commitsErr).Str("repo", q.Slug()).Msg("commit history failed, continuing with primary")
		commits = nil
	}

	pc.Primary, pc.Commits = primary, commits
	if primary != nil {
		pc.SourcesUsed = append(pc.SourcesUsed, primary.Source)
	}
	if commits != nil {
		pc.SourcesUsed = append(pc.SourcesUsed, commits.Source)
	}

	merged := merge.Results(primary, commits)
	if merged == nil {
		return nil, perr.NotFoundf("no release data available for %s", q.Ref())
	}

	var aiNotes []wnf.Note
	if s.opts.AIEnhance && s.enhancer != nil {
		aiNotes = s.enhance(ctx, &pc, merged)
	}

	merged.Categories = s.filterItems(merged.Categories)
	pc.Final = merged

	doc := assemble(q, pc, merged, aiNotes)
	log.Info().
		Str("repo", q.Slug()).
		Str("tag", q.Tag).
		Strs("sources", pc.SourcesUsed).
		Bool("ai_enhanced", pc.AIEnhanced).
		Float64("confidence", doc.Confidence).
		Int("items", wnf.CountItems(doc.Categories)).
		Msg("changelog synthesized")
	return doc, nil
}

// enhance runs the quality-gated AI fallback in place. Failure never
// escapes: the deterministic result ships regardless. Returned notes are the
// model's, already type-validated by the adapter
func (s *Svc) enhance(ctx context.Context, pc *domain.Context, merged *wnf.SourceResult) []wnf.Note {
	log := logger.C(ctx)

	raw := merged.Meta.RawContent
	structural := 0.0
	if merged.Breakdown != nil {
		structural = merged.Breakdown.Structural
	}
	verdict := s.assessor.Assess(merged.Categories, structural, len(raw))
	if !verdict.ShouldFallbackToAI {
		return nil
	}
	log.Info().
		Float64("score", verdict.Score).
		Strs("reasons", verdict.Reasons).
		Msg("deterministic quality low, asking enhancer")

	anchors := extract.Anchors(raw)
	enh, err := s.enhancer.Enhance(ctx, domain.EnhanceInput{Raw: raw, Anchors: anchors, Hint: merged})
	if err != nil {
		log.Warn().Err(err).Msg("enhancer failed, keeping deterministic result")
		return nil
	}

	cats := filterAnchors(enh.Categories, anchors)
	if wnf.CountItems(cats) == 0 {
		log.Warn().Msg("enhancer returned nothing usable, keeping deterministic result")
		return nil
	}

	merged.Categories = cats
	if merged.Meta.Version == "" {
		merged.Meta.Version = enh.Version
	}
	pc.AIEnhanced = true
	pc.SourcesUsed = append(pc.SourcesUsed, "ai-enhanced")
	return enh.Notes
}

// filterAnchors drops hallucinated references: any ref the model returned
// that does not occur in the raw text is removed. Items themselves survive
func filterAnchors(cats []wnf.Category, anchors []string) []wnf.Category {
	ok := make(map[string]struct{}, len(anchors))
	for _, a := range anchors {
		ok[a] = struct{}{}
	}
	for ci := range cats {
		items := cats[ci].Items
		for ii := range items {
			kept := items[ii].Refs[:0]
			for _, r := range items[ii].Refs {
				if _, hit := ok[r]; hit {
					kept = append(kept, r)
				}
			}
			if len(kept) == 0 {
				items[ii].Refs = nil
				continue
			}
			items[ii].Refs = kept
		}
	}
	return cats
}

// filterItems applies the noise gate and the optional score floor, dropping
// categories that end up empty
func (s *Svc) filterItems(cats []wnf.Category) []wnf.Category {
	out := cats[:0]
	for _, c := range cats {
		items := c.Items[:0]
		for _, it := range c.Items {
			v := itemfilter.ValidateItem(it)
			if !v.Valid {
				continue
			}
			if it.Score == nil {
				sc := v.Score
				it.Score = &sc
			}
			if s.opts.MinItemScore > 0 && *it.Score < s.opts.MinItemScore {
				continue
			}
			items = append(items, it)
		}
		if len(items) == 0 {
			continue
		}
		c.Items = items
		out = append(out, c)
	}
	return out
}

// assemble builds the terminal document from the final merged result
func assemble(q domain.Query, pc domain.Context, res *wnf.SourceResult, aiNotes []wnf.Note) *wnf.Document {
	tag := res.Meta.Tag
	if tag == "" {
		tag = q.Tag
	}
	cats := res.Categories
	if cats == nil {
		cats = []wnf.Category{}
	}

	now := time.Now().UTC()
	return &wnf.Document{
		Spec:       wnf.SpecVersion,
		Source:     wnf.Source{Platform: "github", Repo: q.Slug(), Tag: tag},
		Version:    res.Meta.Version,
		ReleasedAt: res.Meta.Date,
		Summary:    wnf.Summarize(cats),
		Categories: cats,
		Notes:      append(wnf.DeriveNotes(cats, res.Meta.Version), aiNotes...),
		Links: wnf.Links{
			Release:   res.Meta.ReleaseURL,
			Compare:   res.Meta.CompareURL,
			Changelog: res.Meta.ChangelogURL,
		},
		Confidence:    res.Confidence,
		Breakdown:     res.Breakdown,
		GeneratedFrom: pc.SourcesUsed,
		GeneratedAt:   &now,
	}
}
