// Package service aggregates a window of releases into per-package changes.
// Monorepo tags ("@scope/pkg@1.2.3") group by package; plain repos collapse
// into a single main package named after the repository
package service

import (
	"context"
	"time"

	"whatsnew/internal/core/monorepo"
	"whatsnew/internal/core/synthesize"
	"whatsnew/internal/core/wnf"
	perr "whatsnew/internal/platform/errors"
	"whatsnew/internal/platform/logger"
	"whatsnew/internal/services/releases/domain"

	"golang.org/x/sync/errgroup"
)

// defaultWorkers bounds concurrent per-release synthesis. Extraction is
// CPU-bound regex work over small bodies, so a small pool is plenty
const defaultWorkers = 4

// Service is the public service port
type Service interface{ domain.AggregatePort }

// Options control aggregation behavior
type Options struct {
	Workers int
}

// Svc implements the aggregation service
type Svc struct {
	lister  domain.ListerPort
	workers int
}

// New constructs the aggregation service
func New(lister domain.ListerPort, opt Options) *Svc {
	if lister == nil {
		panic("releases.Service requires a non nil ListerPort")
	}
	w := opt.Workers
	if w <= 0 {
		w = defaultWorkers
	}
	return &Svc{lister: lister, workers: w}
}

// Packages lists releases in the query window and aggregates their changes
// per package. Releases whose bodies carry no extractable items still appear
// in the release summaries with a zero item count
func (s *Svc) Packages(ctx context.Context, q domain.Query) (*wnf.AggregatedDocument, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	infos, err := s.lister.ListReleases(ctx, q.Owner, q.Repo, q.Since, q.Until, q.Bounded())
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, perr.NotFoundf("no releases found for %s", q.Slug())
	}

	rels := make([]monorepo.Release, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, info := range infos {
		i, info := i, info
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rels[i] = release(info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pkgs := monorepo.Aggregate(q.Repo, rels)

	now := time.Now().UTC()
	doc := &wnf.AggregatedDocument{
		Spec:         wnf.SpecVersion,
		Source:       wnf.Source{Platform: "github", Repo: q.Slug()},
		Packages:     pkgs,
		Releases:     monorepo.Summaries(rels),
		ReleaseCount: len(rels),
		GeneratedAt:  &now,
	}

	logger.C(ctx).Info().
		Str("repo", q.Slug()).
		Int("releases", doc.ReleaseCount).
		Int("packages", len(doc.Packages)).
		Msg("release window aggregated")
	return doc, nil
}

// release synthesizes one listed release. A body with nothing extractable
// yields empty categories and zero confidence, not an error
func release(info domain.ReleaseInfo) monorepo.Release {
	rel := monorepo.Release{
		Tag:  info.Tag,
		URL:  info.URL,
		Date: info.Date,
	}
	if res := synthesize.FromBody("github-release", info.Body, monorepo.Version(info.Tag)); res != nil {
		rel.Categories = res.Categories
		rel.Confidence = res.Confidence
	}
	return rel
}
