package github

import (
	"context"
	"time"

	tim "whatsnew/internal/platform/time"
	releasesdom "whatsnew/internal/services/releases/domain"

	gh "github.com/google/go-github/v57/github"
)

// ListReleases returns published releases newest first, bounded by an
// optional publish-date window and a count limit. Drafts are skipped. A
// repository without releases yields an empty slice, not an error
func (s *Source) ListReleases(ctx context.Context, owner, repo string, since, until *time.Time, limit int) ([]releasesdom.ReleaseInfo, error) {
	if limit <= 0 {
		limit = releasesdom.DefaultLimit
	}

	out := make([]releasesdom.ReleaseInfo, 0, limit)
	lo := &gh.ListOptions{PerPage: min(limit, 100)}
	for {
		var page []*gh.RepositoryRelease
		var next int
		err := s.do(ctx, "list releases", func() (*gh.Response, error) {
			var resp *gh.Response
			var err error
			page, resp, err = s.api.Repositories.ListReleases(ctx, owner, repo, lo)
			if resp != nil {
				next = resp.NextPage
			}
			return resp, err
		})
		if err != nil {
			if notFound(err) {
				return nil, nil
			}
			return nil, err
		}

		for _, r := range page {
			if r.GetDraft() {
				continue
			}
			ts := r.GetPublishedAt().Time
			if until != nil && ts.After(*until) {
				continue
			}
			if since != nil && ts.Before(*since) {
				// newest-first listing: everything past here is older
				return out, nil
			}
			out = append(out, releaseInfo(r))
			if len(out) == limit {
				return out, nil
			}
		}

		if next == 0 {
			return out, nil
		}
		lo.Page = next
	}
}

func releaseInfo(r *gh.RepositoryRelease) releasesdom.ReleaseInfo {
	return releasesdom.ReleaseInfo{
		Tag:   r.GetTagName(),
		Title: r.GetName(),
		URL:   r.GetHTMLURL(),
		Body:  r.GetBody(),
		Date:  tim.Ptr(r.GetPublishedAt().Time),
	}
}
