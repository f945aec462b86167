package github

import (
	"context"

	"whatsnew/internal/core/monorepo"
	"whatsnew/internal/core/synthesize"
	"whatsnew/internal/core/wnf"
	perr "whatsnew/internal/platform/errors"
	tim "whatsnew/internal/platform/time"

	gh "github.com/google/go-github/v57/github"
)

// changelogPaths are tried in order when no release exists
var changelogPaths = []string{"CHANGELOG.md", "CHANGELOG", "changelog.md"}

// FetchPrimary returns the release body for tag (latest when tag is empty)
// synthesized into a source result. Repositories that cut tags without
// release notes fall back to their changelog file. No usable data on either
// path is (nil, nil), never an error
func (s *Source) FetchPrimary(ctx context.Context, owner, repo, tag string) (*wnf.SourceResult, error) {
	res, err := s.releaseNotes(ctx, owner, repo, tag)
	if err != nil && !notFound(err) {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return s.changelogFile(ctx, owner, repo, tag)
}

// releaseNotes fetches one published release and synthesizes its body
func (s *Source) releaseNotes(ctx context.Context, owner, repo, tag string) (*wnf.SourceResult, error) {
	var rel *gh.RepositoryRelease
	err := s.do(ctx, "get release", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		if tag == "" {
			rel, resp, err = s.api.Repositories.GetLatestRelease(ctx, owner, repo)
		} else {
			rel, resp, err = s.api.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	res := synthesize.FromBody("github-release", rel.GetBody(), monorepo.Version(rel.GetTagName()))
	if res == nil {
		return nil, nil
	}
	res.Meta.Tag = rel.GetTagName()
	res.Meta.ReleaseURL = rel.GetHTMLURL()
	res.Meta.Date = tim.Ptr(rel.GetPublishedAt().Time)
	return res, nil
}

// changelogFile fetches the repository changelog via the contents API and
// synthesizes the block for tag (or the newest block when tag is empty)
func (s *Source) changelogFile(ctx context.Context, owner, repo, tag string) (*wnf.SourceResult, error) {
	for _, path := range changelogPaths {
		var fc *gh.RepositoryContent
		err := s.do(ctx, "get contents", func() (*gh.Response, error) {
			var resp *gh.Response
			var err error
			fc, _, resp, err = s.api.Repositories.GetContents(ctx, owner, repo, path, nil)
			return resp, err
		})
		if err != nil {
			if notFound(err) {
				continue
			}
			return nil, err
		}
		if fc == nil {
			// path resolved to a directory
			continue
		}

		body, err := fc.GetContent()
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "github decode %s failed", path)
		}
		res := synthesize.FromBody("changelog-file", body, monorepo.Version(tag))
		if res == nil {
			return nil, nil
		}
		res.Meta.Tag = tag
		res.Meta.ChangelogURL = fc.GetHTMLURL()
		return res, nil
	}
	return nil, nil
}
