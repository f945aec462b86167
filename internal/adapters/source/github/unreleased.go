package github

import (
	"context"
	"strings"

	"whatsnew/internal/core/synthesize"
	"whatsnew/internal/core/wnf"
	synthdom "whatsnew/internal/services/synth/domain"

	gh "github.com/google/go-github/v57/github"
)

// defaultMaxCommits bounds the history fetch when the caller does not
const defaultMaxCommits = 50

// FetchUnreleased synthesizes commit subjects landed since the latest
// release tag. Repositories without any release fall back to the most recent
// commits on the default branch. No commits is (nil, nil)
func (s *Source) FetchUnreleased(ctx context.Context, owner, repo string, opt synthdom.UnreleasedOpts) (*wnf.SourceResult, error) {
	limit := opt.MaxCommits
	if limit <= 0 {
		limit = defaultMaxCommits
	}

	tag, err := s.latestTag(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return s.recentCommits(ctx, owner, repo, limit)
	}
	return s.commitsSinceTag(ctx, owner, repo, tag, limit)
}

// latestTag returns the latest release tag, or "" when none exists
func (s *Source) latestTag(ctx context.Context, owner, repo string) (string, error) {
	var rel *gh.RepositoryRelease
	err := s.do(ctx, "get latest release", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		rel, resp, err = s.api.Repositories.GetLatestRelease(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", err
	}
	return rel.GetTagName(), nil
}

// commitsSinceTag compares tag against the default branch head
func (s *Source) commitsSinceTag(ctx context.Context, owner, repo, tag string, limit int) (*wnf.SourceResult, error) {
	branch, err := s.defaultBranch(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	var cmp *gh.CommitsComparison
	err = s.do(ctx, "compare commits", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		cmp, resp, err = s.api.Repositories.CompareCommits(ctx, owner, repo, tag, branch, &gh.ListOptions{PerPage: limit})
		return resp, err
	})
	if err != nil {
		if notFound(err) {
			// tag or branch gone: nothing to compare
			return nil, nil
		}
		return nil, err
	}

	res := synthesize.FromCommits(subjects(cmp.Commits, limit))
	if res == nil {
		return nil, nil
	}
	res.Meta.CompareURL = cmp.GetHTMLURL()
	res.Meta.CommitCount = cmp.GetTotalCommits()
	if res.Meta.CommitCount == 0 {
		res.Meta.CommitCount = len(cmp.Commits)
	}
	return res, nil
}

// recentCommits lists the newest commits on the default branch
func (s *Source) recentCommits(ctx context.Context, owner, repo string, limit int) (*wnf.SourceResult, error) {
	var commits []*gh.RepositoryCommit
	err := s.do(ctx, "list commits", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		commits, resp, err = s.api.Repositories.ListCommits(ctx, owner, repo, &gh.CommitsListOptions{
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		return resp, err
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}

	res := synthesize.FromCommits(subjects(commits, limit))
	if res == nil {
		return nil, nil
	}
	res.Meta.CommitCount = len(commits)
	return res, nil
}

// defaultBranch resolves the repository default branch, falling back to HEAD
func (s *Source) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var r *gh.Repository
	err := s.do(ctx, "get repository", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		r, resp, err = s.api.Repositories.Get(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return "", err
	}
	if b := r.GetDefaultBranch(); b != "" {
		return b, nil
	}
	return "HEAD", nil
}

// subjects keeps the first line of each commit message, skipping empties
func subjects(commits []*gh.RepositoryCommit, limit int) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		msg := c.GetCommit().GetMessage()
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		if msg = strings.TrimSpace(msg); msg == "" {
			continue
		}
		out = append(out, msg)
		if len(out) == limit {
			break
		}
	}
	return out
}
