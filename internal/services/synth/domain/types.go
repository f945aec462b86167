// Package domain defines the types and ports for the changelog synthesis
// pipeline
package domain

import (
	"regexp"

	"whatsnew/internal/core/wnf"
	perr "whatsnew/internal/platform/errors"
)

// GitHub naming rules: owners are alphanumeric with inner hyphens, repos
// additionally allow dots and underscores
var (
	ownerRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	repoRe  = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// Query names one release to synthesize. Tag empty means the latest release
type Query struct {
	Owner string
	Repo  string
	Tag   string
}

// Validate rejects malformed identifiers before any I/O happens
func (q Query) Validate() error {
	if !ownerRe.MatchString(q.Owner) {
		return perr.WithField(perr.Validationf("invalid owner %q", q.Owner), "owner")
	}
	if !repoRe.MatchString(q.Repo) {
		return perr.WithField(perr.Validationf("invalid repo %q", q.Repo), "repo")
	}
	return nil
}

// Slug returns the owner/repo form used in logs and error messages
func (q Query) Slug() string { return q.Owner + "/" + q.Repo }

// Ref is the slug with the tag appended when one was requested
func (q Query) Ref() string {
	if q.Tag == "" {
		return q.Slug()
	}
	return q.Slug() + "@" + q.Tag
}

// UnreleasedOpts bounds the commit-history fetch
type UnreleasedOpts struct {
	MaxCommits int
}

// Context is the pipeline state threaded through one synthesis run.
// Each stage fills its slot and never mutates earlier ones
type Context struct {
	Owner string
	Repo  string
	Tag   string
	RunID string

	Primary *wnf.SourceResult
	Commits *wnf.SourceResult
	Final   *wnf.SourceResult

	SourcesUsed []string
	AIEnhanced  bool
}
