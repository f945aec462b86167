// Package domain defines the types and ports for multi-release aggregation
package domain

import (
	"time"

	perr "whatsnew/internal/platform/errors"
	synthdom "whatsnew/internal/services/synth/domain"
)

// DefaultLimit bounds a window query when the caller does not set one
const DefaultLimit = 20

// MaxLimit is the hard ceiling on releases per aggregation
const MaxLimit = 100

// Query selects the releases to aggregate. Since/Until bound the publish
// date window; nil means unbounded on that side
type Query struct {
	Owner string
	Repo  string
	Since *time.Time
	Until *time.Time
	Limit int
}

// Validate rejects malformed identifiers and nonsense windows before I/O
func (q Query) Validate() error {
	if err := (synthdom.Query{Owner: q.Owner, Repo: q.Repo}).Validate(); err != nil {
		return err
	}
	if q.Since != nil && q.Until != nil && q.Since.After(*q.Until) {
		return perr.WithField(perr.Validationf("since must not be after until"), "since")
	}
	return nil
}

// Slug returns the owner/repo form used in logs and error messages
func (q Query) Slug() string { return q.Owner + "/" + q.Repo }

// Bounded returns the effective limit, clamped into [1, MaxLimit]
func (q Query) Bounded() int {
	switch {
	case q.Limit <= 0:
		return DefaultLimit
	case q.Limit > MaxLimit:
		return MaxLimit
	default:
		return q.Limit
	}
}

// ReleaseInfo is one published release as the listing API reports it,
// before any synthesis
type ReleaseInfo struct {
	Tag   string
	Title string
	URL   string
	Date  *time.Time
	Body  string
}
