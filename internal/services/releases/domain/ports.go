package domain

import (
	"context"
	"time"

	"whatsnew/internal/core/wnf"
)

// AggregatePort is consumed by handlers and other modules
type AggregatePort interface {
	Packages(ctx context.Context, q Query) (*wnf.AggregatedDocument, error)
}

// ListerPort is the listing side of the data-source collaborator. An empty
// slice means the repository has no releases in the window; errors always
// mean transport failure
type ListerPort interface {
	ListReleases(ctx context.Context, owner, repo string, since, until *time.Time, limit int) ([]ReleaseInfo, error)
}
