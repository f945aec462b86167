// Package http provides http transport for changelog synthesis
package http

import (
	stdhttp "net/http"
	"time"

	"whatsnew/internal/modkit/httpkit"
	perr "whatsnew/internal/platform/errors"
	"whatsnew/internal/services/api/changelog/domain"
	releasesdom "whatsnew/internal/services/releases/domain"
	synthdom "whatsnew/internal/services/synth/domain"
)

// Ports are the injected service ports the handlers delegate to
type Ports struct {
	Synth     synthdom.SynthPort
	Aggregate releasesdom.AggregatePort
}

// Register mounts changelog endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{ports: p}

	// one release (or the latest) as a structured changelog
	httpkit.PostJSON[domain.ChangelogInput](r, "/", h.changelog)

	// release window aggregated per package
	httpkit.PostJSON[domain.PackagesInput](r, "/packages", h.packages)
}

type handlers struct{ ports Ports }

// swagger:route POST /changelog Changelog changelogSynthesize
// @Summary Synthesize a structured changelog for one release
// @Tags Changelog
// @Accept json
// @Produce json
// @Param payload body domain.ChangelogInput true "Release selector"
// @Success 200 {object} wnf.Document "ok"
// @Router /changelog [post]
func (h *handlers) changelog(r *stdhttp.Request, in domain.ChangelogInput) (any, error) {
	return h.ports.Synth.Changelog(r.Context(), synthdom.Query{
		Owner: in.Owner,
		Repo:  in.Repo,
		Tag:   in.Tag,
	})
}

// swagger:route POST /changelog/packages Changelog changelogPackages
// @Summary Aggregate a window of releases into per-package changes
// @Tags Changelog
// @Accept json
// @Produce json
// @Param payload body domain.PackagesInput true "Release window"
// @Success 200 {object} wnf.AggregatedDocument "ok"
// @Router /changelog/packages [post]
func (h *handlers) packages(r *stdhttp.Request, in domain.PackagesInput) (any, error) {
	since, err := day(in.Since, "since")
	if err != nil {
		return nil, err
	}
	until, err := day(in.Until, "until")
	if err != nil {
		return nil, err
	}
	if until != nil {
		// the until day counts in full
		u := until.Add(24*time.Hour - time.Nanosecond)
		until = &u
	}
	return h.ports.Aggregate.Packages(r.Context(), releasesdom.Query{
		Owner: in.Owner,
		Repo:  in.Repo,
		Since: since,
		Until: until,
		Limit: in.Limit,
	})
}

// day parses an ISO8601 day as a UTC instant; empty means unbounded
func day(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, perr.WithField(perr.Validationf("%s must be an ISO8601 day", field), field)
	}
	t = t.UTC()
	return &t, nil
}
