// Package api provides the HTTP API for the application
package api

import (
	"whatsnew/internal/platform/config"
	"whatsnew/internal/platform/logger"
	phttp "whatsnew/internal/platform/net/http"

	"whatsnew/internal/modkit"
	"whatsnew/internal/modkit/httpkit"
	"whatsnew/internal/modkit/module"
	"whatsnew/internal/modkit/swaggerkit"

	changelogmod "whatsnew/internal/services/api/changelog/module"
	metamod "whatsnew/internal/services/api/meta/module"

	// Domain modules (routeless; they own the synthesis and aggregation ports)
	releasesmod "whatsnew/internal/services/releases/module"
	synthmod "whatsnew/internal/services/synth/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
	}

	// Construct the domain modules first and extract their ports
	synth := synthmod.New(deps)
	sp := module.MustPortsOf[synthmod.Ports](synth)

	releases := releasesmod.New(deps)
	rp := module.MustPortsOf[releasesmod.Ports](releases)

	// Inject those ports into the API modules
	changelog := changelogmod.New(
		deps,
		modkit.WithPorts(changelogmod.Ports{
			Synth:     sp.Synth,
			Aggregate: rp.Aggregate,
		}),
	)

	// Meta readiness pings the same GitHub client the pipeline fetches with
	meta := metamod.New(
		deps,
		modkit.WithPorts(metamod.Ports{
			GitHub: sp.Pinger,
		}),
	)

	mods := []module.Module{
		meta,
		synth,    // include domain modules so their ports are registered
		releases, // ditto
		changelog,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
