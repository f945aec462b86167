// @title         Whatsnew API
// @version       0.1.0
// @description   Changelog synthesis endpoints for GitHub releases

package main

import (
	"context"

	"whatsnew/internal/platform/config"
	"whatsnew/internal/platform/logger"
	phttp "whatsnew/internal/platform/net/http"

	"whatsnew/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	// modules read their own keys off the root config (CORE_SYNTH_*,
	// CORE_RELEASES_*, SOURCE_GITHUB_*, ENHANCE_LLM_*)
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
