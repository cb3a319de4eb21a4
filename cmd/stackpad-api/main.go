// @title         Stackpad API
// @version       0.1.0
// @description   Multi-tenant SaaS backend: profiles, projects, billing

package main

import (
	"context"

	"stackpad/internal/platform/config"
	"stackpad/internal/platform/logger"
	phttp "stackpad/internal/platform/net/http"

	"stackpad/internal/services/api"
)

func main() {
	// all runtime keys live unprefixed in the environment (DATABASE_URL etc)
	cfg := config.New()

	// bring up logging early
	l := logger.Get()

	// http server (reads PORT)
	srv := phttp.NewServer(cfg)

	// mount our API; the service container builds lazily on first use
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         cfg,
			Logger:         l,
			EnableSwagger:  cfg.MayBool("SWAGGER", true),
			EnableProfiler: cfg.MayBool("PROFILER", false),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
