// Package api wires the HTTP surface: middleware stack, auth gates,
// docs, and the versioned feature routes
package api

import (
	stdctx "context"
	"net/http"
	"time"

	"stackpad/internal/app"
	"stackpad/internal/identity"
	"stackpad/internal/platform/config"
	"stackpad/internal/platform/logger"
	phttp "stackpad/internal/platform/net/http"
	"stackpad/internal/platform/net/middleware"
	"stackpad/internal/platform/version"

	"stackpad/internal/modkit/httpkit"
	"stackpad/internal/modkit/swaggerkit"

	billinghttp "stackpad/internal/services/billing/http"
	billingsvc "stackpad/internal/services/billing/service"
	projectshttp "stackpad/internal/services/projects/http"
	projectssvc "stackpad/internal/services/projects/service"
	setuphttp "stackpad/internal/services/setup/http"
	setupsvc "stackpad/internal/services/setup/service"
	usershttp "stackpad/internal/services/users/http"
	userssvc "stackpad/internal/services/users/service"
)

// WebhookPath is where the payment provider posts events
// it bypasses both auth gates and relies on signature verification instead
const WebhookPath = "/api/v1/stripe/webhook"

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
//
// the service container is built lazily on the first request that needs it,
// so the process comes up (and serves /health) even before its backing
// services are reachable
func Mount(r phttp.Router, opt Options) {
	cfg := opt.Config
	lazy := app.NewLazy(func(ctx stdctx.Context) (*app.Container, error) {
		return app.Build(ctx, cfg)
	})

	// unversioned surfaces: heartbeat, docs, profiler
	httpkit.Get(r, "/health", health)
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	gate := buildGate(cfg, opt.Logger)

	// versioned API behind the common stack plus the auth chain
	// the throttle sits ahead of the gates so token work is also shed under load
	stack := append(httpkit.CommonStack(),
		middleware.ThrottleBacklog(
			cfg.MayInt("THROTTLE_LIMIT", 100),
			cfg.MayInt("THROTTLE_BACKLOG", 50),
			cfg.MayDuration("THROTTLE_BACKLOG_TTL", time.Second),
		),
		gate.Middleware,
	)
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		usershttp.Register(api, usershttp.Deps{
			Resolve: func(ctx stdctx.Context) (*userssvc.Svc, error) {
				c, err := lazy.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.Users, nil
			},
		})
		projectshttp.Register(api, projectshttp.Deps{
			Resolve: func(ctx stdctx.Context) (*projectssvc.Svc, error) {
				c, err := lazy.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.Projects, nil
			},
		})
		billinghttp.Register(api, billinghttp.Deps{
			Resolve: func(ctx stdctx.Context) (*billingsvc.Svc, error) {
				c, err := lazy.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.Billing, nil
			},
			WebhookSecret: func(ctx stdctx.Context) (string, error) {
				c, err := lazy.Get(ctx)
				if err != nil {
					return "", err
				}
				return c.WebhookSecret, nil
			},
		})
		setuphttp.Register(api, setuphttp.Deps{
			Resolve: func(ctx stdctx.Context) (*setupsvc.Svc, error) {
				c, err := lazy.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.Setup, nil
			},
		})
	})
}

// buildGate assembles the auth chain from environment configuration
//
// a missing user secret leaves Gate.User nil, which the middleware reports
// as a server fault rather than letting unauthenticated traffic through
func buildGate(cfg config.Conf, log *logger.Logger) identity.Gate {
	g := identity.Gate{Policy: identity.Policy{WebhookPath: WebhookPath}}

	if secret := cfg.MayString("AUTH_JWT_SECRET", ""); secret != "" {
		uv, err := identity.NewUserVerifier(secret)
		if err != nil {
			log.Panic().Err(err).Msg("user verifier init failed")
		}
		g.User = uv
	} else {
		log.Warn().Msg("AUTH_JWT_SECRET not set, authenticated routes will fail")
	}

	if identity.ManagedRuntime() || cfg.MayBool("PLATFORM_GATE", false) {
		pv, err := identity.NewPlatformVerifier(identity.PlatformConfig{
			JWKSURL:  cfg.MayString("PLATFORM_JWKS_URL", ""),
			Audience: cfg.MayString("PLATFORM_AUDIENCE", ""),
		})
		if err != nil {
			log.Panic().Err(err).Msg("platform verifier init failed")
		}
		g.Platform = pv
	}
	return g
}

// HealthResponse is the heartbeat payload
// swagger:model
type HealthResponse struct {
	OK    bool              `json:"ok" example:"true"`
	Build version.BuildInfo `json:"build"`
	Now   string            `json:"now" example:"2026-01-01T00:00:00Z"`
}

// @Summary Service heartbeat and build info
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func health(r *http.Request) (any, error) {
	return HealthResponse{
		OK:    true,
		Build: version.Info(),
		Now:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}
