// Package app owns the process-wide service container
// it is built lazily on the first request that needs it and memoized,
// including a memoized failure so a misconfigured process answers every
// request with the same Internal error instead of retrying the build
package app

import (
	"context"
	"strings"
	"sync"

	"stackpad/internal/adapters/payments/stripe"
	"stackpad/internal/platform/config"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/platform/logger"
	"stackpad/internal/platform/store"

	billdomain "stackpad/internal/services/billing/domain"
	billrepo "stackpad/internal/services/billing/repo"
	billsvc "stackpad/internal/services/billing/service"
	projrepo "stackpad/internal/services/projects/repo"
	projsvc "stackpad/internal/services/projects/service"
	setupsvc "stackpad/internal/services/setup/service"
	usersrepo "stackpad/internal/services/users/repo"
	userssvc "stackpad/internal/services/users/service"
)

// RequiredKeys must all be present before the container will build
var RequiredKeys = []string{
	"DATABASE_URL",
	"AUTH_JWT_SECRET",
	"STRIPE_SECRET_KEY",
	"STRIPE_WEBHOOK_SECRET",
	"PLATFORM_PROJECT_ID",
}

// Container bundles the database handle and one service per feature
type Container struct {
	DB *store.Store

	Users    *userssvc.Svc
	Projects *projsvc.Svc
	Billing  *billsvc.Svc
	Setup    *setupsvc.Svc

	// WebhookSecret verifies inbound payment events
	WebhookSecret string
}

// Lazy memoizes one container build per process
type Lazy struct {
	once  sync.Once
	build func(context.Context) (*Container, error)

	c   *Container
	err error
}

// NewLazy wraps a build function without running it
func NewLazy(build func(context.Context) (*Container, error)) *Lazy {
	return &Lazy{build: build}
}

// Get returns the memoized container, building it on first call
func (l *Lazy) Get(ctx context.Context) (*Container, error) {
	l.once.Do(func() {
		l.c, l.err = l.build(ctx)
	})
	return l.c, l.err
}

// paymentsAdapter narrows the REST client to the billing port
type paymentsAdapter struct {
	c *stripe.Client
}

func (a paymentsAdapter) CreateCustomer(ctx context.Context, email string) (string, error) {
	return a.c.CreateCustomer(ctx, email)
}

func (a paymentsAdapter) CreateCheckoutSession(ctx context.Context, p billdomain.CheckoutParams) (string, error) {
	return a.c.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		CustomerID:        p.CustomerID,
		PriceID:           p.PriceID,
		SuccessURL:        p.SuccessURL,
		CancelURL:         p.CancelURL,
		ClientReferenceID: p.ClientReferenceID,
	})
}

func (a paymentsAdapter) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	return a.c.CancelAtPeriodEnd(ctx, subscriptionID)
}

var _ billdomain.PaymentsPort = paymentsAdapter{}

// Build constructs the container from environment configuration
// leaf repositories bind first, then the setup service borrows the users
// and projects binders, keeping the dependency one-way
func Build(ctx context.Context, cfg config.Conf) (*Container, error) {
	if missing := cfg.Missing(RequiredKeys...); len(missing) > 0 {
		return nil, perr.Internalf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	log := logger.Named("app")

	st, err := store.Open(ctx, store.Config{
		AppName: "stackpad-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         cfg.MustString("DATABASE_URL"),
			MaxConns:    int32(cfg.MayInt("PG_MAX_CONNS", 8)),
			LogSQL:      cfg.MayBool("PG_LOG_SQL", false),
			SlowQueryMs: cfg.MayInt("PG_SLOW_QUERY_MS", 250),
		},
	}, store.WithLogger(*log))
	if err != nil {
		return nil, perr.Wrap(err, perr.CodeInternal, "store open failed")
	}

	payments := paymentsAdapter{c: stripe.New(stripe.Options{
		SecretKey: cfg.MustString("STRIPE_SECRET_KEY"),
		BaseURL:   cfg.MayString("STRIPE_API_URL", ""),
	})}

	usersBinder := usersrepo.NewPG()
	projectsBinder := projrepo.NewPG()

	c := &Container{
		DB:            st,
		Users:         userssvc.New(st.PG, usersBinder),
		Projects:      projsvc.New(st.PG, projectsBinder),
		Billing:       billsvc.New(st.PG, billrepo.NewPG(), payments),
		Setup:         setupsvc.New(st.PG, usersBinder, projectsBinder),
		WebhookSecret: cfg.MustString("STRIPE_WEBHOOK_SECRET"),
	}

	log.Info().Msg("service container built")
	return c, nil
}
