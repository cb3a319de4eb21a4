// Package http exposes the billing routes and the payment webhook
package http

import (
	stdctx "context"
	"net/http"

	"stackpad/internal/identity"
	"stackpad/internal/modkit/httpkit"
	"stackpad/internal/services/billing/domain"
	"stackpad/internal/services/billing/service"
)

// Deps are the handler dependencies
type Deps struct {
	Resolve func(stdctx.Context) (*service.Svc, error)

	// WebhookSecret resolves the signing secret lazily alongside the container
	WebhookSecret func(stdctx.Context) (string, error)
}

type handlers struct {
	deps Deps
}

// Register mounts the billing routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSON(r, "/billing/checkout", h.checkout)
	httpkit.Get(r, "/billing/subscription", h.subscription)
	httpkit.Delete(r, "/billing/subscription", h.cancel)
	httpkit.Get(r, "/billing/history", h.history)

	r.Post("/stripe/webhook", h.webhook())
}

func (h *handlers) svcAndUser(r *http.Request) (*service.Svc, string, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, "", err
	}
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, "", err
	}
	return svc, uid, nil
}

// CheckoutRequest opens a hosted checkout session
// swagger:model
type CheckoutRequest struct {
	PriceID    string `json:"priceId"    validate:"required"    example:"price_1N4pro"`
	SuccessURL string `json:"successUrl" validate:"required,url" example:"https://app.example.com/billing/success"`
	CancelURL  string `json:"cancelUrl"  validate:"required,url" example:"https://app.example.com/billing"`
}

// @Summary Open a hosted checkout session
// @Tags Billing
// @Accept json
// @Produce json
// @Param body body CheckoutRequest true "checkout parameters"
// @Success 200 {object} service.CheckoutView
// @Router /billing/checkout [post]
func (h *handlers) checkout(r *http.Request, in CheckoutRequest) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	var email string
	if c := identity.ClaimsFrom(r.Context()); c != nil {
		email = c.Email
	}
	return svc.Checkout(r.Context(), uid, email, domain.CheckoutInput{
		PriceID:    in.PriceID,
		SuccessURL: in.SuccessURL,
		CancelURL:  in.CancelURL,
	})
}

// @Summary Get the caller's subscription
// @Tags Billing
// @Produce json
// @Success 200 {object} domain.SubscriptionView
// @Failure 404 {object} httpkit.Envelope
// @Router /billing/subscription [get]
func (h *handlers) subscription(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.Subscription(r.Context(), uid)
}

// @Summary Cancel the caller's subscription at period end
// @Tags Billing
// @Produce json
// @Success 200 {object} domain.SubscriptionView
// @Failure 404 {object} httpkit.Envelope
// @Router /billing/subscription [delete]
func (h *handlers) cancel(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.Cancel(r.Context(), uid)
}

// @Summary List the caller's paid invoices, newest first
// @Tags Billing
// @Produce json
// @Success 200 {array} domain.HistoryView
// @Router /billing/history [get]
func (h *handlers) history(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.History(r.Context(), uid)
}
