package http

import (
	stdctx "context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"stackpad/internal/adapters/payments/stripe"
	"stackpad/internal/modkit/httpkit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/platform/logger"
	"stackpad/internal/services/billing/domain"
)

const maxWebhookBody = 1 << 20

// checkoutSession is the slice of the provider object the handler needs
type checkoutSession struct {
	ClientReferenceID string `json:"client_reference_id"`
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
}

type subscriptionObject struct {
	ID string `json:"id"`
}

type invoiceObject struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	AmountPaid        int64  `json:"amount_paid"`
	Currency          string `json:"currency"`
	StatusTransitions struct {
		PaidAt int64 `json:"paid_at"`
	} `json:"status_transitions"`
}

// webhook verifies the provider signature over the raw body, then mirrors
// the event into our store; the signature check happens before anything else
//
// @Summary Payment provider webhook
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "t=...,v1=... signature"
// @Success 200 {object} httpkit.Envelope
// @Failure 400 {object} httpkit.Envelope
// @Router /stripe/webhook [post]
func (h *handlers) webhook() httpkit.Handler {
	return httpkit.Handle(func(r *http.Request) httpkit.Response {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			return httpkit.Error(perr.InvalidRequestf("unreadable body"))
		}

		secret, err := h.deps.WebhookSecret(r.Context())
		if err != nil {
			return httpkit.Error(err)
		}

		ev, err := stripe.ConstructEvent(payload, r.Header.Get(stripe.SignatureHeader), secret)
		if err != nil {
			return httpkit.Error(err)
		}

		svc, err := h.deps.Resolve(r.Context())
		if err != nil {
			return httpkit.Error(err)
		}

		if err := dispatchEvent(r, svc, ev); err != nil {
			return httpkit.Error(err)
		}
		return httpkit.OK(map[string]any{"received": true})
	})
}

// webhookService is the slice of the billing service the dispatcher uses
type webhookService interface {
	ActivateSubscription(ctx stdctx.Context, in domain.ActivationInput) error
	MarkSubscriptionCanceled(ctx stdctx.Context, providerSubscriptionID string) error
	RecordPayment(ctx stdctx.Context, in domain.PaymentInput) error
}

func dispatchEvent(r *http.Request, svc webhookService, ev stripe.Event) error {
	ctx := r.Context()
	log := logger.C(ctx)

	switch ev.Type {
	case "checkout.session.completed":
		var cs checkoutSession
		if err := json.Unmarshal(ev.Data.Object, &cs); err != nil {
			return perr.Wrap(err, perr.CodeInvalidRequest, "malformed checkout session")
		}
		if cs.ClientReferenceID == "" || cs.Subscription == "" {
			return perr.InvalidRequestf("checkout session missing references")
		}
		return svc.ActivateSubscription(ctx, domain.ActivationInput{
			UserID:                 cs.ClientReferenceID,
			ProviderCustomerID:     cs.Customer,
			ProviderSubscriptionID: cs.Subscription,
		})

	case "customer.subscription.deleted":
		var sub subscriptionObject
		if err := json.Unmarshal(ev.Data.Object, &sub); err != nil {
			return perr.Wrap(err, perr.CodeInvalidRequest, "malformed subscription object")
		}
		if err := svc.MarkSubscriptionCanceled(ctx, sub.ID); perr.IsCode(err, perr.CodeNotFound) {
			// the provider can replay deletions for rows we never tracked
			log.Warn().Str("subscription", sub.ID).Msg("cancel event for unknown subscription")
			return nil
		} else if err != nil {
			return err
		}
		return nil

	case "invoice.paid", "invoice.payment_succeeded":
		var inv invoiceObject
		if err := json.Unmarshal(ev.Data.Object, &inv); err != nil {
			return perr.Wrap(err, perr.CodeInvalidRequest, "malformed invoice object")
		}
		paidAt := time.Unix(inv.StatusTransitions.PaidAt, 0).UTC()
		if inv.StatusTransitions.PaidAt == 0 {
			paidAt = time.Now().UTC()
		}
		if err := svc.RecordPayment(ctx, domain.PaymentInput{
			ProviderCustomerID: inv.Customer,
			ProviderInvoiceID:  inv.ID,
			AmountMinor:        inv.AmountPaid,
			Currency:           inv.Currency,
			PaidAt:             paidAt,
		}); perr.IsCode(err, perr.CodeNotFound) {
			log.Warn().Str("invoice", inv.ID).Msg("payment event for unknown customer")
			return nil
		} else if err != nil {
			return err
		}
		return nil

	default:
		// acknowledge event types we do not mirror
		log.Debug().Str("type", ev.Type).Msg("unhandled webhook event")
		return nil
	}
}
