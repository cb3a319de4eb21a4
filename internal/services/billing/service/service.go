// Package service implements the billing use-cases
package service

import (
	"context"
	"time"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/platform/logger"
	"stackpad/internal/services/billing/domain"

	"github.com/google/uuid"
)

// Svc implements checkout, subscription maintenance, and payment history
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[domain.Repo]
	payments domain.PaymentsPort
	log      logger.Logger

	newID func() string
	now   func() time.Time
}

// New constructs the billing service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], payments domain.PaymentsPort) *Svc {
	if db == nil {
		panic("billing.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("billing.Service requires a non-nil Repo binder")
	}
	if payments == nil {
		panic("billing.Service requires a non-nil PaymentsPort")
	}
	return &Svc{
		db:       db,
		binder:   binder,
		payments: payments,
		log:      *logger.Named("billing"),
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

func (s *Svc) repo() domain.Repo { return s.binder.Bind(s.db) }

// ensureCustomer returns the provider customer id, provisioning it on first use
// the unique key on user_id backstops two racing ensure calls as Conflict
func (s *Svc) ensureCustomer(ctx context.Context, userID, email string) (string, error) {
	if c, ok, err := s.repo().GetCustomer(ctx, userID); err != nil {
		return "", err
	} else if ok {
		return c.ProviderID, nil
	}

	providerID, err := s.payments.CreateCustomer(ctx, email)
	if err != nil {
		return "", err
	}
	err = s.repo().InsertCustomer(ctx, domain.Customer{
		UserID:     userID,
		ProviderID: providerID,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return providerID, nil
}

// CheckoutView carries the hosted session URL the client redirects to
type CheckoutView struct {
	URL string `json:"url"`
}

// Checkout opens a hosted checkout session for the caller
func (s *Svc) Checkout(ctx context.Context, userID, email string, in domain.CheckoutInput) (CheckoutView, error) {
	customerID, err := s.ensureCustomer(ctx, userID, email)
	if err != nil {
		return CheckoutView{}, err
	}
	url, err := s.payments.CreateCheckoutSession(ctx, domain.CheckoutParams{
		CustomerID:        customerID,
		PriceID:           in.PriceID,
		SuccessURL:        in.SuccessURL,
		CancelURL:         in.CancelURL,
		ClientReferenceID: userID,
	})
	if err != nil {
		return CheckoutView{}, err
	}
	return CheckoutView{URL: url}, nil
}

// Subscription returns the caller's live subscription
func (s *Svc) Subscription(ctx context.Context, userID string) (domain.SubscriptionView, error) {
	sub, ok, err := s.repo().GetSubscriptionByUser(ctx, userID)
	if err != nil {
		return domain.SubscriptionView{}, err
	}
	if !ok {
		return domain.SubscriptionView{}, perr.NotFoundf("no active subscription")
	}
	return sub.View(), nil
}

// Cancel flags the caller's subscription to lapse at the period end
// the provider is told first, then the local row is marked canceling
func (s *Svc) Cancel(ctx context.Context, userID string) (domain.SubscriptionView, error) {
	sub, ok, err := s.repo().GetSubscriptionByUser(ctx, userID)
	if err != nil {
		return domain.SubscriptionView{}, err
	}
	if !ok {
		return domain.SubscriptionView{}, perr.NotFoundf("no active subscription")
	}
	if sub.Status == domain.SubStatusCanceling {
		return domain.SubscriptionView{}, perr.Conflictf("subscription is already canceling")
	}

	if err := s.payments.CancelAtPeriodEnd(ctx, sub.ProviderID); err != nil {
		return domain.SubscriptionView{}, err
	}
	if _, err := s.repo().SetSubscriptionStatus(ctx, sub.ProviderID, domain.SubStatusCanceling, true); err != nil {
		return domain.SubscriptionView{}, err
	}

	sub.Status = domain.SubStatusCanceling
	sub.CancelAtPeriodEnd = true
	sub.UpdatedAt = s.now().UTC()
	return sub.View(), nil
}

// History returns the caller's paid invoices, newest first
func (s *Svc) History(ctx context.Context, userID string) ([]domain.HistoryView, error) {
	entries, err := s.repo().ListHistoryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HistoryView, 0, len(entries))
	for _, h := range entries {
		out = append(out, h.View())
	}
	return out, nil
}

// Webhook-driven mirroring

// ActivateSubscription records a completed checkout as an active subscription
func (s *Svc) ActivateSubscription(ctx context.Context, in domain.ActivationInput) error {
	now := s.now().UTC()
	return s.repo().UpsertSubscription(ctx, domain.Subscription{
		ID:         s.newID(),
		UserID:     in.UserID,
		ProviderID: in.ProviderSubscriptionID,
		Status:     domain.SubStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// MarkSubscriptionCanceled records the provider-side deletion of a subscription
func (s *Svc) MarkSubscriptionCanceled(ctx context.Context, providerSubscriptionID string) error {
	ok, err := s.repo().SetSubscriptionStatus(ctx, providerSubscriptionID, domain.SubStatusCanceled, false)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("subscription not found")
	}
	return nil
}

// RecordPayment appends a paid invoice to the history
// an unknown provider customer means the event is not ours to record
func (s *Svc) RecordPayment(ctx context.Context, in domain.PaymentInput) error {
	c, ok, err := s.repo().GetCustomerByProviderID(ctx, in.ProviderCustomerID)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("billing customer not found")
	}
	err = s.repo().InsertHistory(ctx, domain.HistoryEntry{
		ID:                s.newID(),
		UserID:            c.UserID,
		ProviderInvoiceID: in.ProviderInvoiceID,
		AmountMinor:       in.AmountMinor,
		Currency:          in.Currency,
		PaidAt:            in.PaidAt,
	})
	if perr.IsCode(err, perr.CodeConflict) {
		// invoice already recorded, webhook redelivery
		s.log.Debug().Str("invoice", in.ProviderInvoiceID).Msg("duplicate invoice event skipped")
		return nil
	}
	return err
}
