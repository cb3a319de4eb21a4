// Package repo provides Postgres bindings for the billing domain.Repo
package repo

import (
	"context"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/services/billing/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) GetCustomer(ctx context.Context, userID string) (domain.Customer, bool, error) {
	var c domain.Customer
	err := r.q.QueryRow(ctx, `
		SELECT user_id, provider_id, created_at
		FROM billing_customers
		WHERE user_id = $1
	`, userID).Scan(&c.UserID, &c.ProviderID, &c.CreatedAt)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Customer{}, false, nil
		}
		return domain.Customer{}, false, perr.FromPostgres(err, "get billing customer")
	}
	return c, true, nil
}

func (r *queries) GetCustomerByProviderID(ctx context.Context, providerID string) (domain.Customer, bool, error) {
	var c domain.Customer
	err := r.q.QueryRow(ctx, `
		SELECT user_id, provider_id, created_at
		FROM billing_customers
		WHERE provider_id = $1
	`, providerID).Scan(&c.UserID, &c.ProviderID, &c.CreatedAt)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Customer{}, false, nil
		}
		return domain.Customer{}, false, perr.FromPostgres(err, "get billing customer by provider id")
	}
	return c, true, nil
}

func (r *queries) InsertCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO billing_customers (user_id, provider_id, created_at)
		VALUES ($1, $2, $3)
	`, c.UserID, c.ProviderID, c.CreatedAt)
	if err != nil {
		return perr.FromPostgres(err, "insert billing customer")
	}
	return nil
}

const subCols = `id, user_id, provider_id, status, cancel_at_period_end, created_at, updated_at`

func (r *queries) GetSubscriptionByUser(ctx context.Context, userID string) (domain.Subscription, bool, error) {
	var s domain.Subscription
	err := r.q.QueryRow(ctx, `
		SELECT `+subCols+`
		FROM subscriptions
		WHERE user_id = $1 AND status <> 'canceled'
	`, userID).Scan(
		&s.ID, &s.UserID, &s.ProviderID, &s.Status, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Subscription{}, false, nil
		}
		return domain.Subscription{}, false, perr.FromPostgres(err, "get subscription")
	}
	return s, true, nil
}

func (r *queries) UpsertSubscription(ctx context.Context, s domain.Subscription) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO subscriptions (id, user_id, provider_id, status, cancel_at_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id) DO UPDATE
		SET status = EXCLUDED.status,
		    cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		    updated_at = EXCLUDED.updated_at
	`, s.ID, s.UserID, s.ProviderID, s.Status, s.CancelAtPeriodEnd, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return perr.FromPostgres(err, "upsert subscription")
	}
	return nil
}

func (r *queries) SetSubscriptionStatus(
	ctx context.Context, providerID, status string, cancelAtPeriodEnd bool,
) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2, cancel_at_period_end = $3, updated_at = now()
		WHERE provider_id = $1
	`, providerID, status, cancelAtPeriodEnd)
	if err != nil {
		return false, perr.FromPostgres(err, "set subscription status")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) InsertHistory(ctx context.Context, h domain.HistoryEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO billing_history (id, user_id, provider_invoice_id, amount_minor, currency, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, h.ID, h.UserID, h.ProviderInvoiceID, h.AmountMinor, h.Currency, h.PaidAt)
	if err != nil {
		return perr.FromPostgres(err, "insert billing history")
	}
	return nil
}

func (r *queries) ListHistoryByUser(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, provider_invoice_id, amount_minor, currency, paid_at
		FROM billing_history
		WHERE user_id = $1
		ORDER BY paid_at DESC
	`, userID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list billing history")
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.ProviderInvoiceID, &h.AmountMinor, &h.Currency, &h.PaidAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "scan billing history")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list billing history")
	}
	return out, nil
}
