// Package domain defines the core types and interfaces for the billing service
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// Subscription statuses
const (
	SubStatusActive    = "active"
	SubStatusCanceling = "canceling"
	SubStatusCanceled  = "canceled"
)

// Customer links a user to a provider-side customer record
type Customer struct {
	UserID     string
	ProviderID string
	CreatedAt  time.Time
}

// Subscription is one subscription row mirrored from the provider
type Subscription struct {
	ID                string
	UserID            string
	ProviderID        string
	Status            string
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubscriptionView is the response shape
type SubscriptionView struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancelAtPeriodEnd"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// View maps the row to its response shape
func (s Subscription) View() SubscriptionView {
	return SubscriptionView{
		ID:                s.ID,
		Status:            s.Status,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		CreatedAt:         s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// HistoryEntry is one paid invoice
type HistoryEntry struct {
	ID                string
	UserID            string
	ProviderInvoiceID string
	AmountMinor       int64
	Currency          string
	PaidAt            time.Time
}

// HistoryView is the response shape with a human-readable amount
type HistoryView struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoiceId"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
	Amount      string `json:"amount"`
	PaidAt      string `json:"paidAt"`
}

// View maps the row to its response shape
func (h HistoryEntry) View() HistoryView {
	return HistoryView{
		ID:          h.ID,
		InvoiceID:   h.ProviderInvoiceID,
		AmountMinor: h.AmountMinor,
		Currency:    strings.ToUpper(h.Currency),
		Amount:      FormatAmount(h.AmountMinor, h.Currency),
		PaidAt:      h.PaidAt.UTC().Format(time.RFC3339),
	}
}

// FormatAmount renders minor units as "<major> <CODE>" using the ISO
// currency registry for the per-currency decimal scale
// unknown codes fall back to a plain "<minor> <CODE>" form
func FormatAmount(minor int64, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return fmt.Sprintf("%d %s", minor, strings.ToUpper(code))
	}
	scale, _ := currency.Cash.Rounding(unit)
	value := float64(minor) / math.Pow10(scale)
	return fmt.Sprintf("%.*f %v", scale, value, unit)
}

// CheckoutInput is the checkout request payload
type CheckoutInput struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutParams is what the payments port needs to open a hosted session
type CheckoutParams struct {
	CustomerID        string
	PriceID           string
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
}

// ActivationInput mirrors a completed checkout back into our store
type ActivationInput struct {
	UserID                 string
	ProviderCustomerID     string
	ProviderSubscriptionID string
}

// PaymentInput mirrors a paid invoice back into our store
type PaymentInput struct {
	ProviderCustomerID string
	ProviderInvoiceID  string
	AmountMinor        int64
	Currency           string
	PaidAt             time.Time
}
