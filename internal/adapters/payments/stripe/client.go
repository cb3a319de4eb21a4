// Package stripe is a minimal REST adapter for the payment provider
// it speaks the form-encoded v1 API directly, no vendor SDK
package stripe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "stackpad/internal/platform/errors"
	"stackpad/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.stripe.com"
	defaultTimeout = 15 * time.Second
)

// Options configures the Client
type Options struct {
	// SecretKey authenticates every call, sk_live or sk_test
	SecretKey string

	BaseURL string
	Timeout time.Duration
}

// Client talks to the provider's REST API
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// New creates a Client with sane defaults
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("stripe"),
	}
}

// apiError is the provider's error body
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// post issues a form-encoded POST and decodes the JSON response into out
func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.opts.BaseURL+path, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return perr.Wrap(err, perr.CodeInternal, "payments request build failed")
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.CodeInternal, "payments call failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.Wrap(err, perr.CodeInternal, "payments response read failed")
	}

	if resp.StatusCode >= 400 {
		var ae apiError
		_ = json.Unmarshal(body, &ae)
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("type", ae.Error.Type).
			Str("code", ae.Error.Code).
			Msg("payments api error")
		return perr.Newf(perr.CodeInternal, "payments api %s: %s", path, ae.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return perr.Wrap(err, perr.CodeInternal, "payments response decode failed")
		}
	}
	return nil
}

// CreateCustomer registers a customer for the given email and returns its id
func (c *Client) CreateCustomer(ctx context.Context, email string) (string, error) {
	form := url.Values{}
	form.Set("email", email)

	var out struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/v1/customers", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CheckoutParams describe a hosted checkout session
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string

	// ClientReferenceID round trips our user id back on the webhook
	ClientReferenceID string
}

// CreateCheckoutSession opens a hosted subscription checkout and returns its URL
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer", p.CustomerID)
	form.Set("line_items[0][price]", p.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	if p.ClientReferenceID != "" {
		form.Set("client_reference_id", p.ClientReferenceID)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.post(ctx, "/v1/checkout/sessions", form, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// CancelAtPeriodEnd flags the subscription to lapse at the end of the paid period
func (c *Client) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	form := url.Values{}
	form.Set("cancel_at_period_end", "true")
	return c.post(ctx, "/v1/subscriptions/"+subscriptionID, form, nil)
}
