package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{SecretKey: "sk_test_123", BaseURL: srv.URL})
}

func TestCreateCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/customers" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("auth header = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("email"); got != "zoe@example.com" {
			t.Errorf("email = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_123"}`))
	})

	id, err := c.CreateCustomer(context.Background(), "zoe@example.com")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if id != "cus_123" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		want := map[string]string{
			"mode":                  "subscription",
			"customer":              "cus_123",
			"line_items[0][price]":  "price_pro",
			"line_items[0][quantity]": "1",
			"success_url":           "https://app.example.com/ok",
			"cancel_url":            "https://app.example.com/nope",
			"client_reference_id":   "user-1",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Errorf("form[%s] = %q, want %q", k, got, v)
			}
		}
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.example.com/cs_1"}`))
	})

	url, err := c.CreateCheckoutSession(context.Background(), CheckoutParams{
		CustomerID:        "cus_123",
		PriceID:           "price_pro",
		SuccessURL:        "https://app.example.com/ok",
		CancelURL:         "https://app.example.com/nope",
		ClientReferenceID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if url != "https://checkout.example.com/cs_1" {
		t.Errorf("url = %q", url)
	}
}

func TestCancelAtPeriodEnd(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/subscriptions/sub_9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("cancel_at_period_end"); got != "true" {
			t.Errorf("cancel_at_period_end = %q", got)
		}
		_, _ = w.Write([]byte(`{"id":"sub_9","cancel_at_period_end":true}`))
	})

	if err := c.CancelAtPeriodEnd(context.Background(), "sub_9"); err != nil {
		t.Fatalf("CancelAtPeriodEnd: %v", err)
	}
}

func TestAPIErrorSurfacesAsInternal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"declined"}}`))
	})

	if _, err := c.CreateCustomer(context.Background(), "zoe@example.com"); err == nil {
		t.Fatal("expected error from 402 response")
	}
}
