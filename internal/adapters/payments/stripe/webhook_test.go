package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	perrs "stackpad/internal/platform/errors"
)

const whSecret = "whsec_test"

func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	now := time.Now()

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{"valid", signPayload(payload, whSecret, now), true},
		{"valid with extra v1", "t=" + signPayload(payload, whSecret, now)[2:] + ",v1=deadbeef", true},
		{"wrong secret", signPayload(payload, "whsec_other", now), false},
		{"stale timestamp", signPayload(payload, whSecret, now.Add(-10*time.Minute)), false},
		{"future timestamp", signPayload(payload, whSecret, now.Add(10*time.Minute)), false},
		{"missing header", "", false},
		{"no v1 entry", fmt.Sprintf("t=%d", now.Unix()), false},
		{"garbage timestamp", "t=abc,v1=deadbeef", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(payload, tc.header, whSecret, DefaultTolerance, now)
			if tc.ok && err != nil {
				t.Fatalf("expected pass, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected failure")
				}
				if !perrs.IsCode(err, perrs.CodeInvalidRequest) {
					t.Errorf("code = %v, want INVALID_REQUEST", perrs.CodeOf(err))
				}
			}
		})
	}
}

func TestVerifySignatureRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	header := signPayload(payload, whSecret, now)

	tampered := []byte(`{"id":"evt_2"}`)
	if err := VerifySignature(tampered, header, whSecret, DefaultTolerance, now); err == nil {
		t.Fatal("tampered payload accepted")
	}
}

func TestConstructEvent(t *testing.T) {
	now := time.Now()
	payload := []byte(`{
		"id": "evt_42",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "client_reference_id": "user-1"}}
	}`)

	ev, err := constructEventAt(payload, signPayload(payload, whSecret, now), whSecret, now)
	if err != nil {
		t.Fatalf("ConstructEvent: %v", err)
	}
	if ev.ID != "evt_42" || ev.Type != "checkout.session.completed" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Data.Object) == 0 {
		t.Error("data object not captured")
	}

	// bad json behind a valid signature is still a 400-class failure
	garbage := []byte(`{nope`)
	if _, err := constructEventAt(garbage, signPayload(garbage, whSecret, now), whSecret, now); err == nil {
		t.Fatal("garbage payload accepted")
	} else if !perrs.IsCode(err, perrs.CodeInvalidRequest) {
		t.Errorf("code = %v, want INVALID_REQUEST", perrs.CodeOf(err))
	}
}
