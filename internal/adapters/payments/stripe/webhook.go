package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	perr "stackpad/internal/platform/errors"
)

// SignatureHeader is the header carrying the webhook signature
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how stale a signed timestamp may be
const DefaultTolerance = 5 * time.Minute

// Event is the decoded webhook envelope
// Data.Object stays raw so each handler decodes only the shape it needs
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// signatureParts is the parsed form of the signature header
type signatureParts struct {
	timestamp time.Time
	v1        []string
}

// parseSignatureHeader splits "t=...,v1=...,v1=..." into its parts
func parseSignatureHeader(h string) (signatureParts, error) {
	var out signatureParts
	if strings.TrimSpace(h) == "" {
		return out, perr.InvalidRequestf("missing signature header")
	}
	for _, pair := range strings.Split(h, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			sec, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return out, perr.InvalidRequestf("malformed signature timestamp")
			}
			out.timestamp = time.Unix(sec, 0)
		case "v1":
			out.v1 = append(out.v1, v)
		}
	}
	if out.timestamp.IsZero() || len(out.v1) == 0 {
		return out, perr.InvalidRequestf("malformed signature header")
	}
	return out, nil
}

// computeSignature is HMAC-SHA256 over "<timestamp>.<payload>"
func computeSignature(ts time.Time, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the header against the payload and shared secret
// the caller never sees the payload as an event unless this passes
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	parts, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}
	if tolerance > 0 {
		age := now.Sub(parts.timestamp)
		if age > tolerance || age < -tolerance {
			return perr.InvalidRequestf("signature timestamp outside tolerance")
		}
	}
	want := computeSignature(parts.timestamp, payload, secret)
	for _, got := range parts.v1 {
		if hmac.Equal([]byte(got), []byte(want)) {
			return nil
		}
	}
	return perr.InvalidRequestf("signature mismatch")
}

// ConstructEvent verifies the signature then decodes the event envelope
func ConstructEvent(payload []byte, header, secret string) (Event, error) {
	return constructEventAt(payload, header, secret, time.Now())
}

func constructEventAt(payload []byte, header, secret string, now time.Time) (Event, error) {
	var ev Event
	if err := VerifySignature(payload, header, secret, DefaultTolerance, now); err != nil {
		return ev, err
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, perr.Wrap(err, perr.CodeInvalidRequest, "malformed event payload")
	}
	return ev, nil
}
