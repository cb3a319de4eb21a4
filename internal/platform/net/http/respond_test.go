package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	perr "stackpad/internal/platform/errors"
	pnet "stackpad/internal/platform/net"
)

func pinNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func reqWithID(id string) *stdhttp.Request {
	r := httptest.NewRequest(stdhttp.MethodGet, "/x", nil)
	return r.WithContext(pnet.WithRequestID(r.Context(), id))
}

func TestRespondOKEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pinNow(t, at)

	rec := httptest.NewRecorder()
	RespondOK(rec, reqWithID("req-1"), map[string]any{"x": 1})

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status %d want %d", rec.Code, stdhttp.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Error != nil {
		t.Fatalf("expected success envelope: %+v", env)
	}
	if env.Metadata.RequestID != "req-1" {
		t.Fatalf("request id %q want %q", env.Metadata.RequestID, "req-1")
	}
	if env.Metadata.Timestamp != "2026-03-01T12:00:00Z" {
		t.Fatalf("timestamp %q", env.Metadata.Timestamp)
	}
	if env.Metadata.Version == "" {
		t.Fatalf("version missing from metadata")
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["x"] != float64(1) {
		t.Fatalf("data mismatch: %+v", env.Data)
	}
}

func TestWriteErrorMapsStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", perr.NotFoundf("profile not found"), 404, "NOT_FOUND"},
		{"conflict", perr.Conflictf("already exists"), 409, "CONFLICT"},
		{"invalid request", perr.InvalidRequestf("bad input"), 400, "INVALID_REQUEST"},
		{"unauthorized", perr.Unauthorizedf("missing bearer token"), 401, "UNAUTHORIZED"},
		{"opaque", stdhttp.ErrBodyNotAllowed, 500, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, "req-9", tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status %d want %d", rec.Code, tc.status)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope: %+v", env)
			}
			if string(env.Error.Code) != tc.code {
				t.Fatalf("code %q want %q", env.Error.Code, tc.code)
			}
			if env.Metadata.RequestID != "req-9" {
				t.Fatalf("request id %q", env.Metadata.RequestID)
			}
		})
	}
}

func TestHandleReturnStyle(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h := Handle(func(r *stdhttp.Request) Response { return Created(map[string]any{"id": "p1"}) })
		rec := httptest.NewRecorder()
		h(rec, reqWithID("req-2"))

		if rec.Code != stdhttp.StatusCreated {
			t.Fatalf("status %d want %d", rec.Code, stdhttp.StatusCreated)
		}
		env := decodeEnvelope(t, rec)
		if !env.Success {
			t.Fatalf("expected success: %+v", env)
		}
	})

	t.Run("no content has empty body", func(t *testing.T) {
		h := Handle(func(r *stdhttp.Request) Response { return NoContent() })
		rec := httptest.NewRecorder()
		h(rec, reqWithID("req-3"))

		if rec.Code != stdhttp.StatusNoContent {
			t.Fatalf("status %d want %d", rec.Code, stdhttp.StatusNoContent)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("expected empty body, got %q", rec.Body.String())
		}
	})

	t.Run("error body takes error status", func(t *testing.T) {
		h := Handle(func(r *stdhttp.Request) Response { return Error(perr.Forbiddenf("not yours")) })
		rec := httptest.NewRecorder()
		h(rec, reqWithID("req-4"))

		if rec.Code != stdhttp.StatusForbidden {
			t.Fatalf("status %d want %d", rec.Code, stdhttp.StatusForbidden)
		}
		env := decodeEnvelope(t, rec)
		if env.Success || string(env.Error.Code) != "FORBIDDEN" {
			t.Fatalf("envelope mismatch: %+v", env)
		}
	})

	t.Run("custom headers pass through", func(t *testing.T) {
		h := Handle(func(r *stdhttp.Request) Response {
			return Response{Status: stdhttp.StatusOK, Body: "ok", Header: stdhttp.Header{"X-Thing": {"a"}}}
		})
		rec := httptest.NewRecorder()
		h(rec, reqWithID("req-5"))

		if got := rec.Header().Get("X-Thing"); got != "a" {
			t.Fatalf("header %q want %q", got, "a")
		}
	})
}
