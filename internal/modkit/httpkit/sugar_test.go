package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "stackpad/internal/platform/net/http"
)

// fakeRouter records verb + path + handler for assertions
type fakeRouter struct {
	prefixes  []string
	useCalls  int
	lastMWLen int

	recs []struct {
		verb string
		path string
		h    phttp.Handler
	}
}

func (f *fakeRouter) record(verb, path string, h phttp.Handler) {
	f.recs = append(f.recs, struct {
		verb, path string
		h          phttp.Handler
	}{verb, path, h})
}

func (f *fakeRouter) Get(path string, h phttp.Handler)     { f.record("GET", path, h) }
func (f *fakeRouter) Post(path string, h phttp.Handler)    { f.record("POST", path, h) }
func (f *fakeRouter) Put(path string, h phttp.Handler)     { f.record("PUT", path, h) }
func (f *fakeRouter) Patch(path string, h phttp.Handler)   { f.record("PATCH", path, h) }
func (f *fakeRouter) Delete(path string, h phttp.Handler)  { f.record("DELETE", path, h) }
func (f *fakeRouter) Head(path string, h phttp.Handler)    { f.record("HEAD", path, h) }
func (f *fakeRouter) Options(path string, h phttp.Handler) { f.record("OPTIONS", path, h) }

func (f *fakeRouter) Handle(path string, h http.Handler) {
	f.record("HANDLE", path, h.ServeHTTP)
}

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

func (f *fakeRouter) Group(fn func(Router)) { fn(f) }

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f) // pass itself as subrouter
}

func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }

func (f *fakeRouter) find(verb, path string) phttp.Handler {
	for _, rec := range f.recs {
		if rec.verb == verb && rec.path == path {
			return rec.h
		}
	}
	return nil
}

func TestSugarRegistersVerbs(t *testing.T) {
	r := &fakeRouter{}

	GetJSON(r, "/a", func(*http.Request, struct{}) (any, error) { return nil, nil })
	PostJSON(r, "/b", func(*http.Request, struct{}) (any, error) { return nil, nil })
	PostJSONCreated(r, "/c", func(*http.Request, struct{}) (any, error) { return nil, nil })
	PutJSON(r, "/d", func(*http.Request, struct{}) (any, error) { return nil, nil })
	PatchJSON(r, "/e", func(*http.Request, struct{}) (any, error) { return nil, nil })
	DeleteJSON(r, "/f", func(*http.Request, struct{}) (any, error) { return nil, nil })
	Get(r, "/g", func(*http.Request) (any, error) { return nil, nil })
	Post(r, "/h", func(*http.Request) (any, error) { return nil, nil })
	Delete(r, "/i", func(*http.Request) (any, error) { return nil, nil })

	want := []struct{ verb, path string }{
		{"GET", "/a"}, {"POST", "/b"}, {"POST", "/c"}, {"PUT", "/d"},
		{"PATCH", "/e"}, {"DELETE", "/f"}, {"GET", "/g"}, {"POST", "/h"}, {"DELETE", "/i"},
	}
	if len(r.recs) != len(want) {
		t.Fatalf("registered %d routes, want %d", len(r.recs), len(want))
	}
	for i, w := range want {
		if r.recs[i].verb != w.verb || r.recs[i].path != w.path {
			t.Fatalf("route %d = %s %s, want %s %s", i, r.recs[i].verb, r.recs[i].path, w.verb, w.path)
		}
	}
}

func TestPostJSONCreatedWrapsEnvelope(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required"`
	}
	r := &fakeRouter{}
	PostJSONCreated(r, "/things", func(_ *http.Request, body in) (any, error) {
		return map[string]string{"name": body.Name}, nil
	})

	h := r.find("POST", "/things")
	if h == nil {
		t.Fatalf("handler not registered")
	}

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/things", strings.NewReader(`{"name":"x"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d want %d", rec.Code, http.StatusCreated)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope: %+v", env)
	}
}

func TestPostJSONValidationShortCircuits(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required"`
	}
	called := false
	r := &fakeRouter{}
	PostJSON(r, "/things", func(_ *http.Request, _ in) (any, error) {
		called = true
		return nil, nil
	})

	rec := httptest.NewRecorder()
	r.find("POST", "/things")(rec, httptest.NewRequest("POST", "/things", strings.NewReader(`{}`)))

	if called {
		t.Fatalf("handler ran despite invalid payload")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d want %d", rec.Code, http.StatusBadRequest)
	}
}
