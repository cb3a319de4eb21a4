package httpkit

import (
	"net/http"
	"testing"
)

func TestMountAPIPrefixes(t *testing.T) {
	cases := []struct {
		version string
		want    string
	}{
		{"v1", "/api/v1"},
		{"/v1", "/api/v1"},
		{"v2", "/api/v2"},
	}
	for _, tc := range cases {
		r := &fakeRouter{}
		mounted := false
		MountAPI(r, tc.version, nil, func(api Router) { mounted = true })

		if !mounted {
			t.Fatalf("mount callback not invoked for %q", tc.version)
		}
		if len(r.prefixes) != 1 || r.prefixes[0] != tc.want {
			t.Fatalf("prefix = %v, want [%s]", r.prefixes, tc.want)
		}
		if r.useCalls != 0 {
			t.Fatalf("Use called with empty middleware slice")
		}
	}
}

func TestMountAPIV1AppliesMiddleware(t *testing.T) {
	r := &fakeRouter{}
	noop := func(next http.Handler) http.Handler { return next }

	MountAPIV1(r, []func(http.Handler) http.Handler{noop, noop}, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})

	if len(r.prefixes) != 1 || r.prefixes[0] != "/api/v1" {
		t.Fatalf("prefix = %v", r.prefixes)
	}
	if r.useCalls != 1 || r.lastMWLen != 2 {
		t.Fatalf("middleware not applied: calls=%d len=%d", r.useCalls, r.lastMWLen)
	}
	if r.find("GET", "/ping") == nil {
		t.Fatalf("route not registered on scoped router")
	}
}
