package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"stackpad/internal/platform/config"
	perrs "stackpad/internal/platform/errors"
)

func TestLazyBuildsExactlyOnce(t *testing.T) {
	var builds atomic.Int32
	l := NewLazy(func(context.Context) (*Container, error) {
		builds.Add(1)
		return &Container{WebhookSecret: "whsec"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := l.Get(context.Background())
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			if c.WebhookSecret != "whsec" {
				t.Errorf("container = %+v", c)
			}
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Fatalf("builds = %d, want 1", got)
	}
}

func TestLazyMemoizesFailure(t *testing.T) {
	var builds atomic.Int32
	l := NewLazy(func(context.Context) (*Container, error) {
		builds.Add(1)
		return nil, perrs.Internalf("missing required configuration")
	})

	for i := 0; i < 3; i++ {
		if _, err := l.Get(context.Background()); !perrs.IsCode(err, perrs.CodeInternal) {
			t.Fatalf("Get #%d: err = %v, want INTERNAL", i, err)
		}
	}
	if got := builds.Load(); got != 1 {
		t.Fatalf("builds = %d, want 1 (failure not memoized)", got)
	}
}

func TestBuildFailsFastOnMissingConfig(t *testing.T) {
	for _, k := range RequiredKeys {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/stackpad")

	_, err := Build(context.Background(), config.New())
	if !perrs.IsCode(err, perrs.CodeInternal) {
		t.Fatalf("err = %v, want INTERNAL", err)
	}
	// the message names what is absent so operators can fix the deployment
	if got := err.Error(); got == "" {
		t.Fatal("empty error message")
	}
}
