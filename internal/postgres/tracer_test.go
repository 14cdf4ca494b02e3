package postgres

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWithHTTPMethod_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithHTTPMethod(context.Background(), "POST")
	got := httpMethodFromContext(ctx)
	if got != "POST" {
		t.Errorf("httpMethodFromContext = %q, want %q", got, "POST")
	}
}

func TestWithHTTPMethod_Empty(t *testing.T) {
	t.Parallel()

	ctx := WithHTTPMethod(context.Background(), "")
	if got := httpMethodFromContext(ctx); got != "" {
		t.Errorf("httpMethodFromContext = %q, want empty", got)
	}
}

func TestHTTPMethodFromContext_Missing(t *testing.T) {
	t.Parallel()

	if got := httpMethodFromContext(context.Background()); got != "" {
		t.Errorf("httpMethodFromContext = %q, want empty for plain context", got)
	}
}

func TestRoutePatternFromContext_Missing(t *testing.T) {
	t.Parallel()

	if got := routePatternFromContext(context.Background()); got != "" {
		t.Errorf("routePatternFromContext = %q, want empty for plain context", got)
	}
}

func TestSetQueryObserver(t *testing.T) {
	// Not parallel: mutates the package-level observer.

	var (
		mu    sync.Mutex
		calls []string
	)
	SetQueryObserver(QueryObserverFunc(func(_ context.Context, method, route, outcome string, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, method+" "+route+" "+outcome)
	}))
	t.Cleanup(func() { SetQueryObserver(nil) })

	obs := getQueryObserver()
	if obs == nil {
		t.Fatal("getQueryObserver returned nil after SetQueryObserver")
	}
	obs.ObserveQuery(context.Background(), "GET", "/api/v1/incidents", "ok", time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "GET /api/v1/incidents ok" {
		t.Errorf("calls = %v, want one GET /api/v1/incidents ok", calls)
	}
}

func TestSetQueryObserver_Nil(t *testing.T) {
	SetQueryObserver(nil)
	if got := getQueryObserver(); got != nil {
		t.Errorf("getQueryObserver = %v, want nil after SetQueryObserver(nil)", got)
	}
}
