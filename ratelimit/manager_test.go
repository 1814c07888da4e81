package ratelimit

import (
	"sync"
	"testing"

	"golang.org/x/time/rate"
)

func TestNewManager(t *testing.T) {
	t.Run("with config", func(t *testing.T) {
		config := map[string]Limit{
			"/searchProduct": {RequestsPerMinute: 60, Burst: 10},
		}
		mgr := NewManager(config, Limit{})
		if mgr == nil {
			t.Fatal("expected non-nil manager")
		}
		if mgr.limiters == nil {
			t.Error("expected limiters map to be initialized")
		}
	})

	t.Run("with empty config", func(t *testing.T) {
		mgr := NewManager(nil, Limit{})
		if mgr == nil {
			t.Fatal("expected non-nil manager")
		}
		if mgr.limiters == nil {
			t.Error("expected limiters map to be initialized")
		}
	})
}

func TestLimiter(t *testing.T) {
	t.Run("creates limiter with configured budget", func(t *testing.T) {
		config := map[string]Limit{
			"/searchProduct": {RequestsPerMinute: 60, Burst: 10},
		}
		mgr := NewManager(config, Limit{})

		limiter := mgr.Limiter("/searchProduct")
		if limiter == nil {
			t.Fatal("expected non-nil limiter")
		}
		if limiter.Limit() != rate.Limit(1.0) {
			t.Errorf("expected limit 1/s, got %v", limiter.Limit())
		}
		if limiter.Burst() != 10 {
			t.Errorf("expected burst 10, got %d", limiter.Burst())
		}
	})

	t.Run("returns same limiter for same endpoint", func(t *testing.T) {
		mgr := NewManager(nil, Limit{})

		l1 := mgr.Limiter("/productsList")
		l2 := mgr.Limiter("/productsList")
		if l1 != l2 {
			t.Error("expected the same limiter instance for repeated calls")
		}
	})

	t.Run("unknown endpoint falls back to default", func(t *testing.T) {
		mgr := NewManager(nil, Limit{RequestsPerMinute: 120, Burst: 5})

		limiter := mgr.Limiter("/brandsList")
		if limiter.Limit() != rate.Limit(2.0) {
			t.Errorf("expected limit 2/s, got %v", limiter.Limit())
		}
		if limiter.Burst() != 5 {
			t.Errorf("expected burst 5, got %d", limiter.Burst())
		}
	})

	t.Run("zero default falls back to 30 per minute", func(t *testing.T) {
		mgr := NewManager(nil, Limit{})

		limiter := mgr.Limiter("/brandsList")
		if limiter.Limit() != rate.Limit(0.5) {
			t.Errorf("expected limit 0.5/s, got %v", limiter.Limit())
		}
		if limiter.Burst() != 1 {
			t.Errorf("expected burst 1, got %d", limiter.Burst())
		}
	})
}

func TestSetConfig_RebuildsLimiters(t *testing.T) {
	mgr := NewManager(map[string]Limit{
		"/searchProduct": {RequestsPerMinute: 60, Burst: 10},
	}, Limit{})

	before := mgr.Limiter("/searchProduct")

	mgr.SetConfig(map[string]Limit{
		"/searchProduct": {RequestsPerMinute: 120, Burst: 20},
	})

	after := mgr.Limiter("/searchProduct")
	if before == after {
		t.Error("expected a fresh limiter after SetConfig")
	}
	if after.Limit() != rate.Limit(2.0) {
		t.Errorf("expected new limit 2/s, got %v", after.Limit())
	}
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	mgr := NewManager(nil, Limit{RequestsPerMinute: 600, Burst: 10})

	var wg sync.WaitGroup
	limiters := make([]*rate.Limiter, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			limiters[idx] = mgr.Limiter("/productsList")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(limiters); i++ {
		if limiters[i] != limiters[0] {
			t.Fatal("expected all goroutines to receive the same limiter")
		}
	}
}

func TestCallback(t *testing.T) {
	mgr := NewManager(nil, Limit{RequestsPerMinute: 60})

	cb := mgr.Callback()
	if cb("GET", "/productsList") != mgr.Limiter("/productsList") {
		t.Error("expected callback to return the manager's limiter")
	}
}
