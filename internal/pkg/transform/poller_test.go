package transform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPollerDefaults(t *testing.T) {
	p := NewPoller(0, 0)
	assert.Equal(t, DefaultPollInterval, p.interval)
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)

	p = NewPoller(time.Second, 5)
	assert.Equal(t, time.Second, p.interval)
	assert.Equal(t, 5, p.maxAttempts)
}

func TestRunReadyAfterRendering(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The provider serves JSON placeholders until the variant is rendered.
		if atomic.AddInt32(&hits, 1) < 3 {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"rendering"}`))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	p := NewPoller(time.Millisecond, 10)
	res := p.Run(context.Background(), srv.URL, nil)

	assert.Equal(t, StateReady, res.State)
	assert.Equal(t, srv.URL, res.URL)
	assert.Equal(t, 3, res.Attempts)
}

func TestRunTimesOutAtAttemptCap(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var attempts []int
	p := NewPoller(time.Millisecond, 5)
	res := p.Run(context.Background(), srv.URL, func(n int) { attempts = append(attempts, n) })

	assert.Equal(t, StateTimedOut, res.State)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, attempts)
	// The cap bounds network attempts too, not just callbacks.
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestRunNonOKStatusIsTransient(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer srv.Close()

	p := NewPoller(time.Millisecond, 10)
	res := p.Run(context.Background(), srv.URL, nil)

	assert.Equal(t, StateReady, res.State)
	assert.Equal(t, 2, res.Attempts)
}

func TestRunCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Result, 1)

	p := NewPoller(50*time.Millisecond, 100)
	go func() { done <- p.Run(ctx, srv.URL, nil) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		assert.Equal(t, StateIdle, res.State)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestRunRespectsInterval(t *testing.T) {
	var mu sync.Mutex
	var starts []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
	}))
	defer srv.Close()

	interval := 20 * time.Millisecond
	p := NewPoller(interval, 3)
	res := p.Run(context.Background(), srv.URL, nil)

	assert.Equal(t, StateTimedOut, res.State)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "requested", StateRequested.String())
	assert.Equal(t, "polling", StatePolling.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "timed_out", StateTimedOut.String())
}
