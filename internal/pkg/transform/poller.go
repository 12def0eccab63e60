package transform

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default poll settings: 100 attempts at 3 s is roughly five minutes of
// wall-clock waiting before a transformation is declared timed out.
const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxAttempts  = 100
)

// State is the lifecycle of one active transformation
type State int

const (
	StateIdle State = iota
	StateRequested
	StatePolling
	StateReady
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StatePolling:
		return "polling"
	case StateReady:
		return "ready"
	case StateTimedOut:
		return "timed_out"
	default:
		return "idle"
	}
}

// Result is the terminal outcome of one poll run
type Result struct {
	State    State
	URL      string
	Attempts int
}

// Poller probes a derived URL until the provider has rendered the
// transformed asset or the attempt budget is exhausted. The provider renders
// lazily on first fetch and offers no push notification, so readiness can
// only be discovered by fetching and sniffing the content type.
type Poller struct {
	interval    time.Duration
	maxAttempts int
	client      *http.Client
}

// NewPoller creates a poller; non-positive arguments fall back to defaults
func NewPoller(interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Run polls the derived URL until it serves an image, the attempt cap is
// reached, or ctx is cancelled. Attempts are strictly sequential: the next
// one is scheduled only after the previous response (or failure) was
// observed. Transient failures are expected while the provider renders and
// are deliberately swallowed. On cancellation the returned state is
// StateIdle and the caller reverts to the original image.
func (p *Poller) Run(ctx context.Context, derivedURL string, onAttempt func(attempt int)) Result {
	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	for attempt := 1; ; attempt++ {
		if onAttempt != nil {
			onAttempt(attempt)
		}

		if p.probe(ctx, derivedURL) {
			return Result{State: StateReady, URL: derivedURL, Attempts: attempt}
		}
		if ctx.Err() != nil {
			return Result{State: StateIdle, Attempts: attempt}
		}
		if attempt >= p.maxAttempts {
			return Result{State: StateTimedOut, Attempts: attempt}
		}

		timer.Reset(p.interval)
		select {
		case <-ctx.Done():
			return Result{State: StateIdle, Attempts: attempt}
		case <-timer.C:
		}
	}
}

// probe fetches the derived URL once, bypassing caches. Ready means HTTP OK
// and an image content type; everything else is treated as "still rendering".
func (p *Poller) probe(ctx context.Context, derivedURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, derivedURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}
