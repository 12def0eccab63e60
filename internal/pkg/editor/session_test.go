package editor

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/internal/pkg/transform"
)

func testMedia(url string) *models.Media {
	return &models.Media{UUID: "11111111-2222-3333-4444-555555555555", URL: url}
}

func fastPoller(maxAttempts int) *transform.Poller {
	return transform.NewPoller(5*time.Millisecond, maxAttempts)
}

func waitForState(t *testing.T, m *Manager, userID uint, state transform.State) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := m.Snapshot(userID)
		if snap.State == state.String() {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("session never reached state %s, last: %+v", state, m.Snapshot(userID))
	return Snapshot{}
}

func TestApplyToolWithoutImage(t *testing.T) {
	m := NewManager(fastPoller(3), nil)

	_, err := m.ApplyTool(1, "e-bgremove", "")
	assert.ErrorIs(t, err, ErrNoImageSelected)
}

func TestApplyToolValidation(t *testing.T) {
	m := NewManager(fastPoller(3), nil)
	m.SelectImage(1, testMedia("https://cdn.example.com/a.png"))

	_, err := m.ApplyTool(1, "e-edit", "  ")
	assert.ErrorIs(t, err, transform.ErrPromptRequired)

	_, err = m.ApplyTool(1, "sharpen", "")
	assert.ErrorIs(t, err, transform.ErrUnknownTool)
}

func TestSelectImageResetsSession(t *testing.T) {
	m := NewManager(fastPoller(3), nil)

	snap := m.SelectImage(7, testMedia("https://cdn.example.com/a.png"))
	assert.Equal(t, transform.StateIdle.String(), snap.State)
	assert.Equal(t, "https://cdn.example.com/a.png", snap.DisplayURL)
	assert.Empty(t, snap.ActiveTool)
}

func TestApplyToolBecomesReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewManager(fastPoller(5), nil)
	m.SelectImage(1, testMedia(srv.URL+"/a.png"))

	snap, err := m.ApplyTool(1, "e-bgremove", "")
	require.NoError(t, err)
	assert.Equal(t, transform.StateRequested.String(), snap.State)
	assert.Equal(t, srv.URL+"/a.png", snap.DisplayURL)

	snap = waitForState(t, m, 1, transform.StateReady)
	assert.Equal(t, "e-bgremove", snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.png?tr=e-bgremove", snap.DisplayURL)
}

func TestApplyToolTimeoutRevertsToOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	m := NewManager(fastPoller(3), nil)
	m.SelectImage(1, testMedia(srv.URL+"/a.png"))

	_, err := m.ApplyTool(1, "e-removedotbg", "")
	require.NoError(t, err)

	snap := waitForState(t, m, 1, transform.StateTimedOut)
	assert.Empty(t, snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.png", snap.DisplayURL)
	assert.Equal(t, 3, snap.Attempts)
}

func TestApplyToolToggleOff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewManager(fastPoller(5), nil)
	m.SelectImage(1, testMedia(srv.URL+"/a.png"))

	_, err := m.ApplyTool(1, "e-bgremove", "")
	require.NoError(t, err)
	waitForState(t, m, 1, transform.StateReady)

	snap, err := m.ApplyTool(1, "e-bgremove", "")
	require.NoError(t, err)
	assert.Equal(t, transform.StateIdle.String(), snap.State)
	assert.Empty(t, snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.png", snap.DisplayURL)
}

func TestClearTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewManager(fastPoller(5), nil)
	m.SelectImage(1, testMedia(srv.URL+"/a.jpg"))

	_, err := m.ApplyTool(1, "bg-genfill", "extend the sky")
	require.NoError(t, err)
	waitForState(t, m, 1, transform.StateReady)

	snap := m.ClearTool(1)
	assert.Equal(t, transform.StateIdle.String(), snap.State)
	assert.Empty(t, snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.jpg", snap.DisplayURL)
}

func TestStalePollResultIsDiscarded(t *testing.T) {
	// The first tool's poll never succeeds; once its variant finally would
	// come back the session has already moved on to the second tool.
	var release atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tool := r.URL.Query().Get("tr")
		if tool == "e-bgremove" && !release.Load() {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewManager(fastPoller(50), nil)
	m.SelectImage(1, testMedia(srv.URL+"/a.png"))

	_, err := m.ApplyTool(1, "e-bgremove", "")
	require.NoError(t, err)

	// Supersede the running poll with a different tool.
	_, err = m.ApplyTool(1, "e-removedotbg", "")
	require.NoError(t, err)
	release.Store(true)

	snap := waitForState(t, m, 1, transform.StateReady)
	assert.Equal(t, "e-removedotbg", snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.png?tr=e-removedotbg", snap.DisplayURL)

	// Give the superseded poll time to finish; it must not clobber the state.
	time.Sleep(50 * time.Millisecond)
	snap = m.Snapshot(1)
	assert.Equal(t, "e-removedotbg", snap.ActiveTool)
	assert.Equal(t, srv.URL+"/a.png?tr=e-removedotbg", snap.DisplayURL)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := NewManager(fastPoller(3), nil)

	m.SelectImage(1, testMedia("https://cdn.example.com/a.png"))
	m.SelectImage(2, testMedia("https://cdn.example.com/b.png"))

	assert.Equal(t, "https://cdn.example.com/a.png", m.Snapshot(1).DisplayURL)
	assert.Equal(t, "https://cdn.example.com/b.png", m.Snapshot(2).DisplayURL)
}

func TestSinkReceivesTransitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var mu sync.Mutex
	var states []string
	sink := func(userID uint, snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	}

	m := NewManager(fastPoller(5), sink)
	m.SelectImage(1, testMedia(srv.URL+"/a.png"))
	_, err := m.ApplyTool(1, "e-bgremove", "")
	require.NoError(t, err)
	waitForState(t, m, 1, transform.StateReady)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, transform.StateIdle.String(), states[0])
	assert.Equal(t, transform.StateRequested.String(), states[1])
	assert.Equal(t, transform.StateReady.String(), states[len(states)-1])
}
