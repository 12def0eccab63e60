package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/internal/pkg/transform"
)

var (
	// ErrNoImageSelected rejects tool activation before an image was chosen
	ErrNoImageSelected = errors.New("no image selected")
)

// Snapshot is the externally visible state of one editor session
type Snapshot struct {
	State      string `json:"state"`
	MediaUUID  string `json:"media_uuid,omitempty"`
	ActiveTool string `json:"active_tool,omitempty"`
	DisplayURL string `json:"display_url,omitempty"`
	Attempts   int    `json:"attempts"`
}

// StatusSink receives session snapshots on every state transition, so the
// front-end can observe progress without holding a connection open.
type StatusSink func(userID uint, snap Snapshot)

// session is the per-user in-memory editor state. Only one transformation is
// active at a time; selecting another tool supersedes the running poll.
type session struct {
	media      *models.Media
	activeTool string
	prompt     string
	displayURL string
	state      transform.State
	attempts   int
	generation uint64
	cancel     context.CancelFunc
}

// Manager owns all editor sessions and drives the transformation poller
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*session
	poller   *transform.Poller
	sink     StatusSink
}

// NewManager creates an editor session manager. sink may be nil.
func NewManager(poller *transform.Poller, sink StatusSink) *Manager {
	if poller == nil {
		poller = transform.NewPoller(0, 0)
	}
	return &Manager{
		sessions: make(map[uint]*session),
		poller:   poller,
		sink:     sink,
	}
}

func (m *Manager) get(userID uint) *session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &session{state: transform.StateIdle}
		m.sessions[userID] = sess
	}
	return sess
}

// supersede cancels any running poll and bumps the generation counter so a
// late result from the old poll is discarded. Callers hold m.mu.
func (sess *session) supersede() {
	sess.generation++
	if sess.cancel != nil {
		sess.cancel()
		sess.cancel = nil
	}
}

// SelectImage switches the session to a new image. Any running poll is
// superseded and the display reverts to the image's original URL.
func (m *Manager) SelectImage(userID uint, media *models.Media) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.get(userID)
	sess.supersede()
	sess.media = media
	sess.activeTool = ""
	sess.prompt = ""
	sess.attempts = 0
	sess.state = transform.StateIdle
	if media != nil {
		sess.displayURL = media.URL
	} else {
		sess.displayURL = ""
	}
	return m.publish(userID, sess)
}

// ApplyTool activates a transformation tool for the user's selected image.
// Re-applying the currently active tool toggles it off. Selecting a
// different tool while one is polling supersedes the older poll
// (last-writer-wins); its late result can never overwrite the newer state.
func (m *Manager) ApplyTool(userID uint, toolID, prompt string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.get(userID)
	if sess.media == nil {
		return Snapshot{}, ErrNoImageSelected
	}

	// Idempotent toggle: the active tool switches itself off.
	if sess.activeTool == toolID {
		m.resetLocked(sess)
		return m.publish(userID, sess), nil
	}

	derivedURL, err := transform.DerivedURL(sess.media.URL, toolID, prompt)
	if err != nil {
		return Snapshot{}, err
	}

	sess.supersede()
	gen := sess.generation
	sess.activeTool = toolID
	sess.prompt = prompt
	sess.attempts = 0
	sess.state = transform.StateRequested
	// Original stays on screen until the derived variant is ready.
	sess.displayURL = sess.media.URL

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	snap := m.publish(userID, sess)

	go m.runPoll(ctx, userID, gen, derivedURL)

	return snap, nil
}

// ClearTool toggles the active tool off, reverting to the original image
func (m *Manager) ClearTool(userID uint) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.get(userID)
	m.resetLocked(sess)
	return m.publish(userID, sess)
}

// Snapshot returns the current session state of a user
func (m *Manager) Snapshot(userID uint) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(m.get(userID))
}

func (m *Manager) resetLocked(sess *session) {
	sess.supersede()
	sess.activeTool = ""
	sess.prompt = ""
	sess.attempts = 0
	sess.state = transform.StateIdle
	if sess.media != nil {
		sess.displayURL = sess.media.URL
	}
}

func (m *Manager) runPoll(ctx context.Context, userID uint, gen uint64, derivedURL string) {
	onAttempt := func(attempt int) {
		m.mu.Lock()
		defer m.mu.Unlock()
		sess := m.get(userID)
		if sess.generation != gen {
			return
		}
		sess.state = transform.StatePolling
		sess.attempts = attempt
		m.publish(userID, sess)
	}

	res := m.poller.Run(ctx, derivedURL, onAttempt)
	m.complete(userID, gen, res)
}

// complete applies a poll result unless the session has moved on to a newer
// generation in the meantime.
func (m *Manager) complete(userID uint, gen uint64, res transform.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := m.get(userID)
	if sess.generation != gen {
		// Superseded while in flight; discard the stale result.
		return
	}

	sess.attempts = res.Attempts
	switch res.State {
	case transform.StateReady:
		sess.state = transform.StateReady
		sess.displayURL = res.URL
	case transform.StateTimedOut:
		// Revert to the original and clear the tool; the wait is over.
		sess.state = transform.StateTimedOut
		sess.activeTool = ""
		sess.prompt = ""
		if sess.media != nil {
			sess.displayURL = sess.media.URL
		}
	default:
		// Cancelled; the canceller already reset the session.
		return
	}
	m.publish(userID, sess)
}

func (m *Manager) snapshotLocked(sess *session) Snapshot {
	snap := Snapshot{
		State:      sess.state.String(),
		ActiveTool: sess.activeTool,
		DisplayURL: sess.displayURL,
		Attempts:   sess.attempts,
	}
	if sess.media != nil {
		snap.MediaUUID = sess.media.UUID
	}
	return snap
}

func (m *Manager) publish(userID uint, sess *session) Snapshot {
	snap := m.snapshotLocked(sess)
	if m.sink != nil {
		m.sink(userID, snap)
	}
	return snap
}
