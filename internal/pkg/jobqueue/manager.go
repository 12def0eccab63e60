package jobqueue

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/pixora-app/pixora/app/models"
)

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// Manager is the application-facing facade over the job queue. It owns the
// queue lifecycle and offers typed enqueue helpers.
type Manager struct {
	queue *Queue
}

// InitializeManager sets up the global manager around an already configured
// queue and starts its workers. Safe to call more than once.
func InitializeManager(queue *Queue) *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{queue: queue}
		queue.Start()
		log.Info("[JobQueue] Manager initialized")
	})
	return globalManager
}

// GetManager returns the global manager, or nil before initialization
func GetManager() *Manager {
	return globalManager
}

// Shutdown stops the queue workers
func (m *Manager) Shutdown() {
	m.queue.Stop()
}

// Queue exposes the underlying queue for stats endpoints
func (m *Manager) Queue() *Queue {
	return m.queue
}

// EnqueueMirror schedules asynchronous replication of a stored media file
func (m *Manager) EnqueueMirror(media *models.Media) error {
	if media == nil {
		return errors.New("nil media")
	}
	payload := MirrorMediaJobPayload{
		MediaID:   media.ID,
		MediaUUID: media.UUID,
		SourceURL: media.URL,
	}
	_, err := m.queue.EnqueueJob(JobTypeMirrorMedia, payload.ToMap())
	return err
}

// EnqueueProviderDelete schedules provider-side cleanup of a deleted media
// record. The payload carries everything needed after the row is gone.
func (m *Manager) EnqueueProviderDelete(media *models.Media) error {
	if media == nil {
		return errors.New("nil media")
	}
	payload := ProviderDeleteJobPayload{
		MediaUUID:   media.UUID,
		ProviderKey: media.ProviderKey,
		SourceURL:   media.URL,
		CreatedAt:   media.CreatedAt,
	}
	_, err := m.queue.EnqueueJob(JobTypeProviderDelete, payload.ToMap())
	return err
}
