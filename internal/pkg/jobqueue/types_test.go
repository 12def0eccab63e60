package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStateTransitions(t *testing.T) {
	job := &Job{
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	beforeTime := time.Now()

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)
	assert.False(t, job.UpdatedAt.Before(beforeTime))

	job.MarkAsFailed("provider unreachable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "provider unreachable", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.RetryCount = job.MaxRetries
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)
}

func TestMirrorMediaPayloadRoundTrip(t *testing.T) {
	payload := MirrorMediaJobPayload{
		MediaID:   7,
		MediaUUID: "8d7609c1-63eb-4f86-8c40-9a6b5e1f0a11",
		SourceURL: "https://cdn.example.com/pixora-uploads/photo.png",
	}

	decoded, err := MirrorMediaJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

func TestProviderDeletePayloadRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)
	payload := ProviderDeleteJobPayload{
		MediaUUID:   "8d7609c1-63eb-4f86-8c40-9a6b5e1f0a11",
		ProviderKey: "f-123",
		SourceURL:   "https://cdn.example.com/pixora-uploads/photo.png",
		CreatedAt:   created,
	}

	decoded, err := ProviderDeleteJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, payload.ProviderKey, decoded.ProviderKey)
	assert.True(t, decoded.CreatedAt.Equal(created))
}
