package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeMirrorMedia    JobType = "mirror_media"
	JobTypeProviderDelete JobType = "provider_delete"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// MirrorMediaJobPayload contains the payload for mirror jobs
type MirrorMediaJobPayload struct {
	MediaID   uint   `json:"media_id"`
	MediaUUID string `json:"media_uuid"`
	SourceURL string `json:"source_url"`
}

// ToMap converts the payload to a map for storage
func (p MirrorMediaJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"media_id":   p.MediaID,
		"media_uuid": p.MediaUUID,
		"source_url": p.SourceURL,
	}
}

// MirrorMediaJobPayloadFromMap creates a payload from a map
func MirrorMediaJobPayloadFromMap(data map[string]interface{}) (*MirrorMediaJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload MirrorMediaJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ProviderDeleteJobPayload contains the payload for provider cleanup jobs
// enqueued when a user deletes a media record.
type ProviderDeleteJobPayload struct {
	MediaUUID   string    `json:"media_uuid"`
	ProviderKey string    `json:"provider_key"`
	SourceURL   string    `json:"source_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMap converts the payload to a map for storage
func (p ProviderDeleteJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"media_uuid":   p.MediaUUID,
		"provider_key": p.ProviderKey,
		"source_url":   p.SourceURL,
		"created_at":   p.CreatedAt.Format(time.RFC3339Nano),
	}
}

// ProviderDeleteJobPayloadFromMap creates a payload from a map
func ProviderDeleteJobPayloadFromMap(data map[string]interface{}) (*ProviderDeleteJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ProviderDeleteJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
