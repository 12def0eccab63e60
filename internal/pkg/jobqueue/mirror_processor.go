package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/s3mirror"
)

// NewMirrorMediaHandler returns the handler for mirror_media jobs. It reloads
// the media row so a record deleted while the job sat in the queue is skipped
// instead of mirrored.
func NewMirrorMediaHandler(mirror *s3mirror.Client, media repository.MediaRepository) Handler {
	return func(ctx context.Context, job *Job) error {
		payload, err := MirrorMediaJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid mirror payload: %w", err)
		}
		if payload.MediaUUID == "" {
			return errors.New("mirror payload missing media uuid")
		}

		record, err := media.GetByUUID(payload.MediaUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Infof("[JobQueue] Media %s gone before mirroring, skipping", payload.MediaUUID)
				return nil
			}
			return fmt.Errorf("failed to load media %s: %w", payload.MediaUUID, err)
		}

		objectKey, err := mirror.MirrorMedia(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to mirror media %s: %w", payload.MediaUUID, err)
		}

		log.Infof("[JobQueue] Mirrored media %s to %s", payload.MediaUUID, objectKey)
		return nil
	}
}
