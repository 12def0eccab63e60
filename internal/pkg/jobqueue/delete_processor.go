package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/s3mirror"
)

// NewProviderDeleteHandler returns the handler for provider_delete jobs.
// After a user deletes a media record the stored file is removed from the
// provider and, when mirroring is enabled, from the mirror bucket as well.
// mirror may be nil.
func NewProviderDeleteHandler(client *provider.Client, mirror *s3mirror.Client, mirrorCfg *s3mirror.Config) Handler {
	return func(ctx context.Context, job *Job) error {
		payload, err := ProviderDeleteJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("invalid delete payload: %w", err)
		}

		if payload.ProviderKey != "" {
			if err := client.DeleteFile(ctx, payload.ProviderKey); err != nil {
				return fmt.Errorf("failed to delete provider file %s: %w", payload.ProviderKey, err)
			}
			log.Infof("[JobQueue] Deleted provider file %s for media %s", payload.ProviderKey, payload.MediaUUID)
		}

		if mirror != nil && payload.SourceURL != "" {
			objectKey := mirrorCfg.GetObjectKey(payload.MediaUUID, payload.SourceURL, payload.CreatedAt)
			exists, err := mirror.ObjectExists(ctx, objectKey)
			if err != nil {
				return err
			}
			if exists {
				if err := mirror.DeleteObject(ctx, objectKey); err != nil {
					return err
				}
			}
		}

		return nil
	}
}
