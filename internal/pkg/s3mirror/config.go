package s3mirror

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/pixora-app/pixora/internal/pkg/env"
)

// Config holds S3 mirror configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads S3 mirror configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("S3_MIRROR_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when S3 mirroring is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when S3 mirroring is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when S3 mirroring is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if S3 mirroring is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// GetObjectKey generates a standardized S3 object key for a mirrored media
// file. Format: media/YYYY/MM/UUID.ext
func (c *Config) GetObjectKey(mediaUUID, sourceURL string, at time.Time) string {
	if i := strings.IndexByte(sourceURL, '?'); i >= 0 {
		sourceURL = sourceURL[:i]
	}
	ext := path.Ext(sourceURL)
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("media/%04d/%02d/%s%s", at.Year(), int(at.Month()), mediaUUID, ext)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}

// GetBucketName returns the bucket name as configured (no automatic prefixing)
func (c *Config) GetBucketName() string {
	return c.BucketName
}
