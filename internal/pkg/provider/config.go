package provider

import (
	"errors"

	"github.com/pixora-app/pixora/internal/pkg/env"
)

// Config holds the image provider credentials and endpoints
type Config struct {
	PublicKey      string
	PrivateKey     string
	UploadEndpoint string
	APIEndpoint    string
	Folder         string
}

// LoadConfig loads provider configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		PublicKey:      env.GetEnv("PROVIDER_PUBLIC_KEY", ""),
		PrivateKey:     env.GetEnv("PROVIDER_PRIVATE_KEY", ""),
		UploadEndpoint: env.GetEnv("PROVIDER_UPLOAD_ENDPOINT", "https://upload.imagekit.io/api/v1/files/upload"),
		APIEndpoint:    env.GetEnv("PROVIDER_API_ENDPOINT", "https://api.imagekit.io/v1"),
		Folder:         env.GetEnv("PROVIDER_UPLOAD_FOLDER", "pixora-uploads"),
	}

	if config.PublicKey == "" {
		return nil, errors.New("PROVIDER_PUBLIC_KEY is required")
	}
	if config.PrivateKey == "" {
		return nil, errors.New("PROVIDER_PRIVATE_KEY is required")
	}

	return config, nil
}
