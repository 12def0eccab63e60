package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixora-app/pixora/internal/pkg/credits"
	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/uploader"
)

func TestHandleGetUploadAuth(t *testing.T) {
	providerCfg = &provider.Config{
		PublicKey:  "public_test",
		PrivateKey: "private_test",
	}

	app := fiber.New()
	app.Get("/api/v1/upload/auth", HandleGetUploadAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/upload/auth", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var auth provider.UploadAuthParams
	require.NoError(t, json.Unmarshal(body, &auth))
	assert.NotEmpty(t, auth.Token)
	assert.NotEmpty(t, auth.Signature)
	assert.Equal(t, "public_test", auth.PublicKey)
	require.NoError(t, provider.VerifyUploadAuth(&auth, "private_test"))
}

func TestHandleAPIUploadMissingFile(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v1/upload", HandleAPIUpload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRespondUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no credits", credits.ErrInsufficientCredits, fiber.StatusPaymentRequired, "insufficient_credits"},
		{"unknown user", credits.ErrUserNotFound, fiber.StatusUnauthorized, "unauthorized"},
		{"too large", uploader.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "file_too_large"},
		{"empty", uploader.ErrEmptyFile, fiber.StatusBadRequest, "bad_request"},
		{"provider rejected", provider.ErrInvalidRequest, fiber.StatusBadGateway, "provider_rejected"},
		{"provider down", provider.ErrServer, fiber.StatusBadGateway, "provider_unavailable"},
		{"network", provider.ErrNetwork, fiber.StatusBadGateway, "provider_unavailable"},
		{"validation", errors.New("only JPEG and PNG images are supported"), fiber.StatusUnprocessableEntity, "invalid_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/upload", func(c *fiber.Ctx) error {
				return respondUploadError(c, tt.err)
			})

			req := httptest.NewRequest(http.MethodPost, "/upload", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, readErr := io.ReadAll(resp.Body)
			require.NoError(t, readErr)
			assert.Contains(t, string(body), tt.wantCode)
		})
	}
}
