package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, cfg *Config) *UploadAuthParams {
	t.Helper()
	params, err := NewUploadAuthParams(cfg, time.Minute)
	require.NoError(t, err)
	return params
}

func TestUploadSuccess(t *testing.T) {
	var gotToken, gotFileName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotToken = r.FormValue("token")
		gotFileName = r.FormValue("fileName")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fileId":"f-123","url":"https://ik.example.com/pixora/cat.png","name":"cat.png","width":640,"height":480,"size":1234,"fileType":"image"}`))
	}))
	defer srv.Close()

	cfg := &Config{PublicKey: "pk", PrivateKey: "sk", UploadEndpoint: srv.URL, Folder: "pixora-uploads"}
	client := NewClient(cfg)
	auth := newTestAuth(t, cfg)

	var progress []int
	result, err := client.Upload(context.Background(), auth, "cat.png", strings.NewReader("fake image bytes"), 16, func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, "f-123", result.FileID)
	assert.Equal(t, "https://ik.example.com/pixora/cat.png", result.URL)
	assert.Equal(t, 640, result.Width)
	assert.Equal(t, 480, result.Height)
	assert.Equal(t, auth.Token, gotToken)
	assert.Equal(t, "cat.png", gotFileName)

	// progress is monotonic and ends at 100
	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestUploadClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, ErrInvalidRequest},
		{"unauthorized", http.StatusUnauthorized, ErrInvalidRequest},
		{"server error", http.StatusInternalServerError, ErrServer},
		{"bad gateway", http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			cfg := &Config{PublicKey: "pk", PrivateKey: "sk", UploadEndpoint: srv.URL}
			client := NewClient(cfg)

			_, err := client.Upload(context.Background(), newTestAuth(t, cfg), "cat.png", strings.NewReader("x"), 1, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUploadNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	cfg := &Config{PublicKey: "pk", PrivateKey: "sk", UploadEndpoint: srv.URL}
	client := NewClient(cfg)

	_, err := client.Upload(context.Background(), newTestAuth(t, cfg), "cat.png", strings.NewReader("x"), 1, nil)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestUploadRejectsMissingInput(t *testing.T) {
	cfg := &Config{PublicKey: "pk", PrivateKey: "sk", UploadEndpoint: "http://unused"}
	client := NewClient(cfg)

	_, err := client.Upload(context.Background(), nil, "cat.png", strings.NewReader("x"), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = client.Upload(context.Background(), newTestAuth(t, cfg), "", strings.NewReader("x"), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMonotonicClampsRegressions(t *testing.T) {
	var seen []int
	report := monotonic(func(p int) { seen = append(seen, p) })

	for _, p := range []int{10, 5, 20, 20, 15, 120} {
		report(p)
	}

	assert.Equal(t, []int{10, 20, 100}, seen)
}
