package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrInvalidRequest covers provider rejections of the request itself (4xx)
	ErrInvalidRequest = errors.New("invalid upload request")
	// ErrServer covers provider-side failures (5xx)
	ErrServer = errors.New("provider server error")
	// ErrNetwork covers transport failures before a response was received
	ErrNetwork = errors.New("network error during upload")
)

// UploadResult is the provider's description of a stored file
type UploadResult struct {
	FileID   string `json:"fileId"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	FileType string `json:"fileType"`
}

// ProgressFunc receives monotonic upload progress in percent (0-100)
type ProgressFunc func(percent int)

// Client talks to the external image provider's upload API
type Client struct {
	cfg        *Config
	httpClient *http.Client
}

// NewClient creates a provider client with a sane request timeout
func NewClient(cfg *Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Upload streams a file to the provider using a previously issued auth triple
// and reports progress while the body is consumed. Progress never regresses;
// late or duplicate byte counts are clamped to the highest value seen.
func (c *Client) Upload(ctx context.Context, auth *UploadAuthParams, fileName string, file io.Reader, size int64, onProgress ProgressFunc) (*UploadResult, error) {
	if auth == nil {
		return nil, fmt.Errorf("%w: missing auth params", ErrInvalidRequest)
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: missing file name", ErrInvalidRequest)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"fileName":  fileName,
		"folder":    c.cfg.Folder,
		"token":     auth.Token,
		"expire":    strconv.FormatInt(auth.Expire, 10),
		"signature": auth.Signature,
		"publicKey": auth.PublicKey,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	total := int64(body.Len())
	reader := io.Reader(body)
	if onProgress != nil && total > 0 {
		reader = &progressReader{r: body, total: total, report: monotonic(onProgress)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadEndpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidRequest, resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrServer, err)
	}
	if result.Size == 0 {
		result.Size = size
	}

	if onProgress != nil {
		onProgress(100)
	}
	return &result, nil
}

// DeleteFile removes a stored file on the provider side. The management API
// authenticates with the private key as HTTP basic auth user.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("%w: missing file id", ErrInvalidRequest)
	}

	url := fmt.Sprintf("%s/files/%s", c.cfg.APIEndpoint, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.SetBasicAuth(c.cfg.PrivateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		// Already gone; deletion is idempotent.
		return nil
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrInvalidRequest, resp.StatusCode)
	}
	return nil
}

// progressReader reports percent consumed of a fixed-size body
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.report(int(p.read * 100 / p.total))
	}
	return n, err
}

// monotonic wraps a progress callback so reported percentages never regress
func monotonic(fn ProgressFunc) ProgressFunc {
	best := -1
	return func(percent int) {
		if percent > 100 {
			percent = 100
		}
		if percent > best {
			best = percent
			fn(percent)
		}
	}
}
