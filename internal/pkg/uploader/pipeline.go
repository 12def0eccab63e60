package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/pixora-app/pixora/app/models"
	"github.com/pixora-app/pixora/app/repository"
	"github.com/pixora-app/pixora/internal/pkg/credits"
	"github.com/pixora-app/pixora/internal/pkg/entitlements"
	"github.com/pixora-app/pixora/internal/pkg/imagemeta"
	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/upload"
)

var (
	// ErrFileTooLarge rejects uploads above the plan's per-file ceiling
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	// ErrEmptyFile rejects zero-byte uploads before any credit is touched
	ErrEmptyFile = errors.New("empty file")
)

// uploadAuthTTL bounds how long an issued auth triple stays valid
const uploadAuthTTL = 30 * time.Minute

// Mirror enqueues a stored media record for asynchronous replication
type Mirror interface {
	EnqueueMirror(media *models.Media) error
}

// Request carries one upload through the pipeline
type Request struct {
	UserID     uint
	Plan       entitlements.Plan
	FileName   string
	Data       []byte
	OnProgress provider.ProgressFunc
}

// Pipeline runs the full upload flow: credit check, provider upload,
// metadata extraction and the transactional media insert. The credit is
// checked up front for a fast rejection but only spent together with the
// media row, so a failed provider upload never costs the user anything.
type Pipeline struct {
	ledger      *credits.Ledger
	client      *provider.Client
	providerCfg *provider.Config
	media       repository.MediaRepository
	mirror      Mirror
}

// NewPipeline wires the upload pipeline. mirror may be nil when no
// replication target is configured.
func NewPipeline(ledger *credits.Ledger, client *provider.Client, cfg *provider.Config, media repository.MediaRepository, mirror Mirror) *Pipeline {
	return &Pipeline{
		ledger:      ledger,
		client:      client,
		providerCfg: cfg,
		media:       media,
		mirror:      mirror,
	}
}

// Process uploads one file and returns the stored media record
func (p *Pipeline) Process(ctx context.Context, req Request) (*models.Media, error) {
	size := int64(len(req.Data))
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > entitlements.MaxUploadBytes(req.Plan) {
		return nil, ErrFileTooLarge
	}

	head := req.Data
	if len(head) > 512 {
		head = head[:512]
	}
	if _, err := upload.ValidateImageBySniff(req.FileName, head); err != nil {
		return nil, err
	}

	ok, err := p.ledger.CheckUsage(req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, credits.ErrInsufficientCredits
	}

	auth, err := provider.NewUploadAuthParams(p.providerCfg, uploadAuthTTL)
	if err != nil {
		return nil, fmt.Errorf("error issuing upload auth: %w", err)
	}

	result, err := p.client.Upload(ctx, auth, req.FileName, bytes.NewReader(req.Data), size, req.OnProgress)
	if err != nil {
		return nil, err
	}

	width, height := result.Width, result.Height
	if width == 0 || height == 0 {
		// Provider omitted dimensions; decode the header locally.
		if w, h, err := imagemeta.ProbeDimensions(bytes.NewReader(req.Data)); err == nil {
			width, height = w, h
		} else {
			fiberlog.Warn(fmt.Sprintf("Could not probe dimensions for %s: %v", req.FileName, err))
		}
	}

	media := &models.Media{
		UserID:      req.UserID,
		URL:         result.URL,
		Width:       width,
		Height:      height,
		Size:        size,
		ProviderKey: result.FileID,
	}
	imagemeta.ApplyExif(media, req.Data)

	if err := p.media.CreateWithCredit(media); err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return nil, credits.ErrInsufficientCredits
		}
		return nil, fmt.Errorf("error saving media: %w", err)
	}

	if p.mirror != nil {
		if err := p.mirror.EnqueueMirror(media); err != nil {
			// Replication is best effort; the upload itself succeeded.
			fiberlog.Warn(fmt.Sprintf("Could not enqueue mirror job for media %s: %v", media.UUID, err))
		}
	}

	return media, nil
}
