package imagemeta

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/pixora-app/pixora/app/models"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// ProbeDimensions decodes the image header and returns its pixel dimensions.
// Used as a local fallback when the provider response omits width/height.
func ProbeDimensions(r io.Reader) (width, height int, err error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return 0, 0, fmt.Errorf("error decoding image: %w", err)
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// ApplyExif enriches a media record with EXIF fields from the raw file bytes.
// Missing or unparsable EXIF data is not an error; most PNG uploads and many
// screenshots carry none.
func ApplyExif(media *models.Media, raw []byte) {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		fiberlog.Info(fmt.Sprintf("No EXIF data found for media %s: %v", media.UUID, err))
		return
	}

	if m, err := x.Get(exif.Model); err == nil {
		s := strings.TrimSpace(strings.Trim(m.String(), `"`))
		if s != "" {
			media.CameraModel = &s
		}
	}

	if dt, err := x.DateTime(); err == nil {
		media.TakenAt = &dt
	}
}
