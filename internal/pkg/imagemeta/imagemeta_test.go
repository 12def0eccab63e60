package imagemeta

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixora-app/pixora/app/models"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestProbeDimensions(t *testing.T) {
	raw := encodePNG(t, 320, 200)

	w, h, err := ProbeDimensions(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
}

func TestProbeDimensionsRejectsGarbage(t *testing.T) {
	_, _, err := ProbeDimensions(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestApplyExifWithoutExifData(t *testing.T) {
	media := &models.Media{UUID: "m-1"}

	// PNGs carry no EXIF; the media record must stay untouched.
	ApplyExif(media, encodePNG(t, 10, 10))

	assert.Nil(t, media.CameraModel)
	assert.Nil(t, media.TakenAt)
}
