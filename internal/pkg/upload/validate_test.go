package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHead = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
var jpegHead = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}

func TestValidateImageBySniff(t *testing.T) {
	mime, err := ValidateImageBySniff("photo.png", pngHead)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	mime, err = ValidateImageBySniff("photo.JPG", jpegHead)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}

func TestValidateImageBySniffRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
	}{
		{"disallowed extension", "photo.gif", pngHead},
		{"no extension", "photo", pngHead},
		{"html masquerading as png", "photo.png", []byte("<!DOCTYPE html><html>")},
		{"svg masquerading as jpg", "photo.jpg", []byte(`<?xml version="1.0"?><svg></svg>`)},
		{"plain text", "notes.png", []byte("just some text content here")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateImageBySniff(tt.filename, tt.head)
			assert.Error(t, err)
		})
	}
}
