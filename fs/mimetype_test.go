package fs

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeTypeFromName(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"style.css", "text/css; charset=utf-8"},
		{"image.png", "image/png"},
		{"noext", "application/octet-stream"},
		{"file.unknownext", "application/octet-stream"},
	} {
		got := MimeTypeFromName(test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}

func TestMimeTypeFromContent(t *testing.T) {
	got, err := MimeTypeFromContent(strings.NewReader("<!DOCTYPE html><html><body>hi</body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", got)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	got, err = MimeTypeFromContent(bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", got)
}

func TestMimeType(t *testing.T) {
	opened := false
	open := func() (io.ReadCloser, error) {
		opened = true
		return io.NopCloser(strings.NewReader("<html><body>hi</body></html>")), nil
	}

	// extension wins without opening
	assert.Equal(t, "image/png", MimeType("a.png", open))
	assert.False(t, opened)

	// no extension sniffs
	assert.Equal(t, "text/html; charset=utf-8", MimeType("LICENSE", open))
	assert.True(t, opened)

	// failing open falls back
	failing := func() (io.ReadCloser, error) { return nil, errors.New("potato") }
	assert.Equal(t, "application/octet-stream", MimeType("LICENSE", failing))

	// nil open falls back
	assert.Equal(t, "application/octet-stream", MimeType("LICENSE", nil))
}
