package utils

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f, err := DownloadImage(context.Background(), srv.URL+"/sample.png")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	_, err = png.Decode(f)
	assert.NoError(t, err, "the temporary file should be rewound")
}

func TestUtils_ShouldRejectNonImageDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>not found</body></html>"))
	}))
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldRejectFailedDownload(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidUrl("https://github.com/esimov/carve/"))
	assert.False(t, IsValidUrl("images/sample.png"))
	assert.False(t, IsValidUrl("-"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "sample.png")
	require.NoError(t, os.WriteFile(img, pngBytes(t), 0o644))

	ftype, err := DetectContentType(img)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ftype)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain text"), 0o644))
	ftype, err = DetectContentType(txt)
	require.NoError(t, err)
	assert.NotContains(t, ftype, "image")

	_, err = DetectContentType(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
