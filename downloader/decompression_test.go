package downloader

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressBodyGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(jpegBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, wasCompressed, err := DecompressBody(buf.Bytes(), "gzip")
	require.NoError(t, err)
	assert.True(t, wasCompressed)
	assert.Equal(t, jpegBytes, out)
}

func TestDecompressBodyBrotli(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(jpegBytes)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, wasCompressed, err := DecompressBody(buf.Bytes(), "br")
	require.NoError(t, err)
	assert.True(t, wasCompressed)
	assert.Equal(t, jpegBytes, out)
}

func TestDecompressBodyPassesThroughPlainImages(t *testing.T) {
	out, wasCompressed, err := DecompressBody(jpegBytes, "")
	require.NoError(t, err)
	assert.False(t, wasCompressed)
	assert.Equal(t, jpegBytes, out)

	out, wasCompressed, err = DecompressBody(nil, "")
	require.NoError(t, err)
	assert.False(t, wasCompressed)
	assert.Empty(t, out)
}
