package downloader

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAdvertisesOnlyDecodableEncodings(t *testing.T) {
	var acceptEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acceptEncoding = r.Header.Get("Accept-Encoding")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpegBytes)
	}))
	defer srv.Close()

	client := NewImageClient(5 * time.Second)
	body, contentType, err := client.Fetch(srv.URL + "/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, body)
	assert.Equal(t, "image/jpeg", contentType)

	assert.Contains(t, acceptEncoding, "gzip")
	assert.Contains(t, acceptEncoding, "br")
	assert.NotContains(t, acceptEncoding, "deflate", "deflate responses cannot be decompressed")
}
