package downloader

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/andybalholm/brotli"
)

// DecompressBody inflates gzip or Brotli response bodies. Gzip is recognized
// by its magic bytes, Brotli only by the Content-Encoding header since it has
// no magic. Uncompressed bodies come back unchanged with false.
func DecompressBody(body []byte, contentEncoding string) ([]byte, bool, error) {
	if len(body) == 0 {
		return body, false, nil
	}

	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		return decompressed, true, nil
	}

	if contentEncoding == "br" {
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			// not Brotli after all, or corrupted; pass through untouched
			return body, false, nil
		}
		return decompressed, true, nil
	}

	return body, false, nil
}
