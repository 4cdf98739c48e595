package downloader

import (
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly"
)

const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ImageClient fetches single images over plain HTTP with a browser-like
// header set. It is independent of the scraping browser session: no shared
// cookies or JS context. Not safe for concurrent use; the downloader is
// sequential by design.
type ImageClient struct {
	collector *colly.Collector

	// per-fetch state, reset on every Fetch
	body        []byte
	contentType string
	statusCode  int
}

// NewImageClient creates an image fetch client with the given request timeout.
func NewImageClient(timeout time.Duration) *ImageClient {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)
	c.UserAgent = downloadUserAgent

	client := &ImageClient{collector: c}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
		// only encodings DecompressBody can actually undo
		r.Headers.Set("Accept-Encoding", "gzip, br")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Connection", "keep-alive")
		r.Headers.Set("Sec-Fetch-Dest", "image")
		r.Headers.Set("Sec-Fetch-Mode", "no-cors")
		r.Headers.Set("Sec-Fetch-Site", "cross-site")
	})

	c.OnResponse(func(r *colly.Response) {
		body := r.Body
		decompressed, wasCompressed, err := DecompressBody(body, r.Headers.Get("Content-Encoding"))
		if err != nil {
			log.Printf("[ImageClient] Decompression failed, using raw body: %v", err)
		} else if wasCompressed {
			body = decompressed
		}

		client.body = body
		client.contentType = r.Headers.Get("Content-Type")
		client.statusCode = r.StatusCode
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			client.statusCode = r.StatusCode
		}
	})

	return client
}

// Fetch retrieves one image and returns its bytes and content type.
// Non-success HTTP statuses and transport errors both come back as errors
// with a human-readable reason.
func (c *ImageClient) Fetch(imageURL string) ([]byte, string, error) {
	c.body, c.contentType, c.statusCode = nil, "", 0

	if err := c.collector.Visit(imageURL); err != nil {
		if c.statusCode != 0 {
			return nil, "", fmt.Errorf("http status %d: %w", c.statusCode, err)
		}
		return nil, "", err
	}

	return c.body, c.contentType, nil
}
