package downloader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"imagehound/models"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultRateInterval = 500 * time.Millisecond
)

// Options configures a Downloader. Zero values fall back to the defaults.
type Options struct {
	FetchTimeout time.Duration
	RateInterval time.Duration
	ConvertJPEG  bool // re-encode everything as quality-90 JPEG
}

// Downloader fetches a candidate set sequentially and writes numbered image
// files. One candidate failing never aborts the batch; every candidate gets
// an outcome either way.
type Downloader struct {
	client      *ImageClient
	rate        time.Duration
	convertJPEG bool
}

// New creates a Downloader.
func New(opts Options) *Downloader {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.RateInterval <= 0 {
		opts.RateInterval = defaultRateInterval
	}
	return &Downloader{
		client:      NewImageClient(opts.FetchTimeout),
		rate:        opts.RateInterval,
		convertJPEG: opts.ConvertJPEG,
	}
}

// DownloadAll processes candidates strictly in sequence-index order so the
// numeric file suffix always matches the discovery index, whatever succeeds
// or fails along the way. Returns the per-candidate outcomes; the error is
// non-nil only when the output folder cannot be created or ctx is cancelled,
// and already-produced outcomes are returned alongside it.
func (d *Downloader) DownloadAll(ctx context.Context, candidates *models.CandidateSet, outputFolder, namePrefix string) ([]models.DownloadOutcome, error) {
	if err := os.MkdirAll(outputFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", outputFolder, err)
	}

	items := candidates.Items()
	outcomes := make([]models.DownloadOutcome, 0, len(items))

	limiter := NewRateLimiter(d.rate)
	defer limiter.Stop()

	for _, candidate := range items {
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}

		limiter.Wait()

		log.Printf("[Downloader] %d/%d: %s", candidate.SequenceIndex, len(items), truncateURL(candidate.URL))
		outcomes = append(outcomes, d.downloadOne(candidate, outputFolder, namePrefix))
	}

	return outcomes, nil
}

func (d *Downloader) downloadOne(candidate models.Candidate, outputFolder, namePrefix string) models.DownloadOutcome {
	body, contentType, err := d.client.Fetch(candidate.URL)
	if err != nil {
		return failure(candidate, err.Error())
	}

	if !IsImageData(body, contentType) {
		return failure(candidate, "response body is not image data")
	}

	var savedPath string
	if d.convertJPEG {
		savedPath = filepath.Join(outputFolder, fmt.Sprintf("%s_%03d.jpg", namePrefix, candidate.SequenceIndex))
		if err := ConvertImageToJPEG(body, savedPath); err != nil {
			return failure(candidate, "jpeg conversion failed: "+err.Error())
		}
	} else {
		ext := ExtensionFor(contentType, candidate.URL)
		savedPath = filepath.Join(outputFolder, fmt.Sprintf("%s_%03d.%s", namePrefix, candidate.SequenceIndex, ext))
		if err := os.WriteFile(savedPath, body, 0644); err != nil {
			return failure(candidate, "write failed: "+err.Error())
		}
	}

	return models.DownloadOutcome{
		Candidate: candidate,
		Status:    models.DownloadSuccess,
		SavedPath: savedPath,
	}
}

func failure(candidate models.Candidate, reason string) models.DownloadOutcome {
	log.Printf("[Downloader] ✗ %d failed: %s", candidate.SequenceIndex, reason)
	return models.DownloadOutcome{
		Candidate:     candidate,
		Status:        models.DownloadFailed,
		FailureReason: reason,
	}
}

func truncateURL(u string) string {
	if len(u) > 60 {
		return u[:60] + "..."
	}
	return u
}
