package scraper

import (
	"context"
	"fmt"
	"log"

	"imagehound/browser"
	"imagehound/collector"
	"imagehound/debugcap"
	"imagehound/downloader"
	"imagehound/models"
	"imagehound/selector"
)

// Run executes one full scraping run: drive the search session, collect
// candidate URLs, download them, and summarize. Fatal errors (navigation,
// missing input file, collection timeout) abort the run; per-image download
// failures only show up in the summary.
func Run(ctx context.Context, req models.SearchRequest, cfg *models.RunConfig) (*models.RunSummary, error) {
	// Reverse-search input problems surface before any browser work.
	if req.Kind == models.ReverseSearch {
		if _, err := browser.VerifyImageFile(req.ImagePath); err != nil {
			return nil, err
		}
	}

	session, err := browser.NewSession(ctx, cfg.Headless)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Close()

	switch req.Kind {
	case models.TextSearch:
		err = session.PrepareTextSearch(req.Term)
	case models.ReverseSearch:
		err = session.PrepareReverseSearch(req.ImagePath)
	default:
		return nil, fmt.Errorf("unknown search kind: %s", req.Kind)
	}
	if err != nil {
		captureOnFailure(session, cfg)
		return nil, err
	}

	dl := downloader.New(downloader.Options{ConvertJPEG: cfg.ConvertJPEG})

	summary, err := execute(ctx, session, collector.New(), dl, cfg.RequestedCount, cfg.OutputFolder, req.Prefix())
	if err != nil {
		if _, isTimeout := collector.IsTimeout(err); isTimeout {
			captureOnFailure(session, cfg)
		}
		return summary, err
	}
	return summary, nil
}

// execute runs collection and download against an already prepared results
// page. Split out from Run so the pipeline is exercisable without a browser.
func execute(ctx context.Context, session collector.Session, col *collector.Collector, dl *downloader.Downloader, requested int, outputFolder, prefix string) (*models.RunSummary, error) {
	log.Printf("[Scraper] Extracting image URLs (want %d)...", requested)

	set, err := col.Collect(ctx, session, selector.NewResolver(), requested)
	if err != nil {
		return nil, err
	}

	if set.Len() < requested {
		log.Printf("[Scraper] Partial result: found %d of %d requested", set.Len(), requested)
	}

	log.Printf("[Scraper] Found %d images, starting download...", set.Len())

	outcomes, err := dl.DownloadAll(ctx, set, outputFolder, prefix)
	summary := models.Summarize(requested, set.Len(), outcomes)
	if err != nil {
		// interrupted mid-batch; files written so far stay on disk
		return summary, err
	}

	log.Printf("[Scraper] ✓ Run complete: %s", summary)
	return summary, nil
}

// captureOnFailure persists debug artifacts when debug mode is on.
func captureOnFailure(session *browser.Session, cfg *models.RunConfig) {
	if !cfg.Debug {
		return
	}
	debugcap.Capture(session, cfg.DebugDir)
}
