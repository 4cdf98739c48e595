package main

// imagehound downloads images from Yandex Images, either by text query or by
// reverse-searching a local image. Results land in a per-run folder as
// image_NNN.<ext> / similar_NNN.<ext>.
//
// Package structure:
// - models/     : core data types (requests, candidates, outcomes, summary)
// - config/     : CLI option resolution and folder handling
// - logging/    : rotating run log
// - browser/    : chromedp search session (text + reverse entry points)
// - selector/   : cascading extraction strategies over the results page
// - collector/  : poll/scroll loop accumulating unique candidate URLs
// - downloader/ : sequential image fetching and numbered file output
// - debugcap/   : failure screenshot + page snapshot
// - scraper/    : run orchestration

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imagehound/config"
	"imagehound/logging"
	"imagehound/scraper"
)

func main() {
	var opts config.Options
	var noHeadless bool

	flag.StringVar(&opts.SearchTerm, "search", "", "search term for image search")
	flag.StringVar(&opts.ReverseImage, "reverse", "", "path to image file for reverse image search")
	flag.IntVar(&opts.NumImages, "num", 10, "number of images to download")
	flag.StringVar(&opts.OutputFolder, "output", "", "output folder name (default: search term or reverse_search_<name>)")
	flag.BoolVar(&noHeadless, "no-headless", false, "show the browser window")
	flag.BoolVar(&opts.Debug, "debug", false, "save a screenshot and page source on fatal errors")
	flag.BoolVar(&opts.ConvertJPEG, "jpeg", false, "normalize all downloaded images to JPEG")
	flag.Parse()

	opts.Headless = !noHeadless

	request, cfg, err := config.Resolve(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imagehound: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if err := logging.Init(cfg.DebugDir); err != nil {
		// log to stderr only; not worth failing the run over
		log.Printf("[Main] Log file unavailable: %v", err)
	}
	defer logging.Close()

	// Ctrl-C aborts at the next suspension point; files already written stay.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := scraper.Run(ctx, request, cfg)
	if err != nil {
		log.Printf("[Main] Run failed: %v", err)
		if summary != nil {
			log.Printf("[Main] Before failure: %s", summary)
		}
		os.Exit(1)
	}

	log.Printf("[Main] Downloaded %d/%d images to %s/ (%d found, %d failed)",
		summary.Downloaded, summary.Requested, cfg.OutputFolder, summary.Found, summary.Failed)
}
