package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"imagehound/models"
)

// Options carries the raw CLI values before they are resolved into a RunConfig.
type Options struct {
	SearchTerm   string
	ReverseImage string
	NumImages    int
	OutputFolder string
	Headless     bool
	Debug        bool
	ConvertJPEG  bool
}

// Resolve validates the raw options and produces the request/config pair for
// one run. The output folder defaults to the search term for text searches and
// to reverse_search_<name> for reverse searches, matching the saved-file
// prefixes image_ and similar_.
func Resolve(opts Options) (models.SearchRequest, *models.RunConfig, error) {
	if (opts.SearchTerm == "") == (opts.ReverseImage == "") {
		return models.SearchRequest{}, nil, fmt.Errorf("exactly one of -search or -reverse is required")
	}
	if opts.NumImages < 0 {
		return models.SearchRequest{}, nil, fmt.Errorf("image count must not be negative, got %d", opts.NumImages)
	}

	var request models.SearchRequest
	folder := opts.OutputFolder

	if opts.SearchTerm != "" {
		request = models.SearchRequest{Kind: models.TextSearch, Term: opts.SearchTerm}
		if folder == "" {
			folder = opts.SearchTerm
		}
	} else {
		request = models.SearchRequest{Kind: models.ReverseSearch, ImagePath: opts.ReverseImage}
		if folder == "" {
			base := filepath.Base(opts.ReverseImage)
			folder = "reverse_search_" + strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	cfg := &models.RunConfig{
		OutputFolder:   SanitizeFolderName(folder),
		RequestedCount: opts.NumImages,
		Headless:       opts.Headless,
		Debug:          opts.Debug,
		DebugDir:       DebugDir(),
		ConvertJPEG:    opts.ConvertJPEG,
	}

	return request, cfg, nil
}

// unsafeFolderChars are rejected by at least one common filesystem.
var unsafeFolderChars = regexp.MustCompile(`[<>:"/\\|?*]|[\x00-\x1f]`)

// SanitizeFolderName strips characters that are unsafe in directory names and
// nothing else: spaces and underscores survive, so "cute cats" and
// "reverse_search_dog" come out as typed.
func SanitizeFolderName(name string) string {
	cleaned := unsafeFolderChars.ReplaceAllString(name, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "" {
		return "images"
	}
	return cleaned
}

// DebugDir returns the directory used for the run log and debug artifacts,
// creating it when missing.
func DebugDir() string {
	dir := filepath.Join(".", "debug")
	if err := VerifyDirectory(dir); err != nil {
		log.Printf("[Config] Falling back to working directory for debug output: %v", err)
		return "."
	}
	return dir
}

// VerifyDirectory ensures dir exists, creating it when absent. Existing
// directories and their contents are left untouched.
func VerifyDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, mkErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", dir)
	}
	return nil
}
