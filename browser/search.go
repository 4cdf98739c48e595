package browser

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	imagesHomeURL   = "https://yandex.com/images/"
	imagesSearchURL = "https://yandex.com/images/search"

	// resultsRootSelector marks a rendered results page. Yandex ships both the
	// legacy serp markup and the newer SimpleImage grid.
	resultsRootSelector = ".serp-item, .SimpleImage"

	// cameraButtonSelector opens the search-by-image panel. Several variants
	// because the class names churn.
	cameraButtonSelector = `.CBIr3, .search-by-image__button, [aria-label*="Search by image"]`
	fileInputSelector    = `input[type="file"]`

	// uploadSettle gives Yandex time to process the upload before the results
	// root is waited on.
	uploadSettle = 3 * time.Second

	reverseResultsTimeout = 15 * time.Second
)

// PrepareTextSearch submits a text query and waits until the results page is
// rendered. On success the session's page is ready for collection.
func (s *Session) PrepareTextSearch(term string) error {
	searchURL := imagesSearchURL + "?text=" + url.QueryEscape(term)
	log.Printf("[Browser] Searching Yandex Images for: %s", term)

	if err := s.Navigate(searchURL, resultsRootSelector); err != nil {
		return &NavigationError{URL: searchURL, Err: err}
	}

	log.Printf("[Browser] ✓ Results page ready")
	return nil
}

// PrepareReverseSearch uploads a local image and waits for the similar-images
// results page. The input file is checked before any browser interaction.
func (s *Session) PrepareReverseSearch(imagePath string) error {
	absPath, err := VerifyImageFile(imagePath)
	if err != nil {
		return err
	}

	log.Printf("[Browser] Reverse image search for: %s", absPath)

	if err := s.Navigate(imagesHomeURL, ""); err != nil {
		return &NavigationError{URL: imagesHomeURL, Err: err}
	}

	if err := s.Click(cameraButtonSelector); err != nil {
		return &NavigationError{URL: imagesHomeURL, Err: err}
	}

	if err := s.UploadFile(fileInputSelector, absPath); err != nil {
		return &NavigationError{URL: imagesHomeURL, Err: err}
	}

	// Yandex navigates to the results page on its own after the upload.
	if err := s.settle(uploadSettle); err != nil {
		return &NavigationError{URL: imagesHomeURL, Err: err}
	}

	if err := s.WaitVisible(resultsRootSelector, reverseResultsTimeout); err != nil {
		return &NavigationError{URL: imagesHomeURL, Err: err}
	}

	log.Printf("[Browser] ✓ Similar-images page ready")
	return nil
}

// VerifyImageFile verifies path is an existing readable regular file and
// returns its absolute form for the file input.
func VerifyImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &FileNotFoundError{Path: path}
	}

	file, err := os.Open(path)
	if err != nil {
		return "", &FileNotFoundError{Path: path}
	}
	file.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", &FileNotFoundError{Path: path}
	}
	return absPath, nil
}
