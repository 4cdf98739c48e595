// Package debugcap persists failure artifacts: a screenshot and a page-source
// snapshot, so selector drift and blocking pages can be diagnosed after the
// fact. Capture is best-effort and never escalates its own errors.
package debugcap

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Snapshotter is the slice of the browser session needed for capture.
type Snapshotter interface {
	Screenshot() ([]byte, error)
	PageHTML() (string, error)
}

// Capture writes failure_<timestamp>.png and failure_<timestamp>.html into
// dir and returns the paths of whatever it managed to write.
func Capture(session Snapshotter, dir string) []string {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[Debug] Cannot create debug dir %s: %v", dir, err)
		return nil
	}

	stamp := time.Now().Format("20060102_150405")
	var saved []string

	if shot, err := session.Screenshot(); err != nil {
		log.Printf("[Debug] Screenshot failed: %v", err)
	} else {
		path := filepath.Join(dir, "failure_"+stamp+".png")
		if err := os.WriteFile(path, shot, 0644); err != nil {
			log.Printf("[Debug] Failed to save screenshot: %v", err)
		} else {
			log.Printf("[Debug] Saved screenshot: %s", path)
			saved = append(saved, path)
		}
	}

	if html, err := session.PageHTML(); err != nil {
		log.Printf("[Debug] Page snapshot failed: %v", err)
	} else {
		path := filepath.Join(dir, "failure_"+stamp+".html")
		if err := os.WriteFile(path, []byte(html), 0644); err != nil {
			log.Printf("[Debug] Failed to save page snapshot: %v", err)
		} else {
			log.Printf("[Debug] Saved page snapshot: %s", path)
			saved = append(saved, path)
		}
	}

	return saved
}
