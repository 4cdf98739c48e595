package browser

import (
	"errors"
	"fmt"
)

// NavigationError is returned when the results page never reached a usable
// state: the navigation itself failed or the results root never rendered
// within the bounded wait. It is fatal for the run.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("results page never rendered for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// IsNavigationError checks if an error is a NavigationError.
func IsNavigationError(err error) (*NavigationError, bool) {
	var navErr *NavigationError
	if errors.As(err, &navErr) {
		return navErr, true
	}
	return nil, false
}

// FileNotFoundError is returned when the reverse-search input image does not
// resolve to a readable file. Surfaced before any browser interaction.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("image file not found or not readable: %s", e.Path)
}

// IsFileNotFound checks if an error is a FileNotFoundError.
func IsFileNotFound(err error) (*FileNotFoundError, bool) {
	var fnfErr *FileNotFoundError
	if errors.As(err, &fnfErr) {
		return fnfErr, true
	}
	return nil, false
}
