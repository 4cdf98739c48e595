package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	maxLogSize  = 5 * 1024 * 1024 // rotate past 5MB
	maxLogFiles = 3               // numbered backups kept after rotation
	logFileName = "imagehound.log"
)

var logFile *os.File

// Init routes the standard logger to both stderr and a size-capped log file
// under dir. Oversized logs are rotated to numbered backups before reuse.
func Init(dir string) error {
	logPath := filepath.Join(dir, logFileName)

	if info, err := os.Stat(logPath); err == nil && info.Size() >= maxLogSize {
		if err := rotateLogs(logPath); err != nil {
			return fmt.Errorf("failed to rotate logs: %w", err)
		}
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = file
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return nil
}

// Close detaches the log file and returns the standard logger to stderr only.
func Close() {
	if logFile != nil {
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

// rotateLogs shifts existing backups up by one and moves the current log to
// the .1 slot, discarding the oldest backup.
func rotateLogs(basePath string) error {
	os.Remove(fmt.Sprintf("%s.%d", basePath, maxLogFiles))

	for i := maxLogFiles - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		newPath := fmt.Sprintf("%s.%d", basePath, i+1)
		os.Rename(oldPath, newPath) // missing backups are fine
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
