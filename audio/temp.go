package audio

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const tempDirName = "pitch_perfect_audio"

// TempDir is the process-scoped scratch directory for synthesized audio.
func TempDir() string { return filepath.Join(os.TempDir(), tempDirName) }

// WriteTemp writes synthesized audio bytes to a temp file and returns its
// path. The handle is closed on every exit path.
func WriteTemp(data []byte, format string) (string, error) {
	dir := TempDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "improved-*."+format)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// CleanupTemp removes temp audio files older than maxAge. Deletion is
// best-effort: failures are logged and skipped.
func CleanupTemp(log *logrus.Entry, maxAge time.Duration) {
	dir := TempDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			if log != nil {
				log.WithError(err).WithField("file", e.Name()).Warn("could not clean up temp audio file")
			}
			continue
		}
		if log != nil {
			log.WithField("file", e.Name()).Debug("cleaned up temp audio file")
		}
	}
}
