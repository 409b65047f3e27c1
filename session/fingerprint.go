package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/pitchperfect/pitch-perfect/results"
)

// AudioFingerprint digests the file content. Hashing bytes rather than
// size/mtime keeps cache keys stable across copies and safe against
// same-size collisions.
func AudioFingerprint(path string) string {
	if path == "" {
		return "no_file"
	}
	f, err := os.Open(path)
	if err != nil {
		return "no_file"
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "hash_error"
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// SettingsFingerprint digests the canonical JSON encoding of the settings.
func SettingsFingerprint(s results.Settings) string {
	b, err := json.Marshal(s)
	if err != nil {
		return "hash_error"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:16]
}
