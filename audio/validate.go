// Package audio performs local pre-flight checks on uploaded files before
// anything is sent to the backend, plus temp-file bookkeeping for
// synthesized audio.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Validator struct {
	MaxUploadMB int
	MaxDuration int // seconds
	Formats     []string
}

func NewValidator(maxUploadMB, maxDurationSec int, formats []string) *Validator {
	return &Validator{MaxUploadMB: maxUploadMB, MaxDuration: maxDurationSec, Formats: formats}
}

// Report is the returned validation status; invalid inputs carry a
// human-readable message, never an error value.
type Report struct {
	Valid   bool      `json:"valid"`
	Message string    `json:"message"`
	Info    *FileInfo `json:"info,omitempty"`
}

type FileInfo struct {
	Filename      string  `json:"filename"`
	SizeBytes     int64   `json:"size_bytes"`
	SizeMB        float64 `json:"size_mb"`
	Format        string  `json:"format"`
	Duration      float64 `json:"duration,omitempty"`
	SampleRate    int     `json:"sample_rate,omitempty"`
	Channels      int     `json:"channels,omitempty"`
	BitsPerSample int     `json:"bits_per_sample,omitempty"`
	Detail        string  `json:"format_detail,omitempty"`
}

func invalid(msg string, info *FileInfo) Report {
	return Report{Valid: false, Message: msg, Info: info}
}

// Validate applies the hard limits (existence, size, extension, duration
// where derivable). Duration is only extractable from WAV headers; an
// unreadable header is advisory and never blocks an otherwise valid file.
func (v *Validator) Validate(path string) Report {
	if path == "" {
		return invalid("No audio file provided", nil)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return invalid("Audio file not found", nil)
	}

	info := &FileInfo{
		Filename:  filepath.Base(path),
		SizeBytes: stat.Size(),
		SizeMB:    float64(stat.Size()) / (1024 * 1024),
		Format:    strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")),
	}

	if info.SizeMB > float64(v.MaxUploadMB) {
		return invalid(fmt.Sprintf("File too large: %.1fMB (max: %dMB)", info.SizeMB, v.MaxUploadMB), info)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !v.allowed(ext) {
		supported := make([]string, len(v.Formats))
		for i, f := range v.Formats {
			supported[i] = "." + strings.ToLower(f)
		}
		return invalid(fmt.Sprintf("Unsupported format: .%s. Supported: %s", ext, strings.Join(supported, ", ")), info)
	}

	if ext == "wav" {
		if wav, err := ProbeWAV(path); err == nil {
			info.Duration = wav.Duration
			info.SampleRate = wav.SampleRate
			info.Channels = wav.Channels
			info.BitsPerSample = wav.BitsPerSample
			info.Detail = fmt.Sprintf("%dHz, %dch, %dbit", wav.SampleRate, wav.Channels, wav.BitsPerSample)
			if info.Duration > float64(v.MaxDuration) {
				return invalid(fmt.Sprintf("Audio too long: %.1fs (max: %ds)", info.Duration, v.MaxDuration), info)
			}
		}
	}

	return Report{
		Valid:   true,
		Message: fmt.Sprintf("Audio file validated successfully (%.1fMB)", info.SizeMB),
		Info:    info,
	}
}

func (v *Validator) allowed(ext string) bool {
	for _, f := range v.Formats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}
