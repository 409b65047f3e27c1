package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pitchperfect/pitch-perfect/results"
)

const (
	errTimeout = "Request timeout - audio processing took too long"
)

// TargetStyle derives the backend style token from a display voice name:
// lowercase with a trailing " voice" suffix removed.
func TargetStyle(voiceSelection string) string {
	return strings.TrimSuffix(strings.ToLower(voiceSelection), " voice")
}

func joinFocus(focus []string) string {
	return strings.ToLower(strings.Join(focus, ","))
}

// ProcessAudio submits the audio file and settings to /process-audio and
// remaps the JSON body into the fixed result shape. Connectivity and
// timeout failures come back as the failure branch of the result, never
// as a Go error.
func (g *Gateway) ProcessAudio(ctx context.Context, audioPath string, settings results.Settings) *results.Result {
	body, contentType, err := buildSubmission(audioPath, settings)
	if err != nil {
		return results.Failure("Connection error: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, g.processTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/process-audio", body)
	if err != nil {
		return results.Failure("Connection error: " + err.Error())
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := g.c.Do(req)
	if err != nil {
		if isTimeout(err) {
			g.log.Warn("processing request timed out")
			return results.Failure(errTimeout)
		}
		g.log.WithError(err).Warn("processing request failed")
		return results.Failure("Connection error: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if b, err := io.ReadAll(resp.Body); err == nil {
			var e struct {
				Detail string `json:"detail"`
			}
			if json.Unmarshal(b, &e) == nil && e.Detail != "" {
				detail = e.Detail
			}
		}
		return results.Failure("API Error: " + detail)
	}

	var out results.Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return results.Failure("Connection error: " + err.Error())
	}
	if out.Synthesis != nil && out.Synthesis.OutputPath != "" {
		out.ImprovedAudioPath = out.Synthesis.OutputPath
	}
	return &out
}

func buildSubmission(audioPath string, settings results.Settings) (io.Reader, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("target_style", TargetStyle(settings.VoiceSelection)); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("improvement_focus", joinFocus(settings.ImprovementFocus)); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("save_audio", "true"); err != nil {
		return nil, "", err
	}
	if settings.VoiceID != "" {
		if err = w.WriteField("voice_id", settings.VoiceID); err != nil {
			return nil, "", err
		}
	}
	if err = w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}
