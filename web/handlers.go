package web

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "embed"

	"github.com/pitchperfect/pitch-perfect/audio"
	"github.com/pitchperfect/pitch-perfect/results"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTmpl.Execute(w, map[string]any{
		"Title":       s.cfg.App.Name,
		"Description": "Analyze and improve your speech patterns with AI",
	})
}

// handleProcess accepts the multipart upload from the browser, stages it
// in a temp file, and runs the pipeline. The temp file is always removed.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	audio.CleanupTemp(s.log, time.Hour)

	maxBytes := int64(s.cfg.Audio.MaxUploadMB+1) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio_file is required"})
		return
	}
	defer file.Close()

	path, err := stageUpload(file, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not stage upload: " + err.Error()})
		return
	}
	defer os.Remove(path)

	settings := settingsFromForm(r)
	outcome := s.pipeline.Process(r.Context(), path, settings)
	writeJSON(w, http.StatusOK, outcome)
}

func settingsFromForm(r *http.Request) results.Settings {
	settings := results.DefaultSettings()
	if v := r.FormValue("voice_selection"); v != "" {
		settings.VoiceSelection = v
	}
	if v := r.FormValue("analysis_depth"); v != "" {
		settings.AnalysisDepth = v
	}
	if focus := r.Form["improvement_focus"]; len(focus) > 0 {
		var out []string
		for _, f := range focus {
			for _, part := range strings.Split(f, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
		if len(out) > 0 {
			settings.ImprovementFocus = out
		}
	}
	settings.VoiceID = r.FormValue("voice_id")
	return settings
}

// stageUpload copies the multipart part to a temp file that keeps the
// original extension, so validation and fingerprinting see a real path.
func stageUpload(file io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".wav"
	}
	f, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"voices": s.gw.VoiceOptions(r.Context())})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": s.store.History(limit)})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"statistics": s.store.Statistics(),
		"summary":    s.store.Summary(),
		"health":     s.store.Health(),
	})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"preferences": s.store.Preferences()})
	case http.MethodPost:
		var updates map[string]any
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid preference payload"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"preferences": s.store.UpdatePreferences(updates)})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.store.Reset()
	audio.CleanupTemp(s.log, 0)
	writeJSON(w, http.StatusOK, map[string]string{"status": "Session reset successfully"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	backendUp := s.gw.HealthCheck(r.Context())
	status := "healthy"
	if !backendUp {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"backend": backendUp,
		"uptime":  time.Since(s.startTime).String(),
	})
}
