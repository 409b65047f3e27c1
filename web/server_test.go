package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchperfect/pitch-perfect/audio"
	"github.com/pitchperfect/pitch-perfect/clients"
	"github.com/pitchperfect/pitch-perfect/config"
	"github.com/pitchperfect/pitch-perfect/metrics"
	"github.com/pitchperfect/pitch-perfect/orchestrator"
	"github.com/pitchperfect/pitch-perfect/session"
)

func newTestServer(t *testing.T, backend http.Handler) (*Server, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.Backend.URL = srv.URL
	store := session.NewStore()
	gw := clients.New(cfg, nil)
	validator := audio.NewValidator(cfg.Audio.MaxUploadMB, cfg.Audio.MaxDuration, cfg.Audio.Formats)
	m := metrics.NewWith(prometheus.NewRegistry())
	pipeline := orchestrator.NewPipeline(cfg, gw, store, validator, m, nil)
	return NewServer(cfg, pipeline, store, gw, m, nil), store
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func okBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/voices":
			w.Write([]byte(`{"voices": [{"voice_id": "v1", "name": "Aria"}]}`))
		case "/process-audio":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"processing_status": "completed", "transcription": {"text": "hi"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestIndexServesHTML(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Upload Your Speech")

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessEndpoint(t *testing.T) {
	s, store := newTestServer(t, okBackend())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("audio_file", "clip.wav")
	require.NoError(t, err)
	fw.Write([]byte("audio-bytes"))
	w.WriteField("voice_selection", "Professional Voice")
	w.WriteField("analysis_depth", "Comprehensive")
	w.WriteField("improvement_focus", "Clarity,Pace")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	formatted, ok := body["formatted"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi", formatted["transcript"])
	assert.Equal(t, false, body["cache_hit"])
	require.Len(t, store.History(0), 1)
	assert.Equal(t, "Comprehensive", store.History(0)[0].Settings.AnalysisDepth)
	assert.Equal(t, []string{"Clarity", "Pace"}, store.History(0)[0].Settings.ImprovementFocus)
}

func TestProcessEndpointRequiresFile(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("voice_selection", "Default Voice")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := doRequest(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "audio_file")
}

func TestVoicesEndpoint(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/voices", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	voices, ok := decodeBody(t, rec)["voices"].([]any)
	require.True(t, ok)
	require.Len(t, voices, 1)
}

func TestPreferencesEndpoint(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	prefs := decodeBody(t, rec)["preferences"].(map[string]any)
	assert.Equal(t, "light", prefs["theme"])

	req := httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader(`{"theme": "dark"}`))
	rec = doRequest(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	prefs = decodeBody(t, rec)["preferences"].(map[string]any)
	assert.Equal(t, "dark", prefs["theme"])

	rec = doRequest(s, httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader("{broken")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	s, store := newTestServer(t, okBackend())
	store.UpdatePreferences(map[string]any{"theme": "dark"})

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", store.Preferences()["theme"])

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/api/reset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "statistics")
	assert.Contains(t, body, "summary")
	assert.Contains(t, body, "health")
}

func TestHistoryEndpoint(t *testing.T) {
	s, _ := newTestServer(t, okBackend())

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "history")
}

func TestHealthzReflectsBackend(t *testing.T) {
	up, _ := newTestServer(t, okBackend())
	rec := doRequest(up, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])

	down, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	rec = doRequest(down, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", decodeBody(t, rec)["status"])
}
