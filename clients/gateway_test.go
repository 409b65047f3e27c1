package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchperfect/pitch-perfect/config"
	"github.com/pitchperfect/pitch-perfect/results"
)

func newTestGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.Backend.URL = srv.URL
	g := New(cfg, nil)
	g.processTimeout = 2 * time.Second
	g.healthTimeout = time.Second
	g.voicesTimeout = time.Second
	return g
}

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEdata"), 0o644))
	return path
}

func TestProcessAudioSuccess(t *testing.T) {
	var gotStyle, gotFocus, gotSave, gotVoiceID, gotFilename string
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/process-audio", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotStyle = r.FormValue("target_style")
		gotFocus = r.FormValue("improvement_focus")
		gotSave = r.FormValue("save_audio")
		gotVoiceID = r.FormValue("voice_id")
		_, header, err := r.FormFile("audio_file")
		require.NoError(t, err)
		gotFilename = header.Filename

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"processing_status": "completed",
			"transcription": {"text": "hello world"},
			"synthesis": {"status": "done", "output_path": "/srv/out.mp3"}
		}`))
	}))

	settings := results.Settings{
		VoiceSelection:   "Professional Voice",
		ImprovementFocus: []string{"Clarity", "Tone"},
		VoiceID:          "abc123",
	}
	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), settings)

	require.False(t, r.Failed(), r.Error)
	assert.Equal(t, "professional", gotStyle)
	assert.Equal(t, "clarity,tone", gotFocus)
	assert.Equal(t, "true", gotSave)
	assert.Equal(t, "abc123", gotVoiceID)
	assert.Equal(t, "clip.wav", gotFilename)
	assert.Equal(t, "completed", r.ProcessingStatus)
	assert.Equal(t, "hello world", r.Transcription.Text)
	assert.Equal(t, "/srv/out.mp3", r.ImprovedAudioPath)
}

func TestProcessAudioAPIErrorDetail(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "bad audio"}`))
	}))

	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Equal(t, "API Error: bad audio", r.Error)
}

func TestProcessAudioAPIErrorWithoutDetail(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	}))

	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Equal(t, "API Error: HTTP 502", r.Error)
}

func TestProcessAudioTimeout(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	g.processTimeout = 50 * time.Millisecond

	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Equal(t, "Request timeout - audio processing took too long", r.Error)
}

func TestProcessAudioConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens here anymore

	cfg := config.Defaults()
	cfg.Backend.URL = srv.URL
	g := New(cfg, nil)

	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, "Connection error: ")
}

func TestProcessAudioMissingFile(t *testing.T) {
	g := newTestGateway(t, http.NotFoundHandler())

	r := g.ProcessAudio(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, "Connection error: ")
}

func TestProcessAudioMalformedBody(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	r := g.ProcessAudio(context.Background(), writeAudioFixture(t), results.DefaultSettings())
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, "Connection error: ")
}

func TestHealthCheck(t *testing.T) {
	up := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.True(t, up.HealthCheck(context.Background()))

	down := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	assert.False(t, down.HealthCheck(context.Background()))
}

func TestVoiceOptions(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"voices": [
			{"voice_id": "v1", "name": "Aria", "category": "premade", "description": "Warm"},
			{"voice_id": "v2", "name": "Brook", "category": "cloned", "description": "Bright"}
		]}`))
	}))

	voices := g.VoiceOptions(context.Background())
	require.Len(t, voices, 2)
	assert.Equal(t, "Aria", voices[0].Name)
}

func TestVoiceOptionsFallback(t *testing.T) {
	cases := map[string]http.Handler{
		"server error": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}),
		"empty list": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"voices": []}`))
		}),
		"bad payload": http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`nope`))
		}),
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			voices := newTestGateway(t, handler).VoiceOptions(context.Background())
			assert.Equal(t, FallbackVoices(), voices)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		cfg := config.Defaults()
		cfg.Backend.URL = srv.URL
		voices := New(cfg, nil).VoiceOptions(context.Background())
		assert.Equal(t, FallbackVoices(), voices)
	})
}

func TestTargetStyle(t *testing.T) {
	assert.Equal(t, "professional", TargetStyle("Professional Voice"))
	assert.Equal(t, "default", TargetStyle("Default Voice"))
	assert.Equal(t, "narrator", TargetStyle("narrator"))
	assert.Equal(t, "", TargetStyle(""))
}
