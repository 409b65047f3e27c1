package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type App struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

type Backend struct {
	URL            string `yaml:"url"`
	RequestTimeout int    `yaml:"request_timeout"`
	HealthTimeout  int    `yaml:"health_timeout"`
	VoicesTimeout  int    `yaml:"voices_timeout"`
}

type Audio struct {
	MaxUploadMB int      `yaml:"max_upload_mb"`
	MaxDuration int      `yaml:"max_duration"`
	Formats     []string `yaml:"formats"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Session struct {
	HistoryLimit int `yaml:"history_limit"`
	CacheLimit   int `yaml:"cache_limit"`
	CacheKeep    int `yaml:"cache_keep"`
}

type Root struct {
	App     App     `yaml:"app"`
	Backend Backend `yaml:"backend"`
	Audio   Audio   `yaml:"audio"`
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
}

func Defaults() *Root {
	return &Root{
		App: App{
			Name:     "Pitch Perfect - Speech Improvement System",
			LogLevel: "info",
		},
		Backend: Backend{
			URL:            "http://localhost:8000",
			RequestTimeout: 180,
			HealthTimeout:  5,
			VoicesTimeout:  10,
		},
		Audio: Audio{
			MaxUploadMB: 25,
			MaxDuration: 300,
			Formats:     []string{"wav", "mp3", "m4a", "flac"},
		},
		Server: Server{
			Host: "0.0.0.0",
			Port: 7860,
		},
		Session: Session{
			HistoryLimit: 50,
			CacheLimit:   100,
			CacheKeep:    50,
		},
	}
}

// Load resolves configuration in three layers: built-in defaults, an
// optional yaml file, then environment overrides. A missing file is not
// an error; a malformed one is.
func Load() (*Root, error) {
	cfg := Defaults()

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	guess := []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	}
	for _, p := range guess {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		err = yaml.NewDecoder(f).Decode(cfg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
		break
	}

	ApplyEnv(cfg)
	return cfg, nil
}

// ApplyEnv overlays PITCHPERFECT_* environment variables onto cfg.
// BACKEND_API_URL is honored as a legacy alias for the backend URL.
func ApplyEnv(cfg *Root) {
	v := viper.New()
	v.SetEnvPrefix("PITCHPERFECT")
	bind := func(key string, names ...string) {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	bind("backend.url", "PITCHPERFECT_BACKEND_URL", "BACKEND_API_URL")
	bind("backend.request_timeout", "PITCHPERFECT_REQUEST_TIMEOUT")
	bind("audio.max_upload_mb", "PITCHPERFECT_MAX_UPLOAD_MB")
	bind("audio.max_duration", "PITCHPERFECT_MAX_AUDIO_DURATION")
	bind("audio.formats", "PITCHPERFECT_AUDIO_FORMATS")
	bind("server.host", "PITCHPERFECT_SERVER_HOST", "SERVER_NAME")
	bind("server.port", "PITCHPERFECT_SERVER_PORT", "SERVER_PORT")
	bind("app.log_level", "PITCHPERFECT_LOG_LEVEL")

	if s := v.GetString("backend.url"); s != "" {
		cfg.Backend.URL = s
	}
	if n := v.GetInt("backend.request_timeout"); n > 0 {
		cfg.Backend.RequestTimeout = n
	}
	if n := v.GetInt("audio.max_upload_mb"); n > 0 {
		cfg.Audio.MaxUploadMB = n
	}
	if n := v.GetInt("audio.max_duration"); n > 0 {
		cfg.Audio.MaxDuration = n
	}
	if s := v.GetString("audio.formats"); s != "" {
		var formats []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				formats = append(formats, strings.ToLower(part))
			}
		}
		if len(formats) > 0 {
			cfg.Audio.Formats = formats
		}
	}
	if s := v.GetString("server.host"); s != "" {
		cfg.Server.Host = s
	}
	if n := v.GetInt("server.port"); n > 0 {
		cfg.Server.Port = n
	}
	if s := v.GetString("app.log_level"); s != "" {
		cfg.App.LogLevel = s
	}
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
