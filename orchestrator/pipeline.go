// Package orchestrator ties validation, caching, the backend gateway, and
// result formatting into one request pipeline.
package orchestrator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pitchperfect/pitch-perfect/audio"
	"github.com/pitchperfect/pitch-perfect/clients"
	"github.com/pitchperfect/pitch-perfect/config"
	"github.com/pitchperfect/pitch-perfect/metrics"
	"github.com/pitchperfect/pitch-perfect/results"
	"github.com/pitchperfect/pitch-perfect/session"
)

type Pipeline struct {
	cfg       *config.Root
	gw        *clients.Gateway
	store     *session.Store
	validator *audio.Validator
	metrics   *metrics.Metrics
	log       *logrus.Entry
}

func NewPipeline(cfg *config.Root, gw *clients.Gateway, store *session.Store,
	validator *audio.Validator, m *metrics.Metrics, log *logrus.Entry) *Pipeline {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pipeline{
		cfg:       cfg,
		gw:        gw,
		store:     store,
		validator: validator,
		metrics:   m,
		log:       log.WithField("component", "pipeline"),
	}
}

// Outcome bundles everything one processing transaction produced.
type Outcome struct {
	Formatted    results.Formatted `json:"formatted"`
	Result       *results.Result   `json:"-"`
	CacheHit     bool              `json:"cache_hit"`
	ProcessingID string            `json:"processing_id,omitempty"`
}

// Process runs one submission end to end: validate, consult the cache,
// call the backend, record the transaction, and format the result.
// Failures of any stage come back as a formatted error outcome.
func (p *Pipeline) Process(ctx context.Context, audioPath string, settings results.Settings) Outcome {
	start := time.Now()

	report := p.validator.Validate(audioPath)
	if !report.Valid {
		p.log.WithField("reason", report.Message).Info("rejected upload before submission")
		r := results.Failure(report.Message)
		p.metrics.RecordProcess(false, time.Since(start).Seconds())
		return Outcome{Formatted: results.Format(r), Result: r}
	}

	audioFP := session.AudioFingerprint(audioPath)
	settingsFP := session.SettingsFingerprint(settings)
	if cached, ok := p.store.CacheGet(audioFP, settingsFP); ok {
		p.log.WithField("audio_fp", audioFP).Info("serving cached analysis")
		p.metrics.RecordCacheHit()
		return Outcome{Formatted: results.Format(cached), Result: cached, CacheHit: true}
	}

	r := p.gw.ProcessAudio(ctx, audioPath, settings)
	id := p.store.Record(audioPath, settings, r)
	if !r.Failed() {
		p.store.CachePut(audioFP, settingsFP, r)
	}
	p.metrics.RecordProcess(!r.Failed(), time.Since(start).Seconds())

	p.log.WithFields(logrus.Fields{
		"processing_id": id,
		"failed":        r.Failed(),
		"elapsed":       time.Since(start).Round(time.Millisecond),
	}).Info("processing finished")

	return Outcome{Formatted: results.Format(r), Result: r, ProcessingID: id}
}
