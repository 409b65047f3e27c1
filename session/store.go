// Package session holds the in-memory state of one interactive session:
// processing history, a result cache, user preferences, and aggregate
// statistics. A Store is created once at startup and passed to whatever
// needs it; there is no package-level state.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pitchperfect/pitch-perfect/results"
)

type HistoryEntry struct {
	ID        string           `json:"processing_id"`
	Timestamp time.Time        `json:"timestamp"`
	AudioFile string           `json:"audio_file"`
	Settings  results.Settings `json:"settings"`
	Result    *results.Result  `json:"result"`
}

type CacheEntry struct {
	Result      *results.Result
	Timestamp   time.Time
	AccessCount int
	seq         uint64
}

// Statistics is the derived view over the raw counters; every ratio is
// zero when nothing has been processed yet.
type Statistics struct {
	TotalProcessed         int     `json:"total_processed"`
	SuccessfulAnalyses     int     `json:"successful_analyses"`
	FailedAnalyses         int     `json:"failed_analyses"`
	TotalProcessingTime    float64 `json:"total_processing_time"`
	SuccessRate            float64 `json:"success_rate"`
	AverageProcessingTime  float64 `json:"average_processing_time"`
	SessionDurationMinutes float64 `json:"session_duration"`
}

type HealthReport struct {
	Status         string   `json:"status"`
	HistoryEntries int      `json:"history_entries"`
	CacheEntries   int      `json:"cache_entries"`
	Warnings       []string `json:"warnings"`
}

type rawStats struct {
	total, success, failed int
	totalTime              float64
}

type Store struct {
	// The mutex only keeps Go map/slice access safe; the store still
	// models a single interactive session and read-modify-write cycles
	// across calls are last-write-wins.
	mu sync.Mutex

	now   func() time.Time
	start time.Time

	history []HistoryEntry
	last    *HistoryEntry
	cache   map[string]*CacheEntry
	prefs   map[string]any
	stats   rawStats
	seq     uint64

	historyLimit int
	cacheLimit   int
	cacheKeep    int
}

func NewStore() *Store { return NewStoreWithLimits(50, 100, 50) }

func NewStoreWithLimits(historyLimit, cacheLimit, cacheKeep int) *Store {
	s := &Store{
		now:          time.Now,
		historyLimit: historyLimit,
		cacheLimit:   cacheLimit,
		cacheKeep:    cacheKeep,
	}
	s.initLocked()
	return s
}

func (s *Store) initLocked() {
	s.start = s.now()
	s.history = nil
	s.last = nil
	s.cache = map[string]*CacheEntry{}
	s.prefs = DefaultPreferences()
	s.stats = rawStats{}
}

func DefaultPreferences() map[string]any {
	return map[string]any{
		"voice_selection":         "Default Voice",
		"analysis_depth":          "Detailed",
		"improvement_focus":       []string{"Clarity & Articulation", "Tone & Emotion"},
		"improvement_level":       "Moderate",
		"auto_play_results":       true,
		"save_processing_history": true,
		"preferred_language":      "English (US)",
		"audio_format":            "WAV",
		"theme":                   "light",
	}
}

// Record appends a history entry for one processing transaction, updates
// the counters, and returns the generated processing id.
func (s *Store) Record(audioFile string, settings results.Settings, result *results.Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		AudioFile: audioFile,
		Settings:  settings,
		Result:    result,
	}
	s.history = append(s.history, entry)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
	s.last = &entry

	s.stats.total++
	if result.Failed() {
		s.stats.failed++
	} else {
		s.stats.success++
	}
	if result != nil && result.Metrics != nil {
		s.stats.totalTime += result.Metrics.ProcessingTimeSeconds
	}
	return entry.ID
}

// History returns up to limit entries, most recent last.
func (s *Store) History(limit int) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	out := make([]HistoryEntry, limit)
	copy(out, s.history[len(s.history)-limit:])
	return out
}

func (s *Store) LastResult() *HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func cacheKey(audioFP, settingsFP string) string { return audioFP + "_" + settingsFP }

func (s *Store) CacheGet(audioFP, settingsFP string) (*results.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[cacheKey(audioFP, settingsFP)]
	if !ok {
		return nil, false
	}
	entry.AccessCount++
	return entry.Result, true
}

// CachePut inserts a result; when the cache exceeds its limit only the
// newest cacheKeep entries (by timestamp, then insertion order) survive.
func (s *Store) CachePut(audioFP, settingsFP string, r *results.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.cache[cacheKey(audioFP, settingsFP)] = &CacheEntry{
		Result:      r,
		Timestamp:   s.now(),
		AccessCount: 1,
		seq:         s.seq,
	}
	if len(s.cache) <= s.cacheLimit {
		return
	}

	type keyed struct {
		key   string
		entry *CacheEntry
	}
	all := make([]keyed, 0, len(s.cache))
	for k, e := range s.cache {
		all = append(all, keyed{k, e})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].entry.Timestamp.Equal(all[j].entry.Timestamp) {
			return all[i].entry.Timestamp.After(all[j].entry.Timestamp)
		}
		return all[i].entry.seq > all[j].entry.seq
	})
	kept := map[string]*CacheEntry{}
	for _, item := range all[:s.cacheKeep] {
		kept[item.key] = item.entry
	}
	s.cache = kept
}

func (s *Store) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Preferences returns a copy of the current preference map.
func (s *Store) Preferences() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.prefs)
}

// UpdatePreferences merges the given keys into the existing preferences;
// it never replaces the map wholesale.
func (s *Store) UpdatePreferences(p map[string]any) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range p {
		s.prefs[k] = v
	}
	return copyMap(s.prefs)
}

func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statisticsLocked()
}

func (s *Store) statisticsLocked() Statistics {
	st := Statistics{
		TotalProcessed:         s.stats.total,
		SuccessfulAnalyses:     s.stats.success,
		FailedAnalyses:         s.stats.failed,
		TotalProcessingTime:    s.stats.totalTime,
		SessionDurationMinutes: s.now().Sub(s.start).Minutes(),
	}
	if s.stats.total > 0 {
		st.SuccessRate = float64(s.stats.success) / float64(s.stats.total) * 100
		st.AverageProcessingTime = s.stats.totalTime / float64(s.stats.total)
	}
	return st
}

// Reset discards all state and reinitializes the session to defaults.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initLocked()
}

// Summary renders a short textual overview of the session.
func (s *Store) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statisticsLocked()
	lines := []string{
		"📊 **Session Summary**",
		"==============================",
		fmt.Sprintf("🎤 Total Analyses: %d", st.TotalProcessed),
		fmt.Sprintf("✅ Successful: %d", st.SuccessfulAnalyses),
		fmt.Sprintf("❌ Failed: %d", st.FailedAnalyses),
		fmt.Sprintf("📈 Success Rate: %.1f%%", st.SuccessRate),
		fmt.Sprintf("⏱️ Average Time: %.1fs", st.AverageProcessingTime),
		fmt.Sprintf("🕒 Session Duration: %.1f minutes", st.SessionDurationMinutes),
	}

	n := len(s.history)
	if n > 0 {
		lines = append(lines, "", "📋 **Recent Activity**", "--------------------")
		start := n - 3
		if start < 0 {
			start = 0
		}
		for _, entry := range s.history[start:] {
			glyph := "✅"
			if entry.Result.Failed() {
				glyph = "❌"
			}
			depth := entry.Settings.AnalysisDepth
			if depth == "" {
				depth = "Unknown"
			}
			lines = append(lines, fmt.Sprintf("%s %s - %s analysis", glyph, entry.Timestamp.Format("15:04"), depth))
		}
	}
	return strings.Join(lines, "\n")
}

// Export produces a snapshot of session metadata for backup or display.
func (s *Store) Export() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"session_info": map[string]any{
			"start_time":  s.start,
			"export_time": s.now(),
		},
		"statistics":               s.statisticsLocked(),
		"user_preferences":         copyMap(s.prefs),
		"processing_history_count": len(s.history),
		"cache_entries":            len(s.cache),
	}
}

// Health reports advisory memory-usage warnings for the session state.
func (s *Store) Health() HealthReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := HealthReport{
		Status:         "healthy",
		HistoryEntries: len(s.history),
		CacheEntries:   len(s.cache),
	}
	if h.HistoryEntries > 100 {
		h.Warnings = append(h.Warnings, "Large processing history - consider clearing")
	}
	if h.CacheEntries > 150 {
		h.Warnings = append(h.Warnings, "Large analysis cache - automatic cleanup recommended")
	}
	if len(h.Warnings) > 0 {
		h.Status = "warning"
	}
	return h
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
