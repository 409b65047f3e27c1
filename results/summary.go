package results

import (
	"fmt"
	"sort"
	"strings"
)

// sentimentSummary renders the emotion label, confidence, overall
// sentiment, and the emotion-score breakdown as an ordered text block.
func sentimentSummary(s *Sentiment) string {
	if s == nil {
		return "No sentiment analysis available"
	}
	lines := []string{"🎭 SENTIMENT ANALYSIS SUMMARY", strings.Repeat("=", 40)}

	if s.Emotion != "" {
		lines = append(lines, "Primary Emotion: "+deslug(s.Emotion))
	}
	if s.Confidence != nil {
		lines = append(lines, "Confidence: "+percent(*s.Confidence))
	}
	if s.Sentiment != "" {
		lines = append(lines, "Overall Sentiment: "+deslug(s.Sentiment))
	}

	if len(s.EmotionScores) > 0 {
		lines = append(lines, "", "📊 EMOTION BREAKDOWN:")
		keys := make([]string, 0, len(s.EmotionScores))
		for k := range s.EmotionScores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %s", deslug(k), percent(s.EmotionScores[k])))
		}
	}
	return strings.Join(lines, "\n")
}

// tonalSummary renders emotional dimensions, bucketed prosodic features,
// voice-quality metrics, and detected acoustic problems in fixed order.
func tonalSummary(t *Tonal) string {
	if t == nil {
		return "No tonal analysis available"
	}
	lines := []string{"🎵 VOICE & TONAL ANALYSIS", strings.Repeat("=", 40)}

	if t.Valence != nil || t.Arousal != nil {
		lines = append(lines, "", "🧠 EMOTIONAL DIMENSIONS:")
		if t.Valence != nil {
			v := *t.Valence
			desc := "Neutral"
			if v > 0.5 {
				desc = "Positive"
			} else if v < -0.5 {
				desc = "Negative"
			}
			lines = append(lines,
				fmt.Sprintf("  Valence: %.2f (%s)", v, desc),
				"    → How pleasant/unpleasant your speech sounds")
		}
		if t.Arousal != nil {
			a := *t.Arousal
			desc := "Moderate Energy"
			if a > 0.5 {
				desc = "High Energy"
			} else if a < -0.5 {
				desc = "Low Energy"
			}
			lines = append(lines,
				fmt.Sprintf("  Arousal: %.2f (%s)", a, desc),
				"    → How energetic/calm your speech sounds")
		}
	}

	if len(t.Prosodic) > 0 {
		lines = append(lines, "", "🎼 PROSODIC FEATURES:")
		if pitch, ok := subMap(t.Prosodic, "pitch"); ok {
			lines = append(lines, "  Pitch: "+band(numberOr(pitch, "mean_hz"), 150, 250))
		}
		if energy, ok := subMap(t.Prosodic, "energy"); ok {
			lines = append(lines, "  Energy: "+band(numberOr(energy, "mean_db"), -35, -15))
		}
		if tempo, ok := subMap(t.Prosodic, "tempo"); ok {
			lines = append(lines, "  Tempo: "+band(numberOr(tempo, "speaking_rate_wpm"), 120, 180))
		}
		if pauses, ok := subMap(t.Prosodic, "pauses"); ok {
			lines = append(lines, "  Pauses: "+band(numberOr(pauses, "pause_ratio"), 0.1, 0.3))
		}
	}

	if len(t.VoiceQuality) > 0 {
		lines = append(lines, "", "🎤 VOICE QUALITY:")
		for _, k := range sortedAnyKeys(t.VoiceQuality) {
			v := t.VoiceQuality[k]
			if n, ok := asNumber(v); ok {
				if n != 0 {
					lines = append(lines, fmt.Sprintf("  %s: %.2f", deslug(k), n))
				}
				continue
			}
			if s, ok := v.(string); ok && s != "" {
				lines = append(lines, fmt.Sprintf("  %s: %s", deslug(k), s))
			}
		}
	}

	if len(t.AcousticProblems) > 0 {
		lines = append(lines, "", "⚠️ ISSUES DETECTED:")
		for _, p := range t.AcousticProblems {
			lines = append(lines, "  • "+deslug(p))
		}
	}

	return strings.Join(lines, "\n")
}

// band buckets a value against low/high thresholds.
func band(v, low, high float64) string {
	switch {
	case v < low:
		return "Low"
	case v > high:
		return "High"
	default:
		return "Normal"
	}
}

// percent renders a 0..1 fraction like 0.853 as "85.3%".
func percent(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

// deslug turns snake_case or lowercase tokens into "Title Case" text.
func deslug(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func subMap(m map[string]any, key string) (map[string]any, bool) {
	sub, ok := m[key].(map[string]any)
	return sub, ok
}

func numberOr(m map[string]any, key string) float64 {
	n, _ := asNumber(m[key])
	return n
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprint(v)
}
