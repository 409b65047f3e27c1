// Package charts derives display-ready chart payloads from analysis
// results. A Chart is a plain JSON document the browser renders; the
// builders never fail, they degrade to annotated placeholders instead.
package charts

import (
	"fmt"
	"sort"
	"strings"
)

type Series struct {
	Name   string    `json:"name,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Texts  []string  `json:"texts,omitempty"`
	Color  string    `json:"color,omitempty"`
}

type Chart struct {
	Kind      string   `json:"kind"`
	Title     string   `json:"title,omitempty"`
	XLabel    string   `json:"x_label,omitempty"`
	YLabel    string   `json:"y_label,omitempty"`
	Series    []Series `json:"series,omitempty"`
	Note      string   `json:"note,omitempty"`
	Estimated bool     `json:"estimated,omitempty"`
	Height    int      `json:"height"`
}

func placeholder(kind, note string) *Chart {
	return &Chart{Kind: kind, Note: note, Height: 400}
}

// Sentiment builds a bar chart of the emotion score distribution with
// percentage-formatted value texts.
func Sentiment(scores map[string]float64) *Chart {
	if len(scores) == 0 {
		return placeholder("bar", "No emotion data available")
	}
	labels := sortedKeys(scores)
	values := make([]float64, len(labels))
	texts := make([]string, len(labels))
	for i, l := range labels {
		values[i] = scores[l]
		texts[i] = fmt.Sprintf("%.1f%%", scores[l]*100)
	}
	return &Chart{
		Kind:   "bar",
		Title:  "Emotion Scores Distribution",
		XLabel: "Emotions",
		YLabel: "Confidence",
		Series: []Series{{Labels: labels, Values: values, Texts: texts, Color: "lightblue"}},
		Height: 400,
	}
}

// Prosody builds a radar chart from the top-level numeric prosodic
// features, normalized to [0,1]: values at most 1 are clamped, larger
// values are scaled by the maximum present.
func Prosody(prosodic map[string]any) *Chart {
	if len(prosodic) == 0 {
		return placeholder("radar", "No tonal data available")
	}
	var labels []string
	raw := map[string]float64{}
	maxV := 0.0
	for k, v := range prosodic {
		n, ok := asNumber(v)
		if !ok {
			continue
		}
		labels = append(labels, k)
		raw[k] = n
		if n > maxV {
			maxV = n
		}
	}
	if len(labels) == 0 {
		return placeholder("radar", "No numerical tonal features available")
	}
	sort.Strings(labels)

	display := make([]string, len(labels))
	values := make([]float64, len(labels))
	for i, k := range labels {
		display[i] = deslug(k)
		v := raw[k]
		switch {
		case v <= 1:
			if v < 0 {
				v = 0
			}
			values[i] = v
		default:
			values[i] = v / maxV
		}
	}
	return &Chart{
		Kind:   "radar",
		Title:  "Prosodic Features Analysis",
		Series: []Series{{Name: "Prosodic Features", Labels: display, Values: values}},
		Height: 400,
	}
}

// Comparison builds grouped bars of original vs processed word counts and
// issue counts. ok reports whether metrics were present at all.
func Comparison(originalWords, improvedWords, issuesFound int, ok bool) *Chart {
	if !ok {
		return placeholder("grouped_bar", "No metrics available")
	}
	labels := []string{"Word Count", "Issues Found"}
	return &Chart{
		Kind:  "grouped_bar",
		Title: "Before vs After Comparison",
		Series: []Series{
			{Name: "Original", Labels: labels, Values: []float64{float64(originalWords), 0}, Color: "lightcoral"},
			{Name: "Processed", Labels: labels, Values: []float64{float64(improvedWords), float64(issuesFound)}, Color: "lightblue"},
		},
		Height: 400,
	}
}

var (
	timelineStages = []string{"Speech-to-Text", "Sentiment Analysis", "Tonal Analysis", "LLM Processing", "Audio Synthesis"}
	timelineShares = []float64{0.30, 0.10, 0.20, 0.30, 0.10}
)

// Timeline apportions the total reported processing time across the five
// pipeline stages using a fixed split. The backend reports only a total,
// so the chart is flagged as an estimate.
func Timeline(totalSeconds float64) *Chart {
	if totalSeconds == 0 {
		return placeholder("bar", "No timing data available")
	}
	values := make([]float64, len(timelineStages))
	for i, share := range timelineShares {
		values[i] = totalSeconds * share
	}
	return &Chart{
		Kind:      "bar",
		Title:     fmt.Sprintf("Processing Pipeline Timing (Total: %.2fs)", totalSeconds),
		XLabel:    "Processing Stages",
		YLabel:    "Time (seconds)",
		Series:    []Series{{Labels: timelineStages, Values: values, Color: "lightgreen"}},
		Note:      "Stage split is estimated from the total, not measured per stage",
		Estimated: true,
		Height:    400,
	}
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

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deslug(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
