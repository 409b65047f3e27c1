package results

import (
	"encoding/base64"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pitchperfect/pitch-perfect/charts"
)

// Formatted is the flat, display-ready view of a Result. Every field is
// always populated (empty string / empty map / nil chart when the source
// data is absent); it is derived from the Result alone.
type Formatted struct {
	Status              string         `json:"status"`
	Transcript          string         `json:"transcript"`
	TranscriptDetails   map[string]any `json:"transcript_details"`
	SentimentSummary    string         `json:"sentiment_summary"`
	SentimentChart      *charts.Chart  `json:"sentiment_chart"`
	SentimentDetails    *Sentiment     `json:"sentiment_details"`
	TonalSummary        string         `json:"tonal_summary"`
	TonalChart          *charts.Chart  `json:"tonal_chart"`
	VoiceQualityDetails *Tonal         `json:"voice_quality_details"`
	ImprovedText        string         `json:"improved_text"`
	ImprovementFeedback string         `json:"improvement_feedback"`
	ProsodyGuide        map[string]any `json:"prosody_guide"`
	ImprovedAudio       []byte         `json:"improved_audio,omitempty"`
	SynthesisInfo       map[string]any `json:"synthesis_info"`
	MetricsChart        *charts.Chart  `json:"metrics_comparison"`
	TimelineChart       *charts.Chart  `json:"timeline_chart"`
}

const (
	statusCompleted  = "✅ Processing completed successfully!"
	statusProcessing = "🔄 Processing..."
)

// Format flattens a backend result into its display view. It is a pure
// function of r and never fails: missing sections default to empty values
// and a bad base64 payload degrades to absent audio.
func Format(r *Result) Formatted {
	if r == nil {
		r = &Result{}
	}
	f := Formatted{
		TranscriptDetails: map[string]any{},
		ProsodyGuide:      map[string]any{},
		SynthesisInfo:     map[string]any{},
	}

	switch {
	case r.ProcessingStatus == "completed":
		f.Status = statusCompleted
	case r.Error != "":
		f.Status = "❌ Error: " + r.Error
	default:
		f.Status = statusProcessing
	}

	if t := r.Transcription; t != nil {
		f.Transcript = t.Text
		lang := t.Language
		if lang == "" {
			lang = "en"
		}
		f.TranscriptDetails = map[string]any{
			"language":   lang,
			"duration":   t.Duration,
			"confidence": t.Confidence,
			"word_count": len(strings.Fields(t.Text)),
		}
	}

	if s := r.Sentiment; s != nil {
		f.SentimentSummary = sentimentSummary(s)
		f.SentimentDetails = s
		f.SentimentChart = charts.Sentiment(s.EmotionScores)
	}

	if t := r.Tonal; t != nil {
		f.TonalSummary = tonalSummary(t)
		f.TonalChart = charts.Prosody(t.Prosodic)
		f.VoiceQualityDetails = t
	}

	if imp := r.Improvements; imp != nil {
		f.ImprovedText = imp.ImprovedText
		f.ImprovementFeedback = feedbackText(imp)
		if imp.ProsodyGuide != nil {
			f.ProsodyGuide = imp.ProsodyGuide
		}
	}

	if syn := r.Synthesis; syn != nil {
		var decoded []byte
		if syn.AudioData != "" {
			b, err := base64.StdEncoding.DecodeString(syn.AudioData)
			if err != nil {
				logrus.WithError(err).Warn("could not decode synthesized audio")
			} else {
				decoded = b
				f.ImprovedAudio = b
			}
		}
		status := syn.Status
		if status == "" {
			status = "unknown"
		}
		format := syn.AudioFormat
		if format == "" {
			format = "mp3"
		}
		f.SynthesisInfo = map[string]any{
			"status":       status,
			"audio_length": syn.AudioLength,
			"file_size":    len(decoded),
			"format":       format,
		}
	}

	if m := r.Metrics; m != nil {
		f.MetricsChart = charts.Comparison(m.OriginalWordCount, m.ImprovedWordCount, m.IssuesFound, true)
		f.TimelineChart = charts.Timeline(m.ProcessingTimeSeconds)
	} else {
		f.MetricsChart = charts.Comparison(0, 0, 0, false)
		f.TimelineChart = charts.Timeline(0)
	}

	return f
}

// feedbackText joins the optional summary block with the detailed
// feedback entries, falling back to a fixed message when neither exists.
func feedbackText(imp *Improvements) string {
	var parts []string
	if imp.SummaryFeedback != "" {
		parts = append(parts, "📝 **Summary Feedback:**", imp.SummaryFeedback)
	}
	if len(imp.Feedback) > 0 {
		if len(parts) > 0 {
			parts = append(parts, "\n"+strings.Repeat("─", 50))
		}
		parts = append(parts, "🔍 **Detailed Feedback:**")
		if s, ok := imp.Feedback["summary"].(string); ok && s != "" {
			parts = append(parts, s)
		}
		for _, k := range sortedAnyKeys(imp.Feedback) {
			if k == "summary" || k == "severity" || k == "issues_found" {
				continue
			}
			if v := imp.Feedback[k]; truthy(v) {
				parts = append(parts, "**"+deslug(k)+":** "+stringify(v))
			}
		}
	}
	if len(parts) == 0 {
		return "No feedback available."
	}
	return strings.Join(parts, "\n")
}
