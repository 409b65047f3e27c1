package results

// Result is the fixed shape of a /process-audio response. Every field is
// optional; unknown backend keys are dropped during decoding. A non-empty
// Error marks the failure branch of the union.
type Result struct {
	Timestamp         string         `json:"timestamp,omitempty"`
	SessionID         string         `json:"session_id,omitempty"`
	ProcessingStatus  string         `json:"processing_status,omitempty"`
	InputAudio        string         `json:"input_audio,omitempty"`
	Transcription     *Transcription `json:"transcription,omitempty"`
	Sentiment         *Sentiment     `json:"sentiment,omitempty"`
	Tonal             *Tonal         `json:"tonal,omitempty"`
	Improvements      *Improvements  `json:"improvements,omitempty"`
	Synthesis         *Synthesis     `json:"synthesis,omitempty"`
	Metrics           *Metrics       `json:"metrics,omitempty"`
	ImprovedAudioPath string         `json:"improved_audio_path,omitempty"`
	Error             string         `json:"error,omitempty"`
}

// Failure builds the error branch of the result union.
func Failure(msg string) *Result { return &Result{Error: msg} }

func (r *Result) Failed() bool { return r != nil && r.Error != "" }

type Transcription struct {
	Text       string  `json:"text"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

type Sentiment struct {
	Emotion       string             `json:"emotion"`
	Confidence    *float64           `json:"confidence"`
	Sentiment     string             `json:"sentiment"`
	EmotionScores map[string]float64 `json:"emotion_scores"`
}

// Tonal keeps the loosely-typed sub-maps the backend sends: prosodic
// features mix nested category maps with top-level numbers, and voice
// quality values may be numbers or strings.
type Tonal struct {
	Valence          *float64       `json:"valence"`
	Arousal          *float64       `json:"arousal"`
	Prosodic         map[string]any `json:"prosodic_features"`
	VoiceQuality     map[string]any `json:"voice_quality"`
	AcousticProblems []string       `json:"acoustic_problems"`
}

type Improvements struct {
	ImprovedText    string         `json:"improved_text"`
	SummaryFeedback string         `json:"summary_feedback"`
	Feedback        map[string]any `json:"feedback"`
	ProsodyGuide    map[string]any `json:"prosody_guide"`
}

type Synthesis struct {
	Status      string  `json:"status"`
	AudioData   string  `json:"audio_data"` // base64
	AudioLength float64 `json:"audio_length"`
	AudioFormat string  `json:"audio_format"`
	OutputPath  string  `json:"output_path"`
}

type Metrics struct {
	OriginalWordCount     int     `json:"original_word_count"`
	ImprovedWordCount     int     `json:"improved_word_count"`
	IssuesFound           int     `json:"issues_found"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// Settings carries the user-chosen processing options; immutable once a
// request has been sent.
type Settings struct {
	VoiceSelection   string   `json:"voice_selection"`
	AnalysisDepth    string   `json:"analysis_depth"`
	ImprovementFocus []string `json:"improvement_focus"`
	VoiceID          string   `json:"voice_id,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		VoiceSelection:   "Default Voice",
		AnalysisDepth:    "Detailed",
		ImprovementFocus: []string{"Clarity", "Tone"},
	}
}
