package audio

// QualityReport is an advisory assessment of an uploaded file; it never
// blocks a submission that passed the hard limits.
type QualityReport struct {
	OverallScore     string   `json:"overall_score"`
	TechnicalQuality string   `json:"technical_quality"`
	Issues           []string `json:"issues"`
	Recommendations  []string `json:"recommendations"`
}

// Quality scores the file on sample rate, duration, and size heuristics.
func Quality(info *FileInfo) QualityReport {
	report := QualityReport{TechnicalQuality: "Unknown"}
	if info == nil {
		report.OverallScore = "Unknown"
		return report
	}

	switch {
	case info.SampleRate == 0:
		// duration/rate not derivable for this format; leave as Unknown
	case info.SampleRate < 16000:
		report.Issues = append(report.Issues, "Low sample rate may affect analysis quality")
		report.Recommendations = append(report.Recommendations, "Consider using audio with 16kHz+ sample rate")
	case info.SampleRate >= 44100:
		report.TechnicalQuality = "High"
	default:
		report.TechnicalQuality = "Good"
	}

	if info.Duration > 0 {
		if info.Duration < 5 {
			report.Issues = append(report.Issues, "Very short audio may limit analysis depth")
			report.Recommendations = append(report.Recommendations, "Try recording 10+ seconds for better results")
		} else if info.Duration > 300 {
			report.Issues = append(report.Issues, "Long audio may take longer to process")
			report.Recommendations = append(report.Recommendations, "Consider splitting into shorter segments")
		}
	}

	if info.SizeMB > 20 {
		report.Issues = append(report.Issues, "Large file size")
		report.Recommendations = append(report.Recommendations, "Consider compressing audio if upload is slow")
	}

	switch len(report.Issues) {
	case 0:
		report.OverallScore = "Excellent"
	case 1:
		report.OverallScore = "Good"
	case 2:
		report.OverallScore = "Fair"
	default:
		report.OverallScore = "Needs Improvement"
	}
	return report
}
