package clients

import (
	"context"
	"encoding/json"
	"net/http"
)

type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var fallbackVoices = []Voice{
	{VoiceID: "default", Name: "Default Voice", Category: "premade", Description: "Balanced narration voice"},
	{VoiceID: "professional", Name: "Professional Voice", Category: "premade", Description: "Formal presentation voice"},
	{VoiceID: "casual", Name: "Casual Voice", Category: "premade", Description: "Relaxed conversational voice"},
}

// FallbackVoices returns the fixed voice list used when the backend is
// unreachable or returns nothing.
func FallbackVoices() []Voice {
	out := make([]Voice, len(fallbackVoices))
	copy(out, fallbackVoices)
	return out
}

// VoiceOptions fetches the available TTS voices from the backend; on any
// failure it returns the hardcoded fallback list.
func (g *Gateway) VoiceOptions(ctx context.Context) []Voice {
	ctx, cancel := context.WithTimeout(ctx, g.voicesTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/voices", nil)
	if err != nil {
		return FallbackVoices()
	}
	resp, err := g.c.Do(req)
	if err != nil {
		g.log.WithError(err).Debug("voice list unavailable, using fallback")
		return FallbackVoices()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FallbackVoices()
	}
	var payload struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Voices) == 0 {
		return FallbackVoices()
	}
	return payload.Voices
}
