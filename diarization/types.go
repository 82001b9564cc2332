package diarization

import "github.com/kbukum/speakeralign/alignment"

// DiarizationRequest holds parameters for a diarization call.
type DiarizationRequest struct {
	// AudioPath is the path to the audio file to diarize.
	AudioPath string `json:"audio_path"`
	// NumSpeakers is the exact number of speakers (0 = auto-detect).
	NumSpeakers int `json:"num_speakers,omitempty"`
	// MinSpeakers is the minimum expected number of speakers.
	MinSpeakers int `json:"min_speakers,omitempty"`
	// MaxSpeakers is the maximum expected number of speakers.
	MaxSpeakers int `json:"max_speakers,omitempty"`
	// Language is a hint only; pyannote ignores it.
	Language string `json:"language,omitempty"`
}

// DiarizationResponse holds the result of a diarization call.
type DiarizationResponse struct {
	Segments    []Segment `json:"segments"`
	NumSpeakers int       `json:"num_speakers"`
}

// Segment is one speaker turn as reported by the backend.
type Segment struct {
	Speaker  string  `json:"speaker"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text,omitempty"`
}

// Turns converts segments to alignment speaker turns, keeping order.
func Turns(segments []Segment) []alignment.SpeakerTurn {
	turns := make([]alignment.SpeakerTurn, len(segments))
	for i, s := range segments {
		turns[i] = alignment.SpeakerTurn{Speaker: s.Speaker, Start: s.Start, End: s.End}
	}
	return turns
}

// CountSpeakers returns the number of distinct speaker labels.
func CountSpeakers(segments []Segment) int {
	seen := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}
