package transcription

import "github.com/kbukum/speakeralign/alignment"

// TranscriptionRequest holds parameters for a transcription call.
type TranscriptionRequest struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is a language code ("ru", "en"); empty lets the backend detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
	// WordTimestamps asks for per-word timing. Alignment needs it.
	WordTimestamps bool `json:"word_timestamps"`
}

// TranscriptionResponse holds the result of a transcription call.
type TranscriptionResponse struct {
	// Text is the full transcript: trimmed segment texts joined by a space.
	Text string `json:"full_text"`
	// Language is the detected or requested language.
	Language string `json:"language"`
	// LanguageProbability is the detector's confidence, rounded to 3 places.
	LanguageProbability float64 `json:"language_probability"`
	// Duration is the audio duration in seconds, when known.
	Duration float64 `json:"duration,omitempty"`
	// Segments are the backend's sentence-level chunks.
	Segments []Segment `json:"segments,omitempty"`
	// Words are the word-level timestamps in chronological order.
	Words []Word `json:"words"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Word is one recognized word with its timing in seconds.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// AlignmentWords converts the response words to the aligner's input.
func (r *TranscriptionResponse) AlignmentWords() []alignment.Word {
	words := make([]alignment.Word, len(r.Words))
	for i, w := range r.Words {
		words[i] = alignment.Word{Text: w.Word, Start: w.Start, End: w.End}
	}
	return words
}
