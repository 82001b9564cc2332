package alignment

// Unknown labels words that could not be attributed to any speaker.
const Unknown = "UNKNOWN"

// Word is a single transcribed word with its time interval in seconds.
type Word struct {
	// Text is the word as produced by the transcriber.
	Text string `json:"word" yaml:"word"`
	// Start is the word start time in seconds.
	Start float64 `json:"start" yaml:"start"`
	// End is the word end time in seconds.
	End float64 `json:"end" yaml:"end"`
}

// SpeakerTurn is a continuous interval attributed to one speaker.
// Turns may arrive in any order and may overlap or leave gaps.
type SpeakerTurn struct {
	// Speaker is the opaque diarization label (e.g. "SPEAKER_00").
	Speaker string `json:"speaker" yaml:"speaker"`
	// Start is the turn start time in seconds.
	Start float64 `json:"start" yaml:"start"`
	// End is the turn end time in seconds.
	End float64 `json:"end" yaml:"end"`
}

// Segment is a maximal run of consecutive words assigned to the same speaker.
type Segment struct {
	// Speaker is the label shared by every word in the segment.
	Speaker string `json:"speaker" yaml:"speaker"`
	// Start is the start time of the first word.
	Start float64 `json:"start" yaml:"start"`
	// End is the end time of the last word.
	End float64 `json:"end" yaml:"end"`
	// Text is the segment words joined by a single space.
	Text string `json:"text" yaml:"text"`
	// Words holds the segment words in transcript order.
	Words []Word `json:"words" yaml:"words"`
}

// assignedWord is a word annotated with the speaker chosen for it.
type assignedWord struct {
	Word
	speaker string
}
