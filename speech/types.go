package speech

import (
	"github.com/kbukum/speakeralign/alignment"
	"github.com/kbukum/speakeralign/fillers"
)

// Request describes one full transcription.
type Request struct {
	AudioPath     string
	Language      string
	NumSpeakers   int
	DetectFillers bool
}

// Segment is an aligned segment annotated with its fillers.
type Segment struct {
	alignment.Segment
	HasFillers   bool     `json:"has_fillers"`
	FillersFound []string `json:"fillers_found"`
}

// Result is the answer of TranscribeFull.
type Result struct {
	Language              string    `json:"language"`
	FullText              string    `json:"full_text"`
	Segments              []Segment `json:"segments"`
	NumSpeakers           int       `json:"num_speakers"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
}

// TextRequest asks for filler processing of free text.
type TextRequest struct {
	Text          string
	DetectFillers bool
	RemoveFillers bool
}

// TextResult holds one entry per non-blank sentence.
type TextResult struct {
	Segments     []fillers.Result `json:"segments"`
	TotalFillers int              `json:"total_fillers"`
}
