package api

import "github.com/kbukum/speakeralign/alignment"

// diarizeQuery holds the /diarize query parameters.
type diarizeQuery struct {
	NumSpeakers *int `form:"num_speakers" validate:"omitempty,min=1,max=20"`
}

// transcribeQuery holds the /transcribe-full query parameters.
type transcribeQuery struct {
	Language      string `form:"language" validate:"omitempty,max=16"`
	NumSpeakers   *int   `form:"num_speakers" validate:"omitempty,min=1,max=20"`
	DetectFillers *bool  `form:"detect_fillers"`
}

// processTextRequest is the /process-text body. Text must be present but
// may be empty.
type processTextRequest struct {
	Text          *string `json:"text" validate:"required"`
	DetectFillers *bool   `json:"detect_fillers"`
	RemoveFillers bool    `json:"remove_fillers"`
}

// alignRequest is the /align body.
type alignRequest struct {
	Words        []alignment.Word        `json:"words" validate:"required"`
	SpeakerTurns []alignment.SpeakerTurn `json:"speaker_turns"`
}

// alignResponse is the /align answer.
type alignResponse struct {
	Segments []alignment.Segment `json:"segments"`
}
