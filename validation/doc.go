// Package validation checks request and config input.
//
// Struct tags cover request parameters:
//
//	type diarizeQuery struct {
//	    NumSpeakers int `form:"num_speakers" validate:"omitempty,min=1,max=20"`
//	}
//	err := validation.Validate(q)
//
// The chained Validator covers config rules that span fields:
//
//	err := validation.New().
//	    Min("pipeline.retry_attempts", c.RetryAttempts, 1).
//	    Range("whisper.beam_size", c.Whisper.BeamSize, 1, 20).
//	    Err()
//
// Both report failures as one INVALID_INPUT AppError whose "fields" detail
// lists every failed check.
package validation
