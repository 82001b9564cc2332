// Package speech runs the speaker-attributed transcription pipeline:
// transcription, diarization, word-to-speaker alignment and filler
// detection.
//
// Providers are injected already built. Only one recording is processed
// at a time; further requests queue on a bulkhead or are rejected with
// SERVICE_UNAVAILABLE, depending on Config.
//
// Diarization is best effort in TranscribeFull: when it fails the words
// still come back, attributed to a single UNKNOWN speaker.
package speech
