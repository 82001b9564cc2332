// Package api exposes the speech pipeline over HTTP:
//
//	POST /diarize          multipart "audio", ?num_speakers=1..20
//	POST /transcribe-full  multipart "audio", ?language, ?num_speakers, ?detect_fillers
//	POST /process-text     {"text", "detect_fillers", "remove_fillers"}
//	POST /align            {"words", "speaker_turns"}
//
// Uploads are spooled to a temporary file that is removed when the request
// ends. Failures are rendered as error envelopes with the AppError status.
package api
