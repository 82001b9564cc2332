// Package transcription defines the speech-to-text provider interface and
// the word-timestamped result the alignment pipeline consumes.
//
// Backends plug in through the provider registry:
//
//	mgr := transcription.NewManager()
//	mgr.Add(whisper.ProviderName, whisper.NewProvider(cfg))
//	p, err := mgr.Get(ctx)
//	resp, err := p.Transcribe(ctx, transcription.TranscriptionRequest{AudioPath: path})
//
// transcription/whisper talks to a faster-whisper HTTP sidecar.
package transcription
