// Package provider is the small generic layer shared by the transcription
// and diarization backends.
//
// A Provider has a name and can report availability. A Manager holds the
// backends of one kind and hands one out per call, either a pinned default
// or whatever its Selector picks. Component exposes a Manager's health to
// the service lifecycle.
//
//	mgr := provider.NewManager[transcription.Provider](nil)
//	mgr.Add(whisper.ProviderName, whisperClient)
//	_ = mgr.SetDefault(whisper.ProviderName)
//	p, err := mgr.Get(ctx)
package provider
