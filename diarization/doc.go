// Package diarization defines the speaker diarization provider interface
// and converts its segments into alignment speaker turns.
//
//	mgr := diarization.NewManager()
//	mgr.Add(pyannote.ProviderName, p)
//	d, err := mgr.Get(ctx)
//	resp, err := d.Diarize(ctx, diarization.DiarizationRequest{AudioPath: path, NumSpeakers: 2})
//	turns := diarization.Turns(resp.Segments)
//
// diarization/pyannote talks to a pyannote.audio HTTP sidecar.
package diarization
