// Package alignment assigns a speaker label to every transcribed word and
// merges consecutive same-speaker words into segments.
//
// It reconciles two independently produced timelines: word timestamps from
// a speech-to-text engine and speaker turns from a diarization engine. Each
// word takes the speaker of the turn it overlaps most; a word that overlaps
// no turn takes the speaker of the nearest turn boundary.
//
// The package performs no I/O and holds no state, so Align may be called
// concurrently with independent inputs.
//
// # Usage
//
//	segments := alignment.Align(words, turns)
//	for _, seg := range segments {
//	    fmt.Printf("[%s] %.3f-%.3f %s\n", seg.Speaker, seg.Start, seg.End, seg.Text)
//	}
package alignment
