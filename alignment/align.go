package alignment

import (
	"math"
	"strconv"
	"strings"
)

// segmentPrecision is the number of decimal places kept on segment boundaries.
const segmentPrecision = 3

// Align assigns a speaker to every word and groups consecutive words with the
// same speaker into segments.
//
// Words must already be in chronological order; they are never reordered.
// Turns may be in any order. When there are no turns at all, the whole
// transcript becomes a single Unknown segment whose boundaries are left
// unrounded.
func Align(words []Word, turns []SpeakerTurn) []Segment {
	if len(words) == 0 {
		return []Segment{}
	}

	if len(turns) == 0 {
		return []Segment{unattributed(words)}
	}

	assigned := make([]assignedWord, len(words))
	for i, w := range words {
		assigned[i] = assignedWord{Word: w, speaker: AssignSpeaker(w, turns)}
	}

	segments := make([]Segment, 0)
	current := assigned[0].speaker
	group := []assignedWord{assigned[0]}

	for _, w := range assigned[1:] {
		if w.speaker != current {
			segments = append(segments, buildSegment(current, group))
			current = w.speaker
			group = []assignedWord{w}
			continue
		}
		group = append(group, w)
	}
	segments = append(segments, buildSegment(current, group))

	return segments
}

// AssignSpeaker returns the speaker of the turn that overlaps the word most,
// falling back to the turn nearest to the word start.
func AssignSpeaker(w Word, turns []SpeakerTurn) string {
	if speaker, ok := BestOverlapSpeaker(w, turns); ok {
		return speaker
	}
	return NearestSpeaker(w.Start, turns)
}

// BestOverlapSpeaker returns the speaker of the turn with the largest positive
// overlap with the word. On equal overlaps the earliest turn in the slice wins.
// The second result is false when no turn overlaps the word.
func BestOverlapSpeaker(w Word, turns []SpeakerTurn) (string, bool) {
	bestSpeaker := ""
	bestOverlap := 0.0

	for _, t := range turns {
		overlap := math.Max(0, math.Min(w.End, t.End)-math.Max(w.Start, t.Start))
		if overlap > bestOverlap {
			bestOverlap = overlap
			bestSpeaker = t.Speaker
		}
	}

	return bestSpeaker, bestOverlap > 0
}

// NearestSpeaker returns the speaker of the turn whose start or end lies
// closest to start. On equal distances the earliest turn in the slice wins.
// It returns Unknown when turns is empty.
func NearestSpeaker(start float64, turns []SpeakerTurn) string {
	if len(turns) == 0 {
		return Unknown
	}

	bestSpeaker := turns[0].Speaker
	bestDistance := math.Inf(1)

	for _, t := range turns {
		distance := math.Min(math.Abs(start-t.Start), math.Abs(start-t.End))
		if distance < bestDistance {
			bestDistance = distance
			bestSpeaker = t.Speaker
		}
	}

	return bestSpeaker
}

// Round rounds v to the given number of decimal places. The exact binary
// value of v is rounded, with exact ties going to the even digit.
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// unattributed builds the single segment used when no speaker turns exist.
// Boundaries keep the transcriber's precision.
func unattributed(words []Word) Segment {
	return Segment{
		Speaker: Unknown,
		Start:   words[0].Start,
		End:     words[len(words)-1].End,
		Text:    joinWords(words),
		Words:   append([]Word(nil), words...),
	}
}

func buildSegment(speaker string, group []assignedWord) Segment {
	words := make([]Word, len(group))
	for i, w := range group {
		words[i] = w.Word
	}
	return Segment{
		Speaker: speaker,
		Start:   Round(words[0].Start, segmentPrecision),
		End:     Round(words[len(words)-1].End, segmentPrecision),
		Text:    joinWords(words),
		Words:   words,
	}
}

func joinWords(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}
