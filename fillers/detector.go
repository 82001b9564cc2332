package fillers

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	wordToken      = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	spaceBeforeEnd = regexp.MustCompile(`\s+([,.?!;:])`)
	sentenceBreak  = regexp.MustCompile(`[.!?]\s+`)
)

// Result is the outcome of processing one piece of text.
type Result struct {
	Text         string   `json:"text"`
	HasFillers   bool     `json:"has_fillers"`
	CleanedText  string   `json:"cleaned_text"`
	FillersFound []string `json:"fillers_found"`
}

// Detector detects and removes fillers from one vocabulary. It is
// immutable after construction and safe for concurrent use.
type Detector struct {
	phrases  []string
	words    map[string]struct{}
	removals []*regexp.Regexp
	lower    cases.Caser
}

// New builds a Detector. Entries are lowercased and deduplicated; an empty
// vocabulary yields a Detector that never finds anything.
func New(vocabulary []string) *Detector {
	d := &Detector{
		words: make(map[string]struct{}),
		lower: cases.Lower(language.Und),
	}

	seen := make(map[string]bool)
	var singles []string
	for _, entry := range vocabulary {
		entry = strings.TrimSpace(d.lower.String(entry))
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		if strings.Contains(entry, " ") {
			d.phrases = append(d.phrases, entry)
		} else {
			d.words[entry] = struct{}{}
			singles = append(singles, entry)
		}
	}
	slices.Sort(d.phrases)
	slices.Sort(singles)

	for _, p := range d.phrases {
		d.removals = append(d.removals, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(p)))
	}
	for _, w := range singles {
		d.removals = append(d.removals, regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])`+regexp.QuoteMeta(w)+`([^\p{L}\p{N}_]|$)`))
	}
	return d
}

// NewDefault builds a Detector for the Russian vocabulary.
func NewDefault() *Detector {
	return New(Russian)
}

// Vocabulary returns the phrases followed by the single words, sorted.
func (d *Detector) Vocabulary() []string {
	words := make([]string, 0, len(d.words))
	for w := range d.words {
		words = append(words, w)
	}
	slices.Sort(words)
	return append(slices.Clone(d.phrases), words...)
}

// Detect lists every filler occurrence: phrases first, once per
// non-overlapping occurrence, then single words in text order.
func (d *Detector) Detect(text string) []string {
	found := []string{}
	lower := d.lower.String(text)

	for _, p := range d.phrases {
		for n := strings.Count(lower, p); n > 0; n-- {
			found = append(found, p)
		}
	}
	for _, tok := range wordToken.FindAllString(lower, -1) {
		if _, ok := d.words[tok]; ok {
			found = append(found, tok)
		}
	}
	return found
}

// Remove deletes fillers, collapses whitespace and pulls punctuation back
// onto the preceding word.
func (d *Detector) Remove(text string) string {
	result := text
	for _, re := range d.removals {
		// Adjacent fillers share a boundary character, so one pass can
		// leave the second of "ну ну" behind.
		for {
			next := re.ReplaceAllString(result, "${1}${2}")
			if next == result {
				break
			}
			result = next
		}
	}
	result = strings.TrimSpace(whitespaceRun.ReplaceAllString(result, " "))
	return spaceBeforeEnd.ReplaceAllString(result, "$1")
}

// Process runs detection and removal as requested. With remove off,
// CleanedText is the input unchanged; with detect off, FillersFound is empty.
func (d *Detector) Process(text string, detect, remove bool) Result {
	found := []string{}
	if detect {
		found = d.Detect(text)
	}
	cleaned := text
	if remove {
		cleaned = d.Remove(text)
	}
	return Result{
		Text:         text,
		HasFillers:   len(found) > 0,
		CleanedText:  cleaned,
		FillersFound: found,
	}
}

// SplitSentences splits after '.', '!' or '?' followed by whitespace. The
// punctuation stays with its sentence. Blank text comes back as [text].
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{text}
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		// loc[0] is the punctuation mark; the sentence keeps it.
		sentences = append(sentences, text[last:loc[0]+1])
		last = loc[1]
	}
	return append(sentences, text[last:])
}
