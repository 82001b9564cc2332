// Package fillers finds and removes filler words ("ну", "типа", "как бы")
// in transcript text.
//
// A Detector is built from a vocabulary. Entries containing a space are
// phrases and match as case-insensitive substrings; single words match
// whole Unicode word tokens only, so "вот" never matches inside "вотсап".
package fillers
