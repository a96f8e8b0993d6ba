package model

import "github.com/ppiankov/morphcorp/internal/textproc"

// MorphologicalParameters carries the analysis of one token.
type MorphologicalParameters struct {
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`  // analyzer-native before conversion, UD label after
	Tags  string `json:"tags"` // feature bundle, e.g. "Case=Nom|Number=Sing"
}

// Token is a single whitespace-delimited unit of a sentence. It is immutable:
// the surface text, position and morphology are fixed by NewToken.
type Token struct {
	text     string
	position int
	morph    *MorphologicalParameters
}

// NewToken builds a token at the 1-based position within its sentence.
// morph is nil when no analysis stage has run.
func NewToken(position int, text string, morph *MorphologicalParameters) Token {
	t := Token{text: text, position: position}
	if morph != nil {
		m := *morph
		t.morph = &m
	}
	return t
}

// Text returns the surface form as it appeared in the source.
func (t Token) Text() string { return t.text }

// Position returns the 1-based index of the token within its sentence.
func (t Token) Position() int { return t.position }

// Morphology returns the attached analysis, if any.
func (t Token) Morphology() (MorphologicalParameters, bool) {
	if t.morph == nil {
		return MorphologicalParameters{}, false
	}
	return *t.morph, true
}

// HasMorphology reports whether an analysis is attached.
func (t Token) HasMorphology() bool { return t.morph != nil }

// Cleaned returns the lower-cased surface form with punctuation and symbols
// removed. It is recomputed on every call.
func (t Token) Cleaned() string {
	return textproc.Clean(t.text)
}
