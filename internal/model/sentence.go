package model

import (
	"strings"

	"github.com/ppiankov/morphcorp/internal/textproc"
)

// Sentence is an ordered run of tokens together with the text it came from.
type Sentence struct {
	position int
	text     string
	tokens   []Token
}

// NewSentence builds a sentence at the 1-based position within its document.
// The token slice is copied.
func NewSentence(position int, text string, tokens []Token) Sentence {
	own := make([]Token, len(tokens))
	copy(own, tokens)
	return Sentence{position: position, text: text, tokens: own}
}

// Position returns the 1-based index of the sentence within its document.
func (s Sentence) Position() int { return s.position }

// Text returns the source slice of the sentence.
func (s Sentence) Text() string { return s.text }

// Tokens returns a copy of the sentence tokens in order.
func (s Sentence) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Len returns the number of tokens.
func (s Sentence) Len() int { return len(s.tokens) }

// SurfaceText joins token surfaces with single spaces. For whitespace
// tokenization it equals the whitespace-normalized sentence text.
func (s Sentence) SurfaceText() string {
	parts := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		parts[i] = t.Text()
	}
	return strings.Join(parts, " ")
}

// CleanedText joins the cleaned tokens with single spaces. Tokens that are
// empty once cleaned are left out.
func (s Sentence) CleanedText() string {
	parts := make([]string, 0, len(s.tokens))
	for _, t := range s.tokens {
		if c := t.Cleaned(); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// IsConsistent reports whether the tokens reconstruct the sentence text
// under whitespace normalization.
func (s Sentence) IsConsistent() bool {
	return s.SurfaceText() == textproc.NormalizeSpace(s.text)
}
