package textproc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// SegmenterConfig configures sentence-boundary detection.
type SegmenterConfig struct {
	// Language selects the default abbreviation list (BCP 47 tag).
	Language string
	// Terminators are the runes that may end a sentence.
	Terminators string
	// Abbreviations extend the language defaults. Entries are compared
	// lower-cased and without the trailing dot.
	Abbreviations []string
	// SplitOnNewline treats every line break as a sentence boundary.
	SplitOnNewline bool
}

// DefaultSegmenterConfig returns the configuration used for Russian news text.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		Language:       "ru",
		Terminators:    ".!?…",
		SplitOnNewline: true,
	}
}

var defaultAbbreviations = map[language.Base][]string{
	mustBase("ru"): {"т.е", "т.д", "т.п", "т.к", "и.о", "г", "гг", "др", "пр", "см", "ср", "стр", "руб", "тыс", "млн", "млрд", "ул", "д", "им", "проф", "акад"},
	mustBase("en"): {"mr", "mrs", "ms", "dr", "prof", "st", "vs", "etc", "e.g", "i.e", "inc", "ltd", "jr", "sr"},
}

func mustBase(tag string) language.Base {
	b, _ := language.MustParse(tag).Base()
	return b
}

// Segmenter splits text into sentences.
type Segmenter struct {
	terminators    map[rune]bool
	abbreviations  map[string]bool
	splitOnNewline bool
}

// NewSegmenter builds a segmenter from cfg.
func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	if cfg.Terminators == "" {
		return nil, fmt.Errorf("segmenter: no sentence terminators configured")
	}

	s := &Segmenter{
		terminators:    make(map[rune]bool),
		abbreviations:  make(map[string]bool),
		splitOnNewline: cfg.SplitOnNewline,
	}
	for _, r := range cfg.Terminators {
		s.terminators[r] = true
	}

	if cfg.Language != "" {
		tag, err := language.Parse(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("segmenter: parse language %q: %w", cfg.Language, err)
		}
		base, _ := tag.Base()
		for _, a := range defaultAbbreviations[base] {
			s.abbreviations[a] = true
		}
	}
	for _, a := range cfg.Abbreviations {
		a = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(a)), ".")
		if a != "" {
			s.abbreviations[a] = true
		}
	}

	return s, nil
}

// Split returns the sentences of text in order. Each sentence is trimmed;
// empty sentences are dropped.
func (s *Segmenter) Split(text string) []string {
	var blocks []string
	if s.splitOnNewline {
		blocks = strings.Split(text, "\n")
	} else {
		blocks = strings.Split(text, "\n\n")
	}

	var sentences []string
	for _, block := range blocks {
		sentences = append(sentences, s.splitBlock(block)...)
	}
	return sentences
}

func (s *Segmenter) splitBlock(block string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(block); {
		r, size := utf8.DecodeRuneInString(block[i:])
		if !s.terminators[r] {
			i += size
			continue
		}

		// Consume the whole run of terminators and closing quotes/brackets.
		end := i + size
		for end < len(block) {
			next, nsize := utf8.DecodeRuneInString(block[end:])
			if !s.terminators[next] && !isClosing(next) {
				break
			}
			end += nsize
		}

		if s.isBoundary(block, start, i, end) {
			if sentence := strings.TrimSpace(block[start:end]); sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end
		}
		i = end
	}

	if tail := strings.TrimSpace(block[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// isBoundary decides whether the terminator run block[at:end] closes the
// sentence that started at start.
func (s *Segmenter) isBoundary(block string, start, at, end int) bool {
	if end >= len(block) {
		return true
	}

	next, _ := utf8.DecodeRuneInString(block[end:])
	if !unicode.IsSpace(next) {
		return false
	}

	rest := strings.TrimLeftFunc(block[end:], unicode.IsSpace)
	if rest == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(first) && !unicode.IsDigit(first) && !isOpening(first) {
		return false
	}

	// Only a plain dot can belong to an abbreviation or an initial.
	if r, _ := utf8.DecodeRuneInString(block[at:]); r != '.' {
		return true
	}
	word := lastWord(block[start:at])
	if word == "" {
		return true
	}
	if utf8.RuneCountInString(word) == 1 && unicode.IsUpper([]rune(word)[0]) {
		return false
	}
	return !s.abbreviations[strings.ToLower(word)]
}

func lastWord(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if idx := strings.LastIndexFunc(s, unicode.IsSpace); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) && r != '.'
	})
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’':
		return true
	}
	return false
}

func isOpening(r rune) bool {
	switch r {
	case '"', '\'', '(', '[', '«', '“', '‘', '—', '–', '-':
		return true
	}
	return false
}
