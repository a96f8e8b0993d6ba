// Package conllu reads and writes the CONLL-U-like sentence format used for
// morphological artifacts.
//
// Each sentence is a block:
//
//	# sent_id = 1
//	# text = Мама мыла раму.
//	1	Мама	мама	NOUN	_	Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing	0	root	_	_
//
// followed by a blank line. Absent values are written as "_".
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/textproc"
)

const (
	fieldSeparator = "\t"
	numFields      = 10
	empty          = "_"

	sentIDPrefix = "# sent_id = "
	textPrefix   = "# text = "

	// Syntactic columns are reserved; every token is attached to the root.
	headPlaceholder   = "0"
	deprelPlaceholder = "root"
)

// ErrMalformed is returned for input that cannot be parsed.
var ErrMalformed = errors.New("malformed conllu")

// Options control serialization.
type Options struct {
	// IncludeFeatures writes the feature column. When false it is "_".
	IncludeFeatures bool
}

// FormatToken renders a single token line without a trailing newline.
func FormatToken(t model.Token, opts Options) string {
	lemma, pos, feats := empty, empty, empty
	if m, ok := t.Morphology(); ok {
		lemma = orEmpty(m.Lemma)
		pos = orEmpty(m.POS)
		if opts.IncludeFeatures {
			feats = orEmpty(m.Tags)
		}
	}

	return strings.Join([]string{
		strconv.Itoa(t.Position()),
		t.Text(),
		lemma,
		pos,
		empty,
		feats,
		headPlaceholder,
		deprelPlaceholder,
		empty,
		empty,
	}, fieldSeparator)
}

// FormatSentence renders a sentence block including the trailing blank line.
func FormatSentence(s model.Sentence, opts Options) string {
	var b strings.Builder
	b.WriteString(sentIDPrefix)
	b.WriteString(strconv.Itoa(s.Position()))
	b.WriteString("\n")
	b.WriteString(textPrefix)
	b.WriteString(textproc.NormalizeSpace(s.Text()))
	b.WriteString("\n")
	for _, t := range s.Tokens() {
		b.WriteString(FormatToken(t, opts))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// Format renders all sentences.
func Format(sentences []model.Sentence, opts Options) string {
	var b strings.Builder
	for _, s := range sentences {
		b.WriteString(FormatSentence(s, opts))
	}
	return b.String()
}

// ParseToken parses one token line.
func ParseToken(line string) (model.Token, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < 6 {
		return model.Token{}, fmt.Errorf("%w: expected %d fields, got %d in %q", ErrMalformed, numFields, len(fields), line)
	}

	position, err := strconv.Atoi(fields[0])
	if err != nil || position < 1 {
		return model.Token{}, fmt.Errorf("%w: bad token position %q", ErrMalformed, fields[0])
	}

	if fields[3] == empty {
		return model.NewToken(position, fields[1], nil), nil
	}

	lemma := fields[2]
	if lemma == empty && fields[1] != empty {
		lemma = ""
	}
	feats := fields[5]
	if feats == empty {
		feats = ""
	}
	return model.NewToken(position, fields[1], &model.MorphologicalParameters{
		Lemma: lemma,
		POS:   fields[3],
		Tags:  feats,
	}), nil
}

// Parse reads sentence blocks from r. Blocks are separated by blank lines
// or by a new "# sent_id" comment.
func Parse(r io.Reader) ([]model.Sentence, error) {
	var (
		sentences []model.Sentence
		cur       *block
		lineNo    int
	)

	flush := func() {
		if cur != nil && (cur.hasID || len(cur.tokens) > 0) {
			sentences = append(sentences, cur.sentence(len(sentences)+1))
		}
		cur = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.TrimSpace(line) == "":
			flush()

		case strings.HasPrefix(line, "#"):
			if strings.HasPrefix(line, sentIDPrefix) {
				if cur != nil && (cur.hasID || len(cur.tokens) > 0) {
					flush()
				}
				if cur == nil {
					cur = &block{}
				}
				id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, sentIDPrefix)))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: bad sent_id", ErrMalformed, lineNo)
				}
				cur.id, cur.hasID = id, true
				continue
			}
			if cur == nil {
				cur = &block{}
			}
			if strings.HasPrefix(line, textPrefix) {
				cur.text = strings.TrimPrefix(line, textPrefix)
			}

		default:
			tok, err := ParseToken(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if cur == nil {
				cur = &block{}
			}
			cur.tokens = append(cur.tokens, tok)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read conllu: %w", err)
	}
	flush()

	return sentences, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]model.Sentence, error) {
	return Parse(strings.NewReader(s))
}

type block struct {
	id     int
	hasID  bool
	text   string
	tokens []model.Token
}

// sentence converts the block. Without a sent_id the ordinal is used.
func (b *block) sentence(ordinal int) model.Sentence {
	position := ordinal
	if b.hasID {
		position = b.id
	}
	text := b.text
	if text == "" {
		parts := make([]string, len(b.tokens))
		for i, t := range b.tokens {
			parts[i] = t.Text()
		}
		text = strings.Join(parts, " ")
	}
	return model.NewSentence(position, text, b.tokens)
}

func orEmpty(s string) string {
	if s == "" {
		return empty
	}
	return s
}
