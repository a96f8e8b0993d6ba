package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ArtifactType names a derived file produced for a document.
type ArtifactType string

const (
	ArtifactCleaned             ArtifactType = "cleaned"
	ArtifactMorphologicalConllu ArtifactType = "morphological_conllu"
	ArtifactFullConllu          ArtifactType = "full_conllu" // reserved for syntactic annotation
)

// Extension returns the file extension used for the artifact.
func (a ArtifactType) Extension() string {
	switch a {
	case ArtifactMorphologicalConllu, ArtifactFullConllu:
		return ".conllu"
	default:
		return ".txt"
	}
}

// MetaDateLayout is the date layout of the metadata file.
const MetaDateLayout = "2006-01-02 15:04:05"

// MetaDate is a publication date serialized with MetaDateLayout.
// The zero value is written as null.
type MetaDate struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (d MetaDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(MetaDateLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *MetaDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(MetaDateLayout, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MetaAuthor is the author field of the meta file. Scrapers write either a
// string or a list of names; a list is joined with ", " and null reads as "".
type MetaAuthor string

// UnmarshalJSON implements json.Unmarshaler.
func (a *MetaAuthor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case string(data) == "null":
		*a = ""
	case len(data) > 0 && data[0] == '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("author: %w", err)
		}
		kept := names[:0]
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				kept = append(kept, n)
			}
		}
		*a = MetaAuthor(strings.Join(kept, ", "))
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("author: %w", err)
		}
		*a = MetaAuthor(s)
	}
	return nil
}

// Metadata is the content of a document's meta file. Keys this package does
// not know are kept in Extra and written back after the known ones.
type Metadata struct {
	ID             int            `json:"id"`
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	Date           MetaDate       `json:"date"`
	Author         MetaAuthor     `json:"author"`
	Topics         []string       `json:"topics"`
	POSFrequencies map[string]int `json:"pos_frequencies"`

	Extra map[string]json.RawMessage `json:"-"`
}

// metadataFields has the layout of Metadata without its JSON methods.
type metadataFields Metadata

var metadataKeys = []string{"id", "url", "title", "date", "author", "topics", "pos_frequencies"}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var fields metadataFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range metadataKeys {
		delete(all, k)
	}
	fields.Extra = nil
	if len(all) > 0 {
		fields.Extra = all
	}
	*m = Metadata(fields)
	return nil
}

// MarshalJSON implements json.Marshaler. Extra keys follow the known ones
// in sorted order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(metadataFields(m)); err != nil {
		return nil, err
	}
	out := append([]byte(nil), bytes.TrimRight(buf.Bytes(), "\n")...)
	if len(m.Extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out = out[:len(out)-1] // drop the closing brace
	for _, k := range keys {
		buf.Reset()
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
		out = append(out, ':')
		out = append(out, m.Extra[k]...)
	}
	return append(out, '}'), nil
}

// Article is one document of the corpus.
type Article struct {
	ID        int
	RawText   string
	Sentences []Sentence
	Meta      Metadata
}

// NewArticle creates an article holding only its raw text.
func NewArticle(id int, raw string) *Article {
	return &Article{
		ID:      id,
		RawText: raw,
		Meta:    Metadata{ID: id, Topics: []string{}, POSFrequencies: map[string]int{}},
	}
}

// SetSentences replaces the annotation of the article.
func (a *Article) SetSentences(sentences []Sentence) {
	a.Sentences = sentences
}

// Tokens flattens the tokens of all sentences in document order.
func (a *Article) Tokens() []Token {
	var out []Token
	for _, s := range a.Sentences {
		out = append(out, s.Tokens()...)
	}
	return out
}

// CleanedText returns the cleaned sentences, one per line, each line
// terminated by a newline. Sentences with no cleaned tokens are skipped.
func (a *Article) CleanedText() string {
	var b strings.Builder
	for _, s := range a.Sentences {
		if c := s.CleanedText(); c != "" {
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	return b.String()
}
