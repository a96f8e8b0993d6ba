package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/morphcorp/internal/analyzer"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/tagconv"
	"github.com/ppiankov/morphcorp/internal/textproc"
	"github.com/ppiankov/morphcorp/internal/ud"
)

// Tagger pairs an analyzer with the converter for its tagset.
type Tagger struct {
	Analyzer  analyzer.Analyzer
	Converter tagconv.Converter
}

// NewTagger builds a tagger whose converter matches the analyzer's tagset.
func NewTagger(a analyzer.Analyzer) (*Tagger, error) {
	conv, err := tagconv.New(a.Tagset())
	if err != nil {
		return nil, fmt.Errorf("tag converter for %s: %w", a.Name(), err)
	}
	return &Tagger{Analyzer: a, Converter: conv}, nil
}

// Annotate segments the raw text of a and, when the pipeline has a tagger,
// attaches morphology to every token. The article is not modified.
func (p *Pipeline) Annotate(ctx context.Context, a *model.Article) ([]model.Sentence, error) {
	raw := a.RawText
	if p.opts.StripMarkup {
		raw = textproc.StripMarkup(raw)
	}

	var texts []string
	var surfaces [][]string
	for _, s := range p.segmenter.Split(raw) {
		if tokens := textproc.Tokenize(s); len(tokens) > 0 {
			texts = append(texts, s)
			surfaces = append(surfaces, tokens)
		}
	}

	var analyses map[string]analyzer.Analysis
	if p.tagger != nil {
		var err error
		analyses, err = p.analyze(ctx, surfaces)
		if err != nil {
			return nil, err
		}
	}

	sentences := make([]model.Sentence, len(surfaces))
	for i, words := range surfaces {
		tokens := make([]model.Token, len(words))
		for j, surface := range words {
			var morph *model.MorphologicalParameters
			if p.tagger != nil {
				m := p.morphology(surface, analyses)
				morph = &m
			}
			tokens[j] = model.NewToken(j+1, surface, morph)
		}
		sentences[i] = model.NewSentence(i+1, texts[i], tokens)
		if !sentences[i].IsConsistent() {
			return nil, fmt.Errorf("sentence %d: tokens do not reconstruct the text", i+1)
		}
	}
	return sentences, nil
}

// analyze sends the distinct cleaned forms of the document to the analyzer
// in one call.
func (p *Pipeline) analyze(ctx context.Context, surfaces [][]string) (map[string]analyzer.Analysis, error) {
	seen := make(map[string]bool)
	var words []string
	for _, sentence := range surfaces {
		for _, surface := range sentence {
			w := textproc.Clean(surface)
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
		}
	}

	out := make(map[string]analyzer.Analysis, len(words))
	if len(words) == 0 {
		return out, nil
	}

	results, err := p.tagger.Analyzer.Analyze(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if len(results) != len(words) {
		return nil, fmt.Errorf("analyze: expected %d analyses, got %d", len(words), len(results))
	}
	for i, w := range words {
		out[w] = results[i]
	}
	return out, nil
}

// morphology converts the analysis of surface, falling back when the
// analyzer did not recognize it.
func (p *Pipeline) morphology(surface string, analyses map[string]analyzer.Analysis) model.MorphologicalParameters {
	cleaned := textproc.Clean(surface)
	if a, ok := analyses[cleaned]; ok && cleaned != "" && a.Found() {
		lemma := a.Lemma
		if lemma == "" {
			lemma = cleaned
		}
		return model.MorphologicalParameters{
			Lemma: lemma,
			POS:   p.tagger.Converter.ConvertPOS(a.Tag),
			Tags:  p.tagger.Converter.ConvertFeatures(a.Tag),
		}
	}
	return fallbackMorphology(surface, cleaned)
}

// fallbackMorphology labels tokens without an analysis: punctuation-only
// surfaces are PUNCT, digit-only ones NUM, the rest X.
func fallbackMorphology(surface, cleaned string) model.MorphologicalParameters {
	pos := ud.X
	switch {
	case cleaned == "" && textproc.IsPunctuation(surface):
		pos = ud.PUNCT
	case textproc.IsNumeric(cleaned):
		pos = ud.NUM
	}
	return model.MorphologicalParameters{Lemma: surface, POS: pos}
}
