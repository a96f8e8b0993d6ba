// Package ud holds the Universal Dependencies tables shared by the tag
// converters and the frequency aggregator. Both sides must agree on them
// exactly, so they live here and nowhere else.
package ud

// TablesVersion identifies the layout of the tables below. Bump it when the
// POS set, the feature order or the frequency taxonomy changes.
const TablesVersion = "ud-tables/v1"

// Universal part-of-speech labels.
const (
	ADJ   = "ADJ"
	ADP   = "ADP"
	ADV   = "ADV"
	AUX   = "AUX"
	CCONJ = "CCONJ"
	DET   = "DET"
	INTJ  = "INTJ"
	NOUN  = "NOUN"
	NUM   = "NUM"
	PART  = "PART"
	PRON  = "PRON"
	PROPN = "PROPN"
	PUNCT = "PUNCT"
	SCONJ = "SCONJ"
	SYM   = "SYM"
	VERB  = "VERB"
	X     = "X"
)

// Fallback is the label assigned when a native category cannot be translated.
const Fallback = X

// Feature categories.
const (
	Animacy = "Animacy"
	Case    = "Case"
	Gender  = "Gender"
	Number  = "Number"
	Tense   = "Tense"
)

// FeatureOrder is the canonical output order of features. It is alphabetical,
// as CONLL-U requires, and independent of the order the analyzer emitted them.
var FeatureOrder = []string{Animacy, Case, Gender, Number, Tense}

// FrequencyTaxonomy is the closed set of labels counted by the frequency
// aggregator, in report order.
var FrequencyTaxonomy = []string{NOUN, ADJ, ADV, VERB, NUM, ADP, CCONJ, X, PUNCT}

var posSet = map[string]bool{
	ADJ: true, ADP: true, ADV: true, AUX: true, CCONJ: true, DET: true,
	INTJ: true, NOUN: true, NUM: true, PART: true, PRON: true, PROPN: true,
	PUNCT: true, SCONJ: true, SYM: true, VERB: true, X: true,
}

// featuresByPOS lists which feature categories are emitted for a POS.
// POS labels missing here carry no features.
var featuresByPOS = map[string][]string{
	NOUN: {Animacy, Case, Gender, Number},
	PRON: {Animacy, Case, Gender, Number},
	VERB: {Gender, Number, Tense},
	ADJ:  {Case, Gender, Number},
	NUM:  {Case, Gender, Number},
}

// IsPOS reports whether label belongs to the universal POS set.
func IsPOS(label string) bool {
	return posSet[label]
}

// FeaturesFor returns the feature categories applicable to pos, in
// canonical order.
func FeaturesFor(pos string) []string {
	allowed := featuresByPOS[pos]
	if len(allowed) == 0 {
		return nil
	}
	out := make([]string, 0, len(allowed))
	for _, category := range FeatureOrder {
		for _, a := range allowed {
			if a == category {
				out = append(out, category)
				break
			}
		}
	}
	return out
}

// InTaxonomy reports whether label is one of the counted frequency categories.
func InTaxonomy(label string) bool {
	for _, l := range FrequencyTaxonomy {
		if l == label {
			return true
		}
	}
	return false
}
