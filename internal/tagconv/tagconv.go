// Package tagconv converts analyzer-native morphological tags into Universal
// Dependencies part-of-speech labels and feature strings.
package tagconv

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/morphcorp/internal/ud"
)

//go:embed data/*.yaml
var tables embed.FS

// CategoryPOS is the category name under which a structured tag exposes
// its part of speech.
const CategoryPOS = "POS"

// Tag is an analyzer-native tag.
type Tag interface {
	String() string
}

// GrammemeQuerier is a structured tag whose grammatical categories can be
// queried by name (CategoryPOS or one of ud.FeatureOrder). Absent categories
// return "".
type GrammemeQuerier interface {
	Tag
	Grammeme(category string) string
}

// Converter maps native tags onto UD. Implementations never fail: a POS
// they cannot translate becomes ud.Fallback and unknown features are dropped.
type Converter interface {
	ConvertPOS(tag Tag) string
	ConvertFeatures(tag Tag) string
}

// Tagset identifies the tag representation produced by an analyzer.
type Tagset string

const (
	TagsetMystem      Tagset = "mystem"
	TagsetOpenCorpora Tagset = "opencorpora"
)

// New returns the converter for tagset.
func New(tagset Tagset) (Converter, error) {
	switch tagset {
	case TagsetMystem:
		return NewMystemConverter(), nil
	case TagsetOpenCorpora:
		return NewOpenCorporaConverter(), nil
	default:
		return nil, fmt.Errorf("unknown tagset: %q (supported: mystem, opencorpora)", tagset)
	}
}

// Decode rebuilds a native tag from its string form.
func Decode(tagset Tagset, raw string) (Tag, error) {
	switch tagset {
	case TagsetMystem:
		return MystemTag(raw), nil
	case TagsetOpenCorpora:
		return ParseOpenCorporaTag(raw), nil
	default:
		return nil, fmt.Errorf("unknown tagset: %q", tagset)
	}
}

// table is a native-to-UD mapping loaded from data/.
type table struct {
	POS      map[string]string            `yaml:"pos"`
	Features map[string]map[string]string `yaml:"features"`

	// category of every grammeme listed under Features
	categories map[string]string
}

func mustLoadTable(name string) *table {
	data, err := tables.ReadFile("data/" + name)
	if err != nil {
		panic(fmt.Sprintf("tagconv: read %s: %v", name, err))
	}

	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		panic(fmt.Sprintf("tagconv: parse %s: %v", name, err))
	}

	t.categories = make(map[string]string)
	for category, values := range t.Features {
		for grammeme := range values {
			t.categories[grammeme] = category
		}
	}
	return &t
}

// pos maps a native POS code, falling back to ud.Fallback.
func (t *table) pos(native string) string {
	if label, ok := t.POS[native]; ok && ud.IsPOS(label) {
		return label
	}
	return ud.Fallback
}

// formatFeatures renders the features applicable to pos in canonical order.
// value returns the native grammeme of a category, or "".
func (t *table) formatFeatures(pos string, value func(category string) string) string {
	var parts []string
	for _, category := range ud.FeaturesFor(pos) {
		native := value(category)
		if native == "" {
			continue
		}
		if v, ok := t.Features[category][native]; ok {
			parts = append(parts, category+"="+v)
		}
	}
	return strings.Join(parts, "|")
}
