package tagconv

import (
	"strings"
)

var openCorporaTable = mustLoadTable("opencorpora.yaml")

// OpenCorporaTag is a structured OpenCorpora tag as produced by pymorphy,
// queryable by category.
type OpenCorporaTag struct {
	raw       string
	pos       string
	grammemes map[string]string
}

// ParseOpenCorporaTag parses a pymorphy tag string such as
// "NOUN,anim,masc sing,nomn". Grammemes of unknown category are ignored.
func ParseOpenCorporaTag(raw string) OpenCorporaTag {
	tag := OpenCorporaTag{raw: raw, grammemes: make(map[string]string)}

	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	for i, g := range fields {
		if i == 0 {
			if _, ok := openCorporaTable.POS[g]; ok {
				tag.pos = g
				continue
			}
		}
		if category, ok := openCorporaTable.categories[g]; ok {
			if _, seen := tag.grammemes[category]; !seen {
				tag.grammemes[category] = g
			}
		}
	}
	return tag
}

// String returns the original tag string.
func (t OpenCorporaTag) String() string { return t.raw }

// Grammeme returns the grammeme of category, CategoryPOS included.
func (t OpenCorporaTag) Grammeme(category string) string {
	if category == CategoryPOS {
		return t.pos
	}
	return t.grammemes[category]
}

// OpenCorporaConverter converts structured OpenCorpora tags.
type OpenCorporaConverter struct {
	table *table
}

// NewOpenCorporaConverter returns a converter backed by the built-in
// OpenCorpora table.
func NewOpenCorporaConverter() *OpenCorporaConverter {
	return &OpenCorporaConverter{table: openCorporaTable}
}

// ConvertPOS maps the POS attribute of the tag.
func (c *OpenCorporaConverter) ConvertPOS(tag Tag) string {
	return c.table.pos(querier(tag).Grammeme(CategoryPOS))
}

// ConvertFeatures queries every applicable category and maps the present ones.
func (c *OpenCorporaConverter) ConvertFeatures(tag Tag) string {
	q := querier(tag)
	pos := c.table.pos(q.Grammeme(CategoryPOS))
	return c.table.formatFeatures(pos, q.Grammeme)
}

// querier returns tag itself when it is structured, otherwise parses its
// string form.
func querier(tag Tag) GrammemeQuerier {
	if q, ok := tag.(GrammemeQuerier); ok {
		return q
	}
	return ParseOpenCorporaTag(tag.String())
}
