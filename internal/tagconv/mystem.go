package tagconv

import (
	"regexp"
	"strings"
	"unicode"
)

// MystemTag is a Mystem grammatical string, e.g. "S,жен,неод=(вин,ед|им,мн)".
type MystemTag string

func (t MystemTag) String() string { return string(t) }

var (
	mystemPOS          = regexp.MustCompile(`^[A-Za-z]+`)
	mystemAlternatives = regexp.MustCompile(`\([^)]*\)`)
	mystemTable        = mustLoadTable("mystem.yaml")
)

// MystemConverter converts flat Mystem tag strings.
type MystemConverter struct {
	table *table
}

// NewMystemConverter returns a converter backed by the built-in Mystem table.
func NewMystemConverter() *MystemConverter {
	return &MystemConverter{table: mystemTable}
}

// ConvertPOS maps the leading category of the tag string.
func (c *MystemConverter) ConvertPOS(tag Tag) string {
	return c.table.pos(mystemPOS.FindString(strings.TrimSpace(tag.String())))
}

// ConvertFeatures maps the grammemes of the tag string. Ambiguous groups
// such as "(вин,ед|им,мн)" contribute their first alternative only. When a
// category repeats, the last grammeme wins.
func (c *MystemConverter) ConvertFeatures(tag Tag) string {
	raw := tag.String()
	pos := c.ConvertPOS(tag)

	collapsed := mystemAlternatives.ReplaceAllStringFunc(raw, func(group string) string {
		group = strings.Trim(group, "()")
		if i := strings.Index(group, "|"); i >= 0 {
			group = group[:i]
		}
		return group
	})

	found := make(map[string]string)
	grammemes := strings.FieldsFunc(collapsed, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, g := range grammemes {
		category, ok := c.table.categories[g]
		if !ok {
			continue
		}
		found[category] = g
	}

	return c.table.formatFeatures(pos, func(category string) string {
		return found[category]
	})
}
