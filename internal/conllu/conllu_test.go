package conllu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/morphcorp/internal/model"
)

func morph(lemma, pos, tags string) *model.MorphologicalParameters {
	return &model.MorphologicalParameters{Lemma: lemma, POS: pos, Tags: tags}
}

func sampleSentences() []model.Sentence {
	return []model.Sentence{
		model.NewSentence(1, "Мама мыла раму.", []model.Token{
			model.NewToken(1, "Мама", morph("мама", "NOUN", "Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing")),
			model.NewToken(2, "мыла", morph("мыть", "VERB", "Gender=Fem|Number=Sing|Tense=Past")),
			model.NewToken(3, "раму.", morph("рама", "NOUN", "Animacy=Inan|Case=Acc|Gender=Fem|Number=Sing")),
		}),
		model.NewSentence(2, "Ура — победа!", []model.Token{
			model.NewToken(1, "Ура", morph("ура", "INTJ", "")),
			model.NewToken(2, "—", morph("—", "PUNCT", "")),
			model.NewToken(3, "победа!", morph("победа", "NOUN", "Case=Nom|Gender=Fem|Number=Sing")),
		}),
	}
}

func TestFormatToken(t *testing.T) {
	tok := model.NewToken(2, "произошло", morph("происходить", "VERB", "Gender=Neut|Number=Sing|Tense=Past"))

	got := FormatToken(tok, Options{IncludeFeatures: true})
	assert.Equal(t, "2\tпроизошло\tпроисходить\tVERB\t_\tGender=Neut|Number=Sing|Tense=Past\t0\troot\t_\t_", got)

	got = FormatToken(tok, Options{})
	assert.Equal(t, "2\tпроизошло\tпроисходить\tVERB\t_\t_\t0\troot\t_\t_", got)

	bare := model.NewToken(1, "слово", nil)
	assert.Equal(t, "1\tслово\t_\t_\t_\t_\t0\troot\t_\t_", FormatToken(bare, Options{IncludeFeatures: true}))
}

func TestFormatSentence(t *testing.T) {
	s := model.NewSentence(3, "Два   слова", []model.Token{
		model.NewToken(1, "Два", nil),
		model.NewToken(2, "слова", nil),
	})

	want := "# sent_id = 3\n# text = Два слова\n1\tДва\t_\t_\t_\t_\t0\troot\t_\t_\n2\tслова\t_\t_\t_\t_\t0\troot\t_\t_\n\n"
	assert.Equal(t, want, FormatSentence(s, Options{}))
}

func TestRoundTrip(t *testing.T) {
	in := sampleSentences()
	text := Format(in, Options{IncludeFeatures: true})

	out, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].Position(), out[i].Position())
		assert.Equal(t, in[i].Text(), out[i].Text())

		want, got := in[i].Tokens(), out[i].Tokens()
		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Text(), got[j].Text())
			assert.Equal(t, want[j].Position(), got[j].Position())

			wm, wok := want[j].Morphology()
			gm, gok := got[j].Morphology()
			assert.Equal(t, wok, gok)
			assert.Equal(t, wm, gm)
		}
	}

	// Serializing the parsed result again is byte-identical.
	assert.Equal(t, text, Format(out, Options{IncludeFeatures: true}))
}

func TestRoundTrip_WithoutMorphology(t *testing.T) {
	in := []model.Sentence{model.NewSentence(1, "a b", []model.Token{
		model.NewToken(1, "a", nil),
		model.NewToken(2, "b", nil),
	})}

	out, err := ParseString(Format(in, Options{}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	for _, tok := range out[0].Tokens() {
		assert.False(t, tok.HasMorphology())
	}
}

func TestParse_SentIDWithoutBlankLines(t *testing.T) {
	text := strings.Join([]string{
		"# sent_id = 1",
		"# text = Один.",
		"1\tОдин.\tодин\tNUM\t_\t_\t0\troot\t_\t_",
		"# sent_id = 2",
		"# text = Два.",
		"1\tДва.\tдва\tNUM\t_\t_\t0\troot\t_\t_",
	}, "\n")

	out, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Position())
	assert.Equal(t, 2, out[1].Position())
	assert.Equal(t, "Два.", out[1].Text())
}

func TestParse_NoComments(t *testing.T) {
	text := "1\ta\ta\tNOUN\t_\t_\n2\tb\tb\tVERB\t_\t_\n\n1\tc\tc\tX\t_\t_\n"

	out, err := ParseString(text)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[1].Position())
	assert.Equal(t, "a b", out[0].Text())
}

func TestParse_Malformed(t *testing.T) {
	_, err := ParseString("# sent_id = 1\nnot a token line\n")
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

	_, err = ParseString("# sent_id = x\n")
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)

	_, err = ParseString("0\ta\ta\tNOUN\t_\t_\n")
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}

func TestParse_Empty(t *testing.T) {
	out, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
