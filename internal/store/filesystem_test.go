package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/morphcorp/internal/model"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in string
		id int
		ok bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"01", 1, true},
		{"0", 0, false},
		{"", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1a", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.id, id, tt.in)
	}
}

func TestFileStore_List(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"2_raw.txt":     "два",
		"1_raw.txt":     "один",
		"01_raw.txt":    "снова один",
		"x_raw.txt":     "bad id",
		"1_meta.json":   "{}",
		"1_cleaned.txt": "один\n",
		"notes.md":      "ignored",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	s := NewFileStore(dir)
	l, err := s.List()
	require.NoError(t, err)

	assert.Equal(t, 8, l.Entries)
	require.Len(t, l.Raw, 3)
	assert.Equal(t, []int{1, 1, 2}, []int{l.Raw[0].ID, l.Raw[1].ID, l.Raw[2].ID})
	assert.Equal(t, "01_raw.txt", l.Raw[0].Name)
	require.Len(t, l.Meta, 1)
	assert.Equal(t, []string{"x_raw.txt"}, l.Invalid)
	assert.Equal(t, int64(len("два")), l.Raw[2].Size)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "nope")).List()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStore_Raw(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"1_raw.txt": "Мама мыла раму."})
	s := NewFileStore(dir)

	text, err := s.ReadRaw(1)
	require.NoError(t, err)
	assert.Equal(t, "Мама мыла раму.", text)

	size, err := s.RawSize(1)
	require.NoError(t, err)
	assert.Equal(t, int64(len("Мама мыла раму.")), size)

	_, err = s.ReadRaw(2)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStore_MetaRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	date := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	meta := model.Metadata{
		ID:             3,
		URL:            "https://example.com/a?b=1&c=2",
		Title:          "Заголовок <важный>",
		Date:           model.MetaDate{Time: date},
		Author:         "Автор",
		Topics:         []string{"политика"},
		POSFrequencies: map[string]int{"NOUN": 2},
	}
	require.NoError(t, s.WriteMeta(meta))

	raw, err := os.ReadFile(s.MetaPath(3))
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "\n    \"title\": \"Заголовок <важный>\"")
	assert.Contains(t, text, `"date": "2021-03-04 05:06:07"`)
	assert.Contains(t, text, "a?b=1&c=2")

	got, found, err := s.ReadMeta(3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, meta.Title, got.Title)
	assert.Equal(t, meta.Topics, got.Topics)
	assert.Equal(t, meta.POSFrequencies, got.POSFrequencies)
	assert.True(t, date.Equal(got.Date.Time))
}

func TestFileStore_ReadMetaMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())
	_, found, err := s.ReadMeta(1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_ReadMetaDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"4_meta.json": `{"title": "t"}`})

	got, found, err := NewFileStore(dir).ReadMeta(4)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, got.ID)
	assert.NotNil(t, got.Topics)
	assert.NotNil(t, got.POSFrequencies)
}

func TestFileStore_ReadMetaScraperShapes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1_meta.json": `{"id":1,"url":null,"title":"","date":null,"author":[],"topics":[],"pos_frequencies":{}}`,
		"2_meta.json": `{"id":2,"author":["Иванов","Петров"]}`,
		"3_meta.json": `{"id":3,"author":null}`,
	})
	s := NewFileStore(dir)

	got, found, err := s.ReadMeta(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.MetaAuthor(""), got.Author)
	assert.Empty(t, got.URL)
	assert.True(t, got.Date.IsZero())

	got, _, err = s.ReadMeta(2)
	require.NoError(t, err)
	assert.Equal(t, model.MetaAuthor("Иванов, Петров"), got.Author)

	got, _, err = s.ReadMeta(3)
	require.NoError(t, err)
	assert.Equal(t, model.MetaAuthor(""), got.Author)
}

func TestFileStore_MetaKeepsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"5_meta.json": `{"id": 5, "title": "t", "source": "scraper-2", "views": 12}`,
	})
	s := NewFileStore(dir)

	meta, _, err := s.ReadMeta(5)
	require.NoError(t, err)
	meta.POSFrequencies = map[string]int{"NOUN": 3}
	require.NoError(t, s.WriteMeta(meta))

	raw, err := os.ReadFile(s.MetaPath(5))
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "\n    \"source\": \"scraper-2\"")
	assert.Contains(t, text, `"views": 12`)
	assert.Contains(t, text, `"NOUN": 3`)

	again, _, err := s.ReadMeta(5)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"NOUN": 3}, again.POSFrequencies)
	assert.Len(t, again.Extra, 2)
}

func TestFileStore_ReadMetaErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1_meta.json": `{not json`,
		"2_meta.json": `{"id": 7}`,
	})
	s := NewFileStore(dir)

	_, _, err := s.ReadMeta(1)
	assert.Error(t, err)

	_, _, err = s.ReadMeta(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares id 7")
}

func TestFileStore_Artifacts(t *testing.T) {
	s := NewFileStore(t.TempDir())

	require.NoError(t, s.WriteArtifact(5, model.ArtifactCleaned, "мама мыла раму\n"))
	assert.Equal(t, filepath.Join(s.Dir(), "5_cleaned.txt"), s.ArtifactPath(5, model.ArtifactCleaned))
	assert.Equal(t, filepath.Join(s.Dir(), "5_morphological_conllu.conllu"), s.ArtifactPath(5, model.ArtifactMorphologicalConllu))

	text, err := s.ReadArtifact(5, model.ArtifactCleaned)
	require.NoError(t, err)
	assert.Equal(t, "мама мыла раму\n", text)

	size, err := s.ArtifactSize(5, model.ArtifactCleaned)
	require.NoError(t, err)
	assert.Equal(t, int64(len("мама мыла раму\n")), size)

	_, err = s.ArtifactSize(5, model.ArtifactMorphologicalConllu)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// No temp files are left behind
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}
}

func TestFileStore_WriteReport(t *testing.T) {
	s := NewFileStore(t.TempDir())

	path, err := s.WriteReport(2, "pos_frequencies.md", []byte("# chart\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "2_pos_frequencies.md"), path)

	_, err = s.WriteReport(2, "../escape.md", nil)
	assert.Error(t, err)
}
