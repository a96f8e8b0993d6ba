package visualize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/morphcorp/internal/store"
	"github.com/ppiankov/morphcorp/internal/ud"
)

func TestRender(t *testing.T) {
	out := Render(7, map[string]int{"NOUN": 2, "VERB": 1, "PUNCT": 1, "PRON": 5}, 10)

	assert.Contains(t, out, "# POS frequencies: document 7\n")
	assert.Contains(t, out, "Tokens counted: 4\n")
	assert.Contains(t, out, "NOUN   "+strings.Repeat("█", 10)+"     2  50.0%\n")
	assert.Contains(t, out, "VERB   "+strings.Repeat("█", 5)+strings.Repeat(" ", 5)+"     1  25.0%\n")
	assert.NotContains(t, out, "PRON")

	// Every taxonomy label appears once, in order.
	last := -1
	for _, label := range ud.FrequencyTaxonomy {
		i := strings.Index(out, "\n"+label+" ")
		require.GreaterOrEqual(t, i, 0, label)
		assert.Greater(t, i, last, label)
		last = i
	}
}

func TestRender_Empty(t *testing.T) {
	out := Render(1, map[string]int{}, 10)
	assert.Contains(t, out, "Tokens counted: 0\n")
	assert.Contains(t, out, "NOUN   "+strings.Repeat(" ", 10)+"     0   0.0%\n")
}

func TestRender_SmallCountsStayVisible(t *testing.T) {
	out := Render(1, map[string]int{"NOUN": 1000, "ADV": 1}, 10)
	assert.Contains(t, out, "ADV    █"+strings.Repeat(" ", 9))
}

func TestMarkdown_Visualize(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	m := NewMarkdown(s, 0)

	path, err := m.Visualize(context.Background(), 3, map[string]int{"NOUN": 1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "3_pos_frequencies.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "document 3")
}

func TestMarkdown_Cancelled(t *testing.T) {
	m := NewMarkdown(store.NewFileStore(t.TempDir()), 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Visualize(ctx, 1, nil)
	assert.Error(t, err)
}
