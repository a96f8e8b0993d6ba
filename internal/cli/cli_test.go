package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/morphcorp/internal/config"
	"github.com/ppiankov/morphcorp/internal/model"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# morphcorp configuration file"))
	assert.Contains(t, string(data), "analyzer:")

	// The written file loads back to the defaults
	v := viper.New()
	require.NoError(t, config.Setup(v))
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig().Analyzer, cfg.Analyzer)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFailedErr(t *testing.T) {
	assert.NoError(t, failedErr(nil))

	ok := &model.RunReport{Stage: model.StageBasic, Documents: []model.DocumentOutcome{
		model.NewDocumentOutcome(1, "a", nil, false, 0),
	}}
	assert.NoError(t, failedErr(ok))

	bad := &model.RunReport{Stage: model.StageFrequency, Documents: []model.DocumentOutcome{
		model.NewDocumentOutcome(1, "a", nil, false, 0),
		model.NewDocumentOutcome(2, "", os.ErrNotExist, false, 0),
	}}
	err := failedErr(bad)
	require.Error(t, err)
	assert.Equal(t, "frequency: 1 of 2 documents did not complete", err.Error())
}

func TestAnnotateBasicCommand(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_raw.txt"), []byte("Привет, мир! Как дела?\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2_raw.txt"), []byte("Мама мыла раму.\n"), 0644))

	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\ncache:\n  enabled: false\n"), 0644))

	rootCmd.SetArgs([]string{"annotate", "--config", cfgPath, "--tier", "basic", "--no-progress", dir})
	require.NoError(t, rootCmd.Execute())

	got, err := os.ReadFile(filepath.Join(dir, "1_cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "привет мир\nкак дела\n", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "2_cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "мама мыла раму\n", string(got))
}

func TestAnnotateKeepMarkup(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { keepMarkup = false })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_raw.txt"), []byte("<b>Мама</b> мыла раму.\n"), 0644))

	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\ncache:\n  enabled: false\n"), 0644))

	rootCmd.SetArgs([]string{"annotate", "--config", cfgPath, "--tier", "basic", "--keep-markup", "--no-progress", dir})
	require.NoError(t, rootCmd.Execute())

	got, err := os.ReadFile(filepath.Join(dir, "1_cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bмамаb мыла раму\n", string(got))
}
