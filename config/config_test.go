package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Equal(t, "data", filepath.Base(cfg.DataDir))
	assert.Equal(t, 5, cfg.PDF.MaxPages)
	assert.Equal(t, 50000, cfg.PDF.MaxChars)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 60*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, filepath.Join(cfg.DataDir, "papers"), cfg.PapersDir())
	assert.Equal(t, filepath.Join(cfg.DataDir, "images", "chroma_db"), StoreDir(cfg.ImagesDir()))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /tmp/library
store:
  backend: chroma
embedding:
  provider: openai
  model: text-embedding-3-small
`), 0644))
	t.Setenv("LOCALASSIST_STORE_BACKEND", "qdrant")
	t.Setenv("LOCALASSIST_PDF_MAX_PAGES", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/library", cfg.DataDir)
	assert.Equal(t, "qdrant", cfg.Store.Backend)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 2, cfg.PDF.MaxPages)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("LOCALASSIST_STORE_BACKEND", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid config")
}

func TestFinalizeValidatesOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Search.TopK = 0
	assert.Error(t, cfg.Finalize())

	cfg.Search.TopK = 3
	cfg.DataDir = "relative"
	require.NoError(t, cfg.Finalize())
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}
