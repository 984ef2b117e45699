package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNoCommand(t *testing.T) {
	out, err := run(t)
	assert.ErrorIs(t, err, errNoCommand)
	assert.Contains(t, out, "search_paper")
}

func TestArgumentValidation(t *testing.T) {
	_, err := run(t, "search_paper")
	assert.ErrorContains(t, err, "accepts 1 arg(s)")

	_, err = run(t, "sync_images", "extra")
	assert.Error(t, err)

	_, err = run(t, "search_image", "a dog", "--top_k", "0")
	assert.ErrorContains(t, err, "--top_k must be at least 1")
}

func TestListPapersOnEmptyLibrary(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "library")

	out, err := run(t, "list_papers", "--data_dir", dataDir, "--log_level", "error")
	require.NoError(t, err)
	assert.Equal(t, "No papers indexed\n", out)
	assert.Equal(t, dataDir, cfg.DataDir)

	_, err = os.Stat(filepath.Join(dataDir, "papers", "chroma_db"))
	assert.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "list_images", "--log_level", "loud")
	assert.ErrorContains(t, err, "invalid config")
}
