package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github/itish2003/localassist/store"

	"github.com/stretchr/testify/require"
)

var errEmbed = errors.New("model unavailable")

// fakeEmbedder returns fixed vectors per text and a neutral vector otherwise.
type fakeEmbedder struct {
	vectors map[string][]float32
	images  map[string][]float32
	fail    map[string]bool
	calls   map[string]int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		vectors: map[string][]float32{
			"machine learning":     {1, 0, 0},
			"biology":              {0, 1, 0},
			"physics":              {0, 0, 1},
			"deep neural networks": {0.9, 0.1, 0},
			"cell genetics":        {0.1, 0.9, 0.05},
			"quantum fields":       {0.05, 0.1, 0.95},
			"a photo of a cat":     {0, 0.95, 0.05},
			"a red sports car":     {0.95, 0, 0.05},
		},
		images: map[string][]float32{
			"cat-pixels": {0, 1, 0},
			"car-pixels": {1, 0, 0},
		},
		fail:  map[string]bool{},
		calls: map[string]int{},
	}
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.calls[text]++
	if f.fail[text] {
		return nil, errEmbed
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0.3, 0.3, 0.3}, nil
}

func (f *fakeEmbedder) EmbedImage(_ context.Context, data []byte) ([]float32, error) {
	if v, ok := f.images[string(data)]; ok {
		return v, nil
	}
	return nil, errors.New("decode image: unknown format")
}

// fakeExtractor maps file base names to extraction results.
type fakeExtractor map[string]ExtractionResult

func (f fakeExtractor) Extract(path string) ExtractionResult {
	if r, ok := f[filepath.Base(path)]; ok {
		return r
	}
	return ExtractionResult{Failed: true, Err: errors.New("not a pdf")}
}

func newStore(t *testing.T, dir, collection string) store.VectorStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "chroma_db"), collection)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func removeFile(path string) error {
	return os.Remove(path)
}
