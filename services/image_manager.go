package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github/itish2003/localassist/models"
	"github/itish2003/localassist/store"

	"github.com/sirupsen/logrus"
)

// ImageExtensions are the file types index_images picks up.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// IsImageFile reports whether path has a recognised image extension.
func IsImageFile(path string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ImageManager indexes images in a joint image/text space so they can be
// found by description. Images are not copied or categorised.
type ImageManager struct {
	embedder ImageEmbedder
	store    store.VectorStore
}

func NewImageManager(embedder ImageEmbedder, vs store.VectorStore) *ImageManager {
	return &ImageManager{embedder: embedder, store: vs}
}

// AddImage embeds the image and upserts it keyed by its absolute path.
func (m *ImageManager) AddImage(ctx context.Context, path string) models.Outcome {
	out := models.Outcome{Source: path}

	info, err := checkExists(path)
	if err != nil {
		out.Err = fmt.Errorf("image %w", err)
		return out
	}
	if info.IsDir() {
		out.Err = fmt.Errorf("%s is a directory", path)
		return out
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		out.Err = err
		return out
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		out.Err = err
		return out
	}
	embedding, err := m.embedder.EmbedImage(ctx, data)
	if err != nil {
		out.Err = fmt.Errorf("could not embed image %s: %w", filepath.Base(path), err)
		return out
	}

	err = m.store.Upsert(ctx, models.Document{
		ID:        absPath,
		Text:      absPath,
		Embedding: embedding,
		Metadata:  map[string]string{models.MetaPath: absPath},
	})
	if err != nil {
		out.Err = err
		return out
	}
	out.Target = absPath
	logrus.WithField("path", absPath).Info("SERVICE: Image added")
	return out
}

// IndexImages adds every recognised image directly inside dir.
func (m *ImageManager) IndexImages(ctx context.Context, dir string) []models.Outcome {
	files, err := listFiles(dir, IsImageFile)
	if err != nil {
		return []models.Outcome{{Source: dir, Err: err}}
	}
	logrus.Infof("INDEXER: Indexing %d images from %s", len(files), dir)

	results := make([]models.Outcome, 0, len(files))
	for _, f := range files {
		results = append(results, m.AddImage(ctx, f))
	}
	return results
}

func (m *ImageManager) SearchImages(ctx context.Context, query string, topK int) ([]models.SearchHit, error) {
	return searchCollection(ctx, m.store, m.embedder, query, topK)
}

func (m *ImageManager) SyncImages(ctx context.Context) (*models.SyncReport, error) {
	return syncCollection(ctx, m.store)
}

func (m *ImageManager) ListImages(ctx context.Context) ([]models.Document, error) {
	return m.store.GetAll(ctx)
}
