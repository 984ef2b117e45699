package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github/itish2003/localassist/config"
	"github/itish2003/localassist/controller"
	"github/itish2003/localassist/services"
	"github/itish2003/localassist/store"

	"github.com/sirupsen/logrus"
)

var (
	_ controller.PaperService = (*services.PaperManager)(nil)
	_ controller.ImageService = (*services.ImageManager)(nil)
)

// newPaperController builds the paper manager from cfg. The returned closer
// releases the vector store.
func newPaperController(ctx context.Context, cfg *config.Config, out io.Writer) (*controller.PaperController, func(), error) {
	papersDir := cfg.PapersDir()
	if err := os.MkdirAll(papersDir, os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("could not create papers directory: %w", err)
	}

	embedder, err := services.NewTextEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}
	vs, err := store.Open(ctx, cfg.Store, papersDir, store.PapersCollection)
	if err != nil {
		return nil, nil, err
	}

	manager := services.NewPaperManager(papersDir, services.NewPDFExtractor(cfg.PDF), embedder, vs)
	return controller.NewPaperController(manager, out), closer(vs), nil
}

// newImageController builds the image manager from cfg.
func newImageController(ctx context.Context, cfg *config.Config, out io.Writer) (*controller.ImageController, func(), error) {
	imagesDir := cfg.ImagesDir()
	if err := os.MkdirAll(imagesDir, os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("could not create images directory: %w", err)
	}

	vs, err := store.Open(ctx, cfg.Store, imagesDir, store.ImagesCollection)
	if err != nil {
		return nil, nil, err
	}

	manager := services.NewImageManager(services.NewImageEmbedder(cfg.CLIP), vs)
	return controller.NewImageController(manager, out), closer(vs), nil
}

func closer(vs store.VectorStore) func() {
	return func() {
		if err := vs.Close(); err != nil {
			logrus.Warnf("Warning: Failed to close vector store: %v", err)
		}
	}
}
