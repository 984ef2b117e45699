package controller

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github/itish2003/localassist/models"
)

// ImageController handles the image commands.
type ImageController struct {
	images ImageService
	out    io.Writer
}

func NewImageController(service ImageService, out io.Writer) *ImageController {
	return &ImageController{images: service, out: out}
}

func (c *ImageController) AddImage(ctx context.Context, path string) {
	fmt.Fprintln(c.out, c.images.AddImage(ctx, path).ImageStatus())
}

func (c *ImageController) IndexImages(ctx context.Context, dir string) {
	for _, out := range c.images.IndexImages(ctx, dir) {
		fmt.Fprintln(c.out, out.ImageStatus())
	}
}

func (c *ImageController) SearchImages(ctx context.Context, query string, topK int) error {
	hits, err := c.images.SearchImages(ctx, query, topK)
	if err != nil {
		return err
	}
	printHits(c.out, hits, "images", "No related images found")
	return nil
}

func (c *ImageController) SyncImages(ctx context.Context) error {
	report, err := c.images.SyncImages(ctx)
	if err != nil {
		return err
	}
	printSyncReport(c.out, report)
	return nil
}

func (c *ImageController) ListImages(ctx context.Context) error {
	docs, err := c.images.ListImages(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(c.out, "No images indexed")
		return nil
	}
	printTree(c.out, "images", docs, func(d models.Document) string {
		return filepath.Dir(d.Path())
	})
	return nil
}
