package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/textsplitter"
)

// ChunkedEmbedder embeds long texts as the mean of their chunk embeddings.
// Texts that fit in one chunk go straight to the wrapped embedder.
type ChunkedEmbedder struct {
	inner     TextEmbedder
	splitter  textsplitter.RecursiveCharacter
	chunkSize int
}

func NewChunkedEmbedder(inner TextEmbedder, chunkSize, chunkOverlap int) *ChunkedEmbedder {
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &ChunkedEmbedder{
		inner: inner,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		chunkSize: chunkSize,
	}
}

func (c *ChunkedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len([]rune(text)) <= c.chunkSize {
		return c.inner.EmbedText(ctx, text)
	}

	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("could not split text: %w", err)
	}
	if len(chunks) == 0 {
		return c.inner.EmbedText(ctx, text)
	}
	logrus.Debugf("EMBEDDER: Split text into %d chunks.", len(chunks))

	var sum []float32
	for i, chunk := range chunks {
		vec, err := c.inner.EmbedText(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("could not embed chunk %d: %w", i, err)
		}
		if sum == nil {
			sum = make([]float32, len(vec))
		}
		if len(vec) != len(sum) {
			return nil, fmt.Errorf("chunk %d has dimension %d, expected %d", i, len(vec), len(sum))
		}
		for j, v := range vec {
			sum[j] += v
		}
	}
	n := float32(len(chunks))
	for j := range sum {
		sum[j] /= n
	}
	return sum, nil
}
