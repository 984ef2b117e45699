package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github/itish2003/localassist/config"
)

// ErrUnsupportedProvider is returned for an unknown embedding provider name.
var ErrUnsupportedProvider = errors.New("unsupported embedding provider")

// TextEmbedder turns text into a fixed-length vector.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ImageEmbedder embeds images and text into one shared space, so a text
// query can be compared against stored image vectors.
type ImageEmbedder interface {
	TextEmbedder
	EmbedImage(ctx context.Context, data []byte) ([]float32, error)
}

// NewTextEmbedder builds the configured paper embedder. Texts longer than
// ChunkSize are split and their chunk embeddings averaged.
func NewTextEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (TextEmbedder, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var inner TextEmbedder
	switch cfg.Provider {
	case "ollama", "":
		inner = NewOllamaEmbedder(httpClient, cfg.BaseURL, cfg.Model)
	case "openai":
		inner = NewOpenAIEmbedder(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "gemini":
		g, err := NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		inner = g
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}

	if cfg.ChunkSize > 0 {
		return NewChunkedEmbedder(inner, cfg.ChunkSize, cfg.ChunkOverlap), nil
	}
	return inner, nil
}

// NewImageEmbedder builds the CLIP client used for images.
func NewImageEmbedder(cfg config.CLIPConfig) ImageEmbedder {
	return NewCLIPEmbedder(&http.Client{Timeout: cfg.Timeout}, cfg.URL, cfg.ImageSize)
}
