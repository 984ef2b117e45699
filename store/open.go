package store

import (
	"context"
	"fmt"

	"github/itish2003/localassist/config"
)

// Open returns the configured backend for one collection. modalityDir is the
// papers or images data directory; the SQLite backend keeps its file under it.
func Open(ctx context.Context, cfg config.StoreConfig, modalityDir, collection string) (VectorStore, error) {
	switch cfg.Backend {
	case "sqlite", "":
		return NewSQLiteStore(config.StoreDir(modalityDir), collection)
	case "chroma":
		return NewChromaStore(ctx, cfg.ChromaURL, collection)
	case "qdrant":
		return NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, collection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
