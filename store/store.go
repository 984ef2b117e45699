// Package store persists document embeddings per modality and answers
// nearest-neighbour queries over them. Backends: a local SQLite file, a Chroma
// server and a Qdrant server.
package store

import (
	"context"
	"errors"

	"github/itish2003/localassist/models"
)

// Collection names, one per modality.
const (
	PapersCollection = "papers"
	ImagesCollection = "images"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown vector store backend")

// VectorStore is a persistent collection of documents keyed by file path.
type VectorStore interface {
	// Upsert inserts the document or overwrites the record with the same ID.
	Upsert(ctx context.Context, doc models.Document) error
	// Query returns up to n documents nearest to embedding by cosine
	// distance, nearest first.
	Query(ctx context.Context, embedding []float32, n int) ([]models.Match, error)
	// GetAll returns every record in the collection without embeddings.
	GetAll(ctx context.Context) ([]models.Document, error)
	// Delete removes the records with the given IDs in one batch.
	Delete(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
