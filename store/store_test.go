package store

import (
	"context"
	"testing"

	"github/itish2003/localassist/config"
	"github/itish2003/localassist/models"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 2})
	require.NoError(t, err)
	assert.InDelta(t, 0, sim, 1e-9)

	dist, err := CosineDistance([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2, dist, 1e-9)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
	_, err = CosineSimilarity(nil, nil)
	assert.Error(t, err)
	_, err = CosineSimilarity([]float32{0, 0}, []float32{1, 1})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: "sqlite"}, t.TempDir(), PapersCollection)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Backend: "redis"}, t.TempDir(), PapersCollection)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestQdrantPointIDIsStable(t *testing.T) {
	a := pointID("/data/papers/ml/a.pdf")
	b := pointID("/data/papers/ml/a.pdf")
	c := pointID("/data/papers/ml/b.pdf")
	assert.Equal(t, a.GetUuid(), b.GetUuid())
	assert.NotEqual(t, a.GetUuid(), c.GetUuid())
}

func TestPayloadToDocument(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		qdrantIDKey:         "/data/papers/ml/a.pdf",
		qdrantTextKey:       "attention is all you need",
		models.MetaPath:     "/data/papers/ml/a.pdf",
		models.MetaCategory: "ml",
	})
	doc := payloadToDocument(payload)
	assert.Equal(t, "/data/papers/ml/a.pdf", doc.ID)
	assert.Equal(t, "attention is all you need", doc.Text)
	assert.Equal(t, "ml", doc.Category())
	assert.Equal(t, "/data/papers/ml/a.pdf", doc.Path())
}
