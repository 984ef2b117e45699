package store

import (
	"context"
	"path/filepath"
	"testing"

	"github/itish2003/localassist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, collection string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chroma_db"), collection)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func doc(id string, vec ...float32) models.Document {
	return models.Document{
		ID:        id,
		Text:      "text of " + id,
		Embedding: vec,
		Metadata:  map[string]string{models.MetaPath: id},
	}
}

func TestSQLiteStoreUpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, PapersCollection)

	require.NoError(t, s.Upsert(ctx, doc("/a.pdf", 1, 0, 0)))
	require.NoError(t, s.Upsert(ctx, doc("/b.pdf", 0, 1, 0)))
	require.NoError(t, s.Upsert(ctx, doc("/c.pdf", 0.7, 0.7, 0)))

	matches, err := s.Query(ctx, []float32{1, 0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "/a.pdf", matches[0].ID)
	assert.Equal(t, "/c.pdf", matches[1].ID)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
	assert.Equal(t, "text of /a.pdf", matches[0].Text)
	assert.Equal(t, "/a.pdf", matches[0].Path())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteStoreUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, PapersCollection)

	require.NoError(t, s.Upsert(ctx, doc("/a.pdf", 1, 0)))
	updated := doc("/a.pdf", 0, 1)
	updated.Metadata[models.MetaCategory] = "biology"
	require.NoError(t, s.Upsert(ctx, updated))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := s.Query(ctx, []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
	assert.Equal(t, "biology", matches[0].Category())
}

func TestSQLiteStoreGetAllAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ImagesCollection)

	require.NoError(t, s.Upsert(ctx, doc("/x.png", 1, 0)))
	require.NoError(t, s.Upsert(ctx, doc("/y.png", 0, 1)))
	require.NoError(t, s.Upsert(ctx, doc("/z.png", 1, 1)))

	docs, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "/x.png", docs[0].ID)
	assert.Nil(t, docs[0].Embedding)

	require.NoError(t, s.Delete(ctx, []string{"/x.png", "/z.png"}))
	require.NoError(t, s.Delete(ctx, nil))

	docs, err = s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "/y.png", docs[0].ID)
}

func TestSQLiteStoreCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "chroma_db")

	papers, err := NewSQLiteStore(dir, PapersCollection)
	require.NoError(t, err)
	defer papers.Close()
	images, err := NewSQLiteStore(dir, ImagesCollection)
	require.NoError(t, err)
	defer images.Close()

	require.NoError(t, papers.Upsert(ctx, doc("/a.pdf", 1, 0)))

	n, err := images.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "chroma_db")

	s, err := NewSQLiteStore(dir, PapersCollection)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(ctx, doc("/a.pdf", 1, 2, 3)))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(dir, PapersCollection)
	require.NoError(t, err)
	defer reopened.Close()

	matches, err := reopened.Query(ctx, []float32{1, 2, 3}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
}

func TestSQLiteStoreSkipsMismatchedDimensions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, PapersCollection)

	require.NoError(t, s.Upsert(ctx, doc("/short.pdf", 1, 0)))
	require.NoError(t, s.Upsert(ctx, doc("/long.pdf", 1, 0, 0)))

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/long.pdf", matches[0].ID)
}

func TestEmbeddingEncodingRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3}
	got, err := decodeEmbedding(encodeEmbedding(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	_, err = decodeEmbedding([]byte{1, 2, 3})
	assert.Error(t, err)
}
