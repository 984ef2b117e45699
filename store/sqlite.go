package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github/itish2003/localassist/models"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    document TEXT,
    metadata TEXT,
    embedding BLOB,
    PRIMARY KEY (collection, id)
);
`

// SQLiteFile is the database file name inside the store directory.
const SQLiteFile = "vectors.sqlite"

// SQLiteStore keeps a collection in a local SQLite file. Queries are an
// exhaustive cosine scan over the collection.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

// NewSQLiteStore opens (creating if needed) the database under dir.
func NewSQLiteStore(dir, collection string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create store directory %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, SQLiteFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite store at %s: %w", dbPath, err)
	}
	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create records table: %w", err)
	}
	logrus.WithField("path", dbPath).Debugf("STORE: Opened sqlite collection '%s'", collection)
	return &SQLiteStore{db: db, collection: collection}, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, doc models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("store: document ID must be set")
	}
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", doc.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, document, metadata, embedding)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET
		   document = excluded.document,
		   metadata = excluded.metadata,
		   embedding = excluded.embedding`,
		s.collection, doc.ID, doc.Text, string(meta), encodeEmbedding(doc.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", doc.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, embedding []float32, n int) ([]models.Match, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, metadata, embedding FROM records WHERE collection = ?`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		doc, blob, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", doc.ID, err)
		}
		dist, err := CosineDistance(embedding, vec)
		if err != nil {
			logrus.WithField("id", doc.ID).Warnf("STORE: Skipping record: %v", err)
			continue
		}
		matches = append(matches, models.Match{Document: doc, Distance: dist})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, metadata, NULL FROM records WHERE collection = ? ORDER BY id`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, _, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, s.collection, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, s.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecord(rows *sql.Rows) (models.Document, []byte, error) {
	var (
		doc  models.Document
		text sql.NullString
		meta sql.NullString
		blob []byte
	)
	if err := rows.Scan(&doc.ID, &text, &meta, &blob); err != nil {
		return doc, nil, fmt.Errorf("failed to scan record: %w", err)
	}
	doc.Text = text.String
	doc.Metadata = map[string]string{}
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &doc.Metadata); err != nil {
			logrus.WithField("id", doc.ID).Warnf("STORE: could not decode metadata: %v", err)
		}
	}
	return doc, blob, nil
}

// encodeEmbedding stores a vector as little-endian IEEE 754 float32 values.
func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

var _ VectorStore = (*SQLiteStore)(nil)
