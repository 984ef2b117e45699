package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github/itish2003/localassist/models"
	"github/itish2003/localassist/store"

	"github.com/sirupsen/logrus"
)

// ErrNotFound marks an input file or directory that does not exist.
var ErrNotFound = errors.New("file does not exist")

// checkExists returns an ErrNotFound-wrapped error when path is missing.
func checkExists(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// searchCollection embeds the query and returns up to topK hits, nearest
// first, with similarity = 1 - cosine distance.
func searchCollection(ctx context.Context, vs store.VectorStore, embedder TextEmbedder, query string, topK int) ([]models.SearchHit, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("top_k must be positive, got %d", topK)
	}
	count, err := vs.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []models.SearchHit{}, nil
	}

	queryEmbedding, err := embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}

	matches, err := vs.Query(ctx, queryEmbedding, min(topK, count))
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, models.SearchHit{Path: m.Path(), Similarity: 1 - m.Distance})
	}
	logrus.Debugf("SERVICE: Retrieved %d documents", len(hits))
	return hits, nil
}

// syncCollection deletes, in one batch, every record whose backing file is
// gone. Stat errors other than "not exist" keep the record.
func syncCollection(ctx context.Context, vs store.VectorStore) (*models.SyncReport, error) {
	docs, err := vs.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.SyncReport{Total: len(docs), DeletedPaths: []string{}}
	var deletedIDs []string
	for _, doc := range docs {
		path := doc.Path()
		_, err := os.Stat(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			deletedIDs = append(deletedIDs, doc.ID)
			report.DeletedPaths = append(report.DeletedPaths, path)
		case err != nil:
			logrus.WithField("path", path).Warnf("INDEXER: Could not stat file, keeping record: %v", err)
		}
	}

	if len(deletedIDs) > 0 {
		logrus.Infof("INDEXER: Removing %d missing files from index...", len(deletedIDs))
		if err := vs.Delete(ctx, deletedIDs); err != nil {
			return nil, err
		}
	}
	report.Deleted = len(deletedIDs)
	report.Kept = report.Total - report.Deleted
	return report, nil
}
