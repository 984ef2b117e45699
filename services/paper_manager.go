package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github/itish2003/localassist/models"
	"github/itish2003/localassist/store"

	"github.com/sirupsen/logrus"
)

// PaperManager classifies PDFs into topic folders and indexes them for
// semantic search.
type PaperManager struct {
	extractor  TextExtractor
	embedder   TextEmbedder
	classifier *Classifier
	organizer  *Organizer
	store      store.VectorStore
}

// NewPaperManager wires a manager whose classified copies live under papersDir.
func NewPaperManager(papersDir string, extractor TextExtractor, embedder TextEmbedder, vs store.VectorStore) *PaperManager {
	return &PaperManager{
		extractor:  extractor,
		embedder:   embedder,
		classifier: NewClassifier(embedder),
		organizer:  NewOrganizer(papersDir),
		store:      vs,
	}
}

// PapersDir is the root of the per-topic folders.
func (m *PaperManager) PapersDir() string {
	return m.organizer.RootDir
}

// AddPaper classifies a PDF, copies it into its topic folder and upserts it
// keyed by the copy's path. Errors are reported in the outcome.
func (m *PaperManager) AddPaper(ctx context.Context, path string, topics []string) models.Outcome {
	out := models.Outcome{Source: path}

	info, err := checkExists(path)
	if err != nil {
		out.Err = err
		return out
	}
	if info.IsDir() {
		out.Err = fmt.Errorf("%s is a directory", path)
		return out
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		out.Err = err
		return out
	}

	extraction := m.extractor.Extract(absPath)
	text := extraction.Text

	var embedding []float32
	switch {
	case extraction.Failed:
		out.Fallback = models.FallbackExtractionFailed
	case extraction.Empty():
		out.Fallback = models.FallbackNoText
	}

	if out.Fallback != models.FallbackNone {
		logrus.WithField("path", absPath).Warnf("SERVICE: No usable text (%s), assigning default topic.", out.Fallback)
		out.Category = DefaultTopic(topics)
		// Without text, the file name is the only searchable content.
		embedding, err = m.embedder.EmbedText(ctx, fileStem(absPath))
		if err != nil {
			out.Err = fmt.Errorf("could not generate embedding for %s: %w", filepath.Base(path), err)
			return out
		}
	} else {
		embedding, err = m.embedder.EmbedText(ctx, text)
		if err != nil {
			out.Err = fmt.Errorf("could not generate embedding for %s: %w", filepath.Base(path), err)
			return out
		}
		out.Category, err = m.classifier.Classify(ctx, embedding, topics)
		if err != nil {
			out.Err = err
			return out
		}
	}

	if _, err := m.organizer.CategoryDir(out.Category); err != nil {
		logrus.WithField("path", absPath).Warnf("SERVICE: %v, assigning %s.", err, Uncategorized)
		out.Category = Uncategorized
		if out.Fallback == models.FallbackNone {
			out.Fallback = models.FallbackInvalidCategory
		}
	}

	target, err := m.organizer.Place(absPath, out.Category)
	if err != nil {
		out.Err = err
		return out
	}
	out.Target = target

	err = m.store.Upsert(ctx, models.Document{
		ID:        target,
		Text:      text,
		Embedding: embedding,
		Metadata: map[string]string{
			models.MetaPath:     target,
			models.MetaCategory: out.Category,
			models.MetaSource:   absPath,
		},
	})
	if err != nil {
		out.Err = err
		return out
	}
	m.dropStaleCopies(ctx, absPath, target)

	logrus.WithFields(logrus.Fields{"path": target, "category": out.Category}).Info("SERVICE: Paper added")
	return out
}

// dropStaleCopies removes the records and organized copies left by earlier
// adds of source that landed somewhere other than target, e.g. when a partial
// file was first classified by its default topic.
func (m *PaperManager) dropStaleCopies(ctx context.Context, source, target string) {
	docs, err := m.store.GetAll(ctx)
	if err != nil {
		logrus.Warnf("SERVICE: Could not look up previous copies of %s: %v", source, err)
		return
	}

	var stale []string
	for _, d := range docs {
		if d.Metadata[models.MetaSource] != source || d.ID == target {
			continue
		}
		stale = append(stale, d.ID)
		p := d.Path()
		if !isWithin(p, m.PapersDir()) || samePath(p, source) {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("SERVICE: Could not remove previous copy %s: %v", p, err)
		}
	}
	if len(stale) == 0 {
		return
	}
	if err := m.store.Delete(ctx, stale); err != nil {
		logrus.Warnf("SERVICE: Could not delete previous records of %s: %v", source, err)
		return
	}
	logrus.WithField("path", target).Infof("SERVICE: Replaced %d previous copies", len(stale))
}

// BatchOrganize adds every PDF directly inside dir, in name order. Earlier
// successes stay committed when a later file fails.
func (m *PaperManager) BatchOrganize(ctx context.Context, dir string, topics []string) []models.Outcome {
	files, err := listFiles(dir, isPDF)
	if err != nil {
		return []models.Outcome{{Source: dir, Err: err}}
	}
	logrus.Infof("INDEXER: Organizing %d papers from %s", len(files), dir)

	results := make([]models.Outcome, 0, len(files))
	for _, f := range files {
		results = append(results, m.AddPaper(ctx, f, topics))
	}
	return results
}

func (m *PaperManager) SearchPapers(ctx context.Context, query string, topK int) ([]models.SearchHit, error) {
	return searchCollection(ctx, m.store, m.embedder, query, topK)
}

// SyncDatabase removes records whose organized copy no longer exists.
func (m *PaperManager) SyncDatabase(ctx context.Context) (*models.SyncReport, error) {
	return syncCollection(ctx, m.store)
}

func (m *PaperManager) ListPapers(ctx context.Context) ([]models.Document, error) {
	return m.store.GetAll(ctx)
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// listFiles returns the regular files directly inside dir accepted by keep,
// sorted by name.
func listFiles(dir string, keep func(string) bool) ([]string, error) {
	if _, err := checkExists(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !keep(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
