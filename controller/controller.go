// Package controller renders the results of the paper and image services as
// the human-readable lines the CLI prints.
package controller

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github/itish2003/localassist/models"

	"github.com/xlab/treeprint"
)

// PaperService is the part of services.PaperManager the CLI drives.
type PaperService interface {
	AddPaper(ctx context.Context, path string, topics []string) models.Outcome
	BatchOrganize(ctx context.Context, dir string, topics []string) []models.Outcome
	SearchPapers(ctx context.Context, query string, topK int) ([]models.SearchHit, error)
	SyncDatabase(ctx context.Context) (*models.SyncReport, error)
	ListPapers(ctx context.Context) ([]models.Document, error)
	WatchDirectory(ctx context.Context, dir string, topics []string, onStatus func(string)) error
}

// ImageService is the part of services.ImageManager the CLI drives.
type ImageService interface {
	AddImage(ctx context.Context, path string) models.Outcome
	IndexImages(ctx context.Context, dir string) []models.Outcome
	SearchImages(ctx context.Context, query string, topK int) ([]models.SearchHit, error)
	SyncImages(ctx context.Context) (*models.SyncReport, error)
	ListImages(ctx context.Context) ([]models.Document, error)
}

// ParseTopics splits a comma-separated topic list, trimming whitespace and
// dropping blank entries.
func ParseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

func printHits(w io.Writer, hits []models.SearchHit, noun, empty string) {
	if len(hits) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintf(w, "Found %d related %s:\n", len(hits), noun)
	for i, h := range hits {
		fmt.Fprintf(w, "%d. %s (similarity: %.3f)\n", i+1, h.Path, h.Similarity)
	}
}

func printSyncReport(w io.Writer, r *models.SyncReport) {
	fmt.Fprintln(w, "Database sync complete:")
	fmt.Fprintf(w, "  Total records: %d\n", r.Total)
	fmt.Fprintf(w, "  Kept records: %d\n", r.Kept)
	fmt.Fprintf(w, "  Deleted records: %d\n", r.Deleted)
	if r.Deleted > 0 {
		fmt.Fprintln(w, "\nDeleted file records:")
		for _, p := range r.DeletedPaths {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
}

// printTree groups documents under a branch per group key.
func printTree(w io.Writer, root string, docs []models.Document, group func(models.Document) string) {
	groups := map[string][]string{}
	for _, d := range docs {
		key := group(d)
		groups[key] = append(groups[key], filepath.Base(d.Path()))
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := treeprint.NewWithRoot(fmt.Sprintf("%s (%d)", root, len(docs)))
	for _, k := range keys {
		branch := tree.AddBranch(k)
		names := groups[k]
		sort.Strings(names)
		for _, n := range names {
			branch.AddNode(n)
		}
	}
	fmt.Fprint(w, tree.String())
}
