package controller

import (
	"context"
	"fmt"
	"io"

	"github/itish2003/localassist/models"
	"github/itish2003/localassist/services"
)

// PaperController handles the paper commands. It depends on the PaperService
// to perform the actual work and writes results to out.
type PaperController struct {
	papers PaperService
	out    io.Writer
}

func NewPaperController(service PaperService, out io.Writer) *PaperController {
	return &PaperController{papers: service, out: out}
}

// AddPaper prints one status line; per-file failures are not returned.
func (c *PaperController) AddPaper(ctx context.Context, path string, topics []string) {
	fmt.Fprintln(c.out, c.papers.AddPaper(ctx, path, topics).PaperStatus())
}

func (c *PaperController) OrganizePapers(ctx context.Context, dir string, topics []string) {
	for _, out := range c.papers.BatchOrganize(ctx, dir, topics) {
		fmt.Fprintln(c.out, out.PaperStatus())
	}
}

func (c *PaperController) SearchPapers(ctx context.Context, query string, topK int) error {
	hits, err := c.papers.SearchPapers(ctx, query, topK)
	if err != nil {
		return err
	}
	printHits(c.out, hits, "papers", "No related papers found")
	return nil
}

func (c *PaperController) SyncPapers(ctx context.Context) error {
	report, err := c.papers.SyncDatabase(ctx)
	if err != nil {
		return err
	}
	printSyncReport(c.out, report)
	return nil
}

func (c *PaperController) ListPapers(ctx context.Context) error {
	docs, err := c.papers.ListPapers(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(c.out, "No papers indexed")
		return nil
	}
	printTree(c.out, "papers", docs, func(d models.Document) string {
		if d.Category() == "" {
			return services.Uncategorized
		}
		return d.Category()
	})
	return nil
}

// WatchPapers blocks until ctx is cancelled, printing a line per event.
func (c *PaperController) WatchPapers(ctx context.Context, dir string, topics []string) error {
	fmt.Fprintf(c.out, "Watching %s for new papers (Ctrl+C to stop)\n", dir)
	return c.papers.WatchDirectory(ctx, dir, topics, func(line string) {
		fmt.Fprintln(c.out, line)
	})
}
