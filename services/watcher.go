package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github/itish2003/localassist/models"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// paperWatch holds the state of one WatchDirectory run.
type paperWatch struct {
	manager  *PaperManager
	inbox    string
	topics   []string
	watcher  *fsnotify.Watcher
	onStatus func(string)
}

// WatchDirectory organizes the PDFs already in inbox, then keeps organizing
// new ones as they are written. Removals inside the papers folders trigger a
// sync. Events are handled one at a time; it returns when ctx is cancelled.
func (m *PaperManager) WatchDirectory(ctx context.Context, inbox string, topics []string, onStatus func(string)) error {
	absInbox, err := filepath.Abs(inbox)
	if err != nil {
		return err
	}
	if _, err := checkExists(absInbox); err != nil {
		return err
	}
	if isWithin(absInbox, m.PapersDir()) {
		return fmt.Errorf("refusing to watch %s: it is inside the papers directory %s", absInbox, m.PapersDir())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	w := &paperWatch{manager: m, inbox: absInbox, topics: topics, watcher: watcher, onStatus: onStatus}
	if err := w.start(ctx); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Errorf("WATCHER: %v", err)
		case <-ctx.Done():
			logrus.Info("WATCHER: Context cancelled, shutting down watcher.")
			return nil
		}
	}
}

func (w *paperWatch) start(ctx context.Context) error {
	if err := w.watcher.Add(w.inbox); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", w.inbox, err)
	}
	logrus.Infof("WATCHER: Watching directory: %s", w.inbox)

	if err := os.MkdirAll(w.manager.PapersDir(), os.ModePerm); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.manager.PapersDir())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchCategory(filepath.Join(w.manager.PapersDir(), e.Name()))
		}
	}

	for _, out := range w.manager.BatchOrganize(ctx, w.inbox, w.topics) {
		w.report(out)
	}
	w.sync(ctx)
	return nil
}

func (w *paperWatch) watchCategory(dir string) {
	if filepath.Base(dir) == "chroma_db" {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		logrus.Warnf("WATCHER: Could not watch %s: %v", dir, err)
	}
}

func (w *paperWatch) handle(ctx context.Context, event fsnotify.Event) {
	if !isPDF(event.Name) {
		return
	}
	logrus.Debugf("WATCHER: Event %s", event)

	inInbox := filepath.Dir(event.Name) == w.inbox
	switch {
	case inInbox && (event.Has(fsnotify.Create) || event.Has(fsnotify.Write)):
		// Editors and copy tools often emit several writes; upsert is idempotent.
		logrus.Infof("WATCHER: File modified/created: %s. Organizing...", event.Name)
		out := w.manager.AddPaper(ctx, event.Name, w.topics)
		if out.Err == nil && out.Target != "" {
			w.watchCategory(filepath.Dir(out.Target))
		}
		w.report(out)
	case !inInbox && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)):
		logrus.Infof("WATCHER: File removed/renamed: %s. Syncing index...", event.Name)
		w.sync(ctx)
	}
}

func (w *paperWatch) sync(ctx context.Context) {
	report, err := w.manager.SyncDatabase(ctx)
	if err != nil {
		logrus.Errorf("WATCHER: Failed to sync index: %v", err)
		return
	}
	for _, p := range report.DeletedPaths {
		w.status("Removed from index: " + p)
	}
}

func (w *paperWatch) report(out models.Outcome) {
	w.status(out.PaperStatus())
}

func (w *paperWatch) status(line string) {
	if w.onStatus != nil {
		w.onStatus(line)
	}
}

// isWithin reports whether path is root or lies beneath it.
func isWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
