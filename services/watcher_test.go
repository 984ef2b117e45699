package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithin(t *testing.T) {
	cases := []struct {
		path, root string
		want       bool
	}{
		{"/data/papers", "/data/papers", true},
		{"/data/papers/ml", "/data/papers", true},
		{"/data/papers-old", "/data/papers", false},
		{"/data", "/data/papers", false},
		{"/inbox", "/data/papers", false},
		{"/data/..papers", "/data", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isWithin(tc.path, tc.root), "%s in %s", tc.path, tc.root)
	}
}

func TestWatchDirectoryRejectsPapersDir(t *testing.T) {
	f := newPaperFixture(t)
	inside := filepath.Join(f.papers, "incoming")
	require.NoError(t, os.MkdirAll(inside, 0755))

	err := f.manager.WatchDirectory(context.Background(), inside, testTopics, nil)
	assert.ErrorContains(t, err, "inside the papers directory")

	err = f.manager.WatchDirectory(context.Background(), filepath.Join(f.inbox, "missing"), testTopics, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWatchDirectoryStopsOnCancel(t *testing.T) {
	f := newPaperFixture(t)
	f.pdf(t, "nn.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lines []string
	err := f.manager.WatchDirectory(ctx, f.inbox, testTopics, func(s string) {
		lines = append(lines, s)
		cancel()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Added: nn.pdf -> machine learning"}, lines)
}

func TestPaperWatchHandlesEvents(t *testing.T) {
	ctx := context.Background()
	f := newPaperFixture(t)
	require.NoError(t, os.MkdirAll(f.inbox, 0755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	var lines []string
	w := &paperWatch{
		manager:  f.manager,
		inbox:    f.inbox,
		topics:   testTopics,
		watcher:  watcher,
		onStatus: func(s string) { lines = append(lines, s) },
	}

	src := f.pdf(t, "qft.pdf")
	w.handle(ctx, fsnotify.Event{Name: src, Op: fsnotify.Create})
	w.handle(ctx, fsnotify.Event{Name: filepath.Join(f.inbox, "notes.txt"), Op: fsnotify.Create})
	require.Equal(t, []string{"Added: qft.pdf -> physics"}, lines)

	target := filepath.Join(f.papers, "physics", "qft.pdf")
	assert.Contains(t, watcher.WatchList(), filepath.Join(f.papers, "physics"))

	// Removing the source leaves the organized copy indexed.
	require.NoError(t, os.Remove(src))
	w.handle(ctx, fsnotify.Event{Name: src, Op: fsnotify.Remove})
	n, err := f.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, os.Remove(target))
	w.handle(ctx, fsnotify.Event{Name: target, Op: fsnotify.Remove})
	n, err = f.store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "Removed from index: "+target, lines[len(lines)-1])
}

func TestPaperWatchReclassifiesPartialWrite(t *testing.T) {
	ctx := context.Background()
	f := newPaperFixture(t)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	var lines []string
	w := &paperWatch{
		manager:  f.manager,
		inbox:    f.inbox,
		topics:   testTopics,
		watcher:  watcher,
		onStatus: func(s string) { lines = append(lines, s) },
	}

	// The first event sees a half-written file that cannot be parsed.
	src := f.pdf(t, "qft.pdf")
	delete(f.extractor, "qft.pdf")
	w.handle(ctx, fsnotify.Event{Name: src, Op: fsnotify.Create})

	f.extractor["qft.pdf"] = ExtractionResult{Text: "quantum fields"}
	w.handle(ctx, fsnotify.Event{Name: src, Op: fsnotify.Write})

	assert.Equal(t, []string{
		"Added: qft.pdf -> machine learning",
		"Added: qft.pdf -> physics",
	}, lines)
	assert.NoFileExists(t, filepath.Join(f.papers, "machine learning", "qft.pdf"))
	assert.FileExists(t, filepath.Join(f.papers, "physics", "qft.pdf"))

	docs, err := f.store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "physics", docs[0].Category())

	report, err := f.manager.SyncDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Zero(t, report.Deleted)
}

func TestPaperWatchSyncFailureLogsAtErrorLevel(t *testing.T) {
	f := newPaperFixture(t)
	hook := logtest.NewGlobal()
	defer hook.Reset()

	w := &paperWatch{manager: f.manager, inbox: f.inbox, topics: testTopics}
	require.NoError(t, f.store.Close())
	w.sync(context.Background())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "WATCHER: Failed to sync index")
	assert.NotContains(t, entry.Message, "ERROR")
}
