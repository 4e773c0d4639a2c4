package serve

import (
	"context"
	"time"

	"github.com/jorge-barreto/folio/internal/loader"
	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/pipeline"
)

const (
	baseInterval       = 1 * time.Second
	defaultMaxInterval = 60 * time.Second
)

// RebuildFunc runs one pipeline pass over the current content.
type RebuildFunc func(ctx context.Context) *pipeline.Outcome

type fileStat struct {
	modTime int64
	size    int64
}

// Watcher polls a content root and republishes the registry when files
// change.
type Watcher struct {
	Root        string
	Ignore      []string
	MaxInterval time.Duration

	live    *Live
	rebuild RebuildFunc

	// OnOutcome, if set, is called after every rebuild.
	OnOutcome func(*pipeline.Outcome)

	snapshot map[string]fileStat
	nextPoll time.Time
}

// NewWatcher creates a Watcher over root that publishes into live.
func NewWatcher(root string, live *Live, rebuild RebuildFunc) *Watcher {
	return &Watcher{
		Root:        root,
		MaxInterval: defaultMaxInterval,
		live:        live,
		rebuild:     rebuild,
	}
}

// Run blocks until ctx is cancelled. It ticks at baseInterval and polls
// only once the adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Before(w.nextPoll) {
				continue
			}
			w.poll(ctx)
		}
	}
}

// poll compares the content tree with the previous snapshot. The first
// poll only records a baseline. It reports whether a rebuild ran.
func (w *Watcher) poll(ctx context.Context) bool {
	logger := logging.FromContext(ctx)

	snap, err := w.capture(ctx)
	if err != nil {
		logger.Warn("watcher.snapshot", "root", w.Root, "err", err)
		w.nextPoll = time.Now().Add(w.maxInterval())
		return false
	}
	interval := pollInterval(len(snap), w.maxInterval())
	w.nextPoll = time.Now().Add(interval)

	if w.snapshot == nil {
		logger.Debug("watcher.baseline", "root", w.Root, "files", len(snap))
		w.snapshot = snap
		return false
	}
	if snapshotsEqual(w.snapshot, snap) {
		return false
	}

	logger.Info("watcher.changed", "root", w.Root, "files", len(snap))
	out := w.live.Rebuild(ctx, w.rebuild)
	if w.OnOutcome != nil {
		w.OnOutcome(out)
	}

	switch {
	case out.Published():
		w.snapshot = snap
		logger.Info("watcher.swapped", "run", out.RunID.String(), "entries", out.Registry.Len())
	case out.Err != nil:
		// Keep the old snapshot so the next poll retries.
		logger.Warn("watcher.rebuild", "run", out.RunID.String(), "err", out.Err)
	default:
		// Rejected content only changes with the next edit.
		w.snapshot = snap
		errs, _ := out.Report.Counts()
		logger.Warn("watcher.rejected", "run", out.RunID.String(), "errors", errs)
	}
	return true
}

func (w *Watcher) maxInterval() time.Duration {
	if w.MaxInterval <= 0 {
		return defaultMaxInterval
	}
	return w.MaxInterval
}

func (w *Watcher) capture(ctx context.Context) (map[string]fileStat, error) {
	files, err := loader.Discover(ctx, w.Root, w.Ignore)
	if err != nil {
		return nil, err
	}
	snap := make(map[string]fileStat, len(files))
	for _, f := range files {
		snap[f.RelPath] = fileStat{modTime: f.ModTime, size: f.Size}
	}
	return snap, nil
}

func snapshotsEqual(a, b map[string]fileStat) bool {
	if len(a) != len(b) {
		return false
	}
	for path, sa := range a {
		sb, ok := b[path]
		if !ok || sa != sb {
			return false
		}
	}
	return true
}

// pollInterval is 1s plus 1s per 500 files, capped at limit.
func pollInterval(fileCount int, limit time.Duration) time.Duration {
	d := baseInterval + time.Duration(fileCount/500)*time.Second
	if d > limit {
		d = limit
	}
	return d
}
