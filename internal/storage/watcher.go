package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ramonehamilton/hooplog/internal/events"
)

// localGrace is how far before a burst of file events a local write may
// have been recorded and still claim the burst.
const localGrace = 100 * time.Millisecond

// ChangeWatcher republishes writes made to the database file by other
// processes as change events for every table, so live subscriptions reload.
type ChangeWatcher struct {
	path       string
	dispatcher *events.EventDispatcher
	debounce   time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	lastLocal time.Time
}

// NewChangeWatcher creates a watcher for db's file. In-memory databases
// cannot be shared with other processes and are rejected.
func NewChangeWatcher(db *DB, dispatcher *events.EventDispatcher, debounce time.Duration) (*ChangeWatcher, error) {
	if db.Path() == MemoryPath {
		return nil, fmt.Errorf("cannot watch an in-memory database")
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &ChangeWatcher{
		path:       db.Path(),
		dispatcher: dispatcher,
		debounce:   debounce,
		logger:     db.logger.Named("watcher"),
	}, nil
}

// Run watches until ctx is cancelled.
func (w *ChangeWatcher) Run(ctx context.Context) (err error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := fsw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// SQLite replaces journal files, so watch the directory rather than the files.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch database directory: %w", err)
	}

	local := &localWriteObserver{watcher: w}
	w.dispatcher.Register(local)
	defer w.dispatcher.Unregister(local)

	base := filepath.Base(w.path)
	watched := map[string]bool{base: true, base + "-wal": true, base + "-journal": true}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var burstStart time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Base(event.Name)] || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if burstStart.IsZero() {
				burstStart = time.Now()
			}
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		case <-timer.C:
			if w.claimedLocally(burstStart) {
				w.logger.Debug("ignoring local write")
			} else {
				w.publish(ctx)
			}
			burstStart = time.Time{}
		}
	}
}

func (w *ChangeWatcher) claimedLocally(burstStart time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.lastLocal.IsZero() && !w.lastLocal.Before(burstStart.Add(-localGrace))
}

func (w *ChangeWatcher) publish(ctx context.Context) {
	w.logger.Info("database changed by another process", zap.String("path", w.path))
	for _, table := range events.AllTables {
		events.PublishChange(ctx, w.dispatcher, table, events.OpExternal, 0)
	}
}

// localWriteObserver records when this process last wrote a table.
type localWriteObserver struct {
	watcher *ChangeWatcher
}

func (o *localWriteObserver) OnEvent(event events.Event) error {
	change, ok := events.GetTypedData[events.TableChanged](event)
	if !ok || change.Operation == events.OpExternal {
		return nil
	}
	o.watcher.mu.Lock()
	o.watcher.lastLocal = time.Now()
	o.watcher.mu.Unlock()
	return nil
}

func (o *localWriteObserver) GetName() string { return "ChangeWatcher" }

func (o *localWriteObserver) ShouldHandle(eventType string) bool {
	_, ok := events.TableOf(eventType)
	return ok
}
