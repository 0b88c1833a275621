// Package watch reloads a schema file whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/reoring/toolform/internal/logging"
	"github.com/reoring/toolform/jsonschema"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the reloaded schema, or the load error.
type Handler func(*jsonschema.Node, error)

// Watcher calls a Handler with the parsed schema after every change to one
// file. Create it with New and start it with Run.
type Watcher struct {
	path     string
	handle   Handler
	debounce time.Duration
	log      logrus.FieldLogger

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	inflight sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for reload failures and watcher errors.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Watcher) { w.log = logging.OrDiscard(l) }
}

// New returns a Watcher for path. Nothing happens until Run is called.
func New(path string, handle Handler, opts ...Option) *Watcher {
	w := &Watcher{path: filepath.Clean(path), handle: handle, debounce: DefaultDebounce, log: logging.Discard()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads the file once, then reloads it on every change until ctx is
// done. The parent directory is watched so atomic-rename saves are seen.
// The handler is never called after Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	defer w.stop()
	w.reload()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev) {
				continue
			}
			w.schedule()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watcher_error")
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

// fire runs a debounced reload unless the watcher has stopped.
func (w *Watcher) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()
	w.reload()
}

// stop cancels a pending reload and waits for a running one.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.inflight.Wait()
}

func (w *Watcher) reload() {
	n, err := jsonschema.Load(w.path)
	if err != nil {
		w.log.WithError(err).WithField("path", w.path).Warn("schema_reload_failed")
	} else {
		w.log.WithField("path", w.path).Debug("schema_reloaded")
	}
	w.handle(n, err)
}
