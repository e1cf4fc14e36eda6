// Package watch reports files dropped into an inbox directory.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Operation is the kind of change observed on a file.
type Operation int

const (
	Created Operation = iota
	Modified
)

func (o Operation) String() string {
	if o == Created {
		return "created"
	}
	return "modified"
}

// DefaultQuietPeriod is how long a file must go without changes before its
// event is emitted.
const DefaultQuietPeriod = 500 * time.Millisecond

// Event is a change to a watched file.
type Event struct {
	Path      string
	Operation Operation
}

// Watcher emits events for files with matching extensions in one directory.
// Bursts of changes to one file are coalesced into a single event, sent once
// the file has been quiet for the quiet period. A file created and then
// written is reported as Created.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	quiet      time.Duration
	logger     *zap.Logger
}

type settled struct {
	path string
	gen  uint64
}

type pending struct {
	op  Operation
	gen uint64
	t   *time.Timer
}

// New creates a watcher. With no extensions, ".csv" files are watched.
func New(logger *zap.Logger, extensions ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".csv"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:    w,
		extensions: extensions,
		quiet:      DefaultQuietPeriod,
		logger:     logger.Named("watch"),
	}, nil
}

// SetQuietPeriod changes the quiet period. Call before Watch. Non-positive
// values keep the current setting.
func (w *Watcher) SetQuietPeriod(d time.Duration) {
	if d > 0 {
		w.quiet = d
	}
}

// Watch starts monitoring dir. The returned channel is closed when ctx is
// done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)

		done := make(chan struct{})
		fired := make(chan settled)
		waiting := make(map[string]*pending)
		var gen uint64
		defer func() {
			close(done)
			for _, p := range waiting {
				p.t.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.matches(ev.Name) {
					continue
				}

				var op Operation
				switch {
				case ev.Has(fsnotify.Create):
					op = Created
				case ev.Has(fsnotify.Write):
					op = Modified
				default:
					continue
				}

				gen++
				if p, ok := waiting[ev.Name]; ok {
					p.t.Stop()
					if p.op == Created {
						op = Created
					}
				}
				s := settled{path: ev.Name, gen: gen}
				waiting[ev.Name] = &pending{
					op:  op,
					gen: gen,
					t: time.AfterFunc(w.quiet, func() {
						select {
						case fired <- s:
						case <-done:
						}
					}),
				}
			case s := <-fired:
				p, ok := waiting[s.path]
				if !ok || p.gen != s.gen {
					// Superseded by a later change.
					continue
				}
				delete(waiting, s.path)

				select {
				case events <- Event{Path: s.path, Operation: p.op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Watcher error", zap.String("dir", dir), zap.Error(err))
			}
		}
	}()

	return events, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) matches(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
