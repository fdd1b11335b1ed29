package serve

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stanza-ssg/stanza/internal/logfields"
)

// watcher wraps fsnotify with recursive directory registration.
type watcher struct {
	fsw *fsnotify.Watcher
}

// newWatcher watches every directory under the given roots. Roots that do
// not exist yet (an optional layouts or static directory) are skipped.
func newWatcher(roots []string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &watcher{fsw: fsw}

	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		if err := w.addRecursive(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *watcher) Events() chan fsnotify.Event { return w.fsw.Events }
func (w *watcher) Errors() chan error          { return w.fsw.Errors }
func (w *watcher) Close() error                { return w.fsw.Close() }

// Handle registers newly created directories and fires the trigger for
// relevant events.
func (w *watcher) Handle(ev fsnotify.Event, trigger func()) {
	if ignoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addRecursive(ev.Name)
		}
	}
	slog.Debug("File change detected",
		logfields.Path(ev.Name),
		slog.String("op", ev.Op.String()))
	trigger()
}

func (w *watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// ignoreEvent filters hidden files and editor temp/swap files so saves do
// not trigger double rebuilds.
func ignoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}

// newDebouncer returns a request channel, a trigger that coalesces bursts
// of filesystem events into a single rebuild request, and a stop that
// disarms any pending timer on shutdown. The channel is never closed;
// consumers exit through their own context.
func newDebouncer(wait time.Duration) (chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	stopped := false
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}

	return rebuildReq, trigger, stop
}
