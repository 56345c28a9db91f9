// Package watch notifies a consumer when a monitored directory's issue
// storage changes on disk.
//
// The watcher never refreshes anything itself: it only emits the directory
// path whose storage changed, debounced so bursts of writes collapse into
// one notification. The consumer decides when to ask its session for an
// explicit refresh, keeping the engine's single-writer discipline intact.
package watch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/steveyegge/beadboard/internal/gateway"
)

// DefaultDebounce is how long the watcher waits after the last event for a
// directory before notifying.
const DefaultDebounce = 250 * time.Millisecond

// Config holds watcher configuration.
type Config struct {
	// Debounce batches rapid storage writes into one notification.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// Logger receives watch diagnostics. Defaults to a prefixed stderr
	// logger.
	Logger *log.Logger
}

// Watcher monitors the .beads storage of a set of directories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	// watched maps a storage dir back to the monitored directory it
	// belongs to.
	watched map[string]string

	changes chan string
	errors  chan error
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]time.Time
	wg      sync.WaitGroup
	running bool
}

// New creates a Watcher. Start it with Start before expecting events.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}

	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
		watched:  make(map[string]string),
		changes:  make(chan string, 16),
		errors:   make(chan error, 4),
		done:     make(chan struct{}),
		pending:  make(map[string]time.Time),
	}, nil
}

// Start begins watching the storage subdirectory of each given directory.
// Directories without a storage subdirectory are skipped with a log line;
// the watcher still starts if at least the loop can run.
func (w *Watcher) Start(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	for _, dir := range dirs {
		storage := filepath.Join(dir, gateway.StorageDirName)
		if _, err := os.Stat(storage); err != nil {
			w.logger.Printf("no storage to watch in %s", dir)
			continue
		}
		if err := w.fsw.Add(storage); err != nil {
			w.logger.Printf("cannot watch %s: %v", storage, err)
			continue
		}
		w.watched[storage] = dir
	}

	w.running = true
	w.wg.Add(2)
	go w.eventLoop()
	go w.flushLoop()
	return nil
}

// Stop shuts the watcher down and closes its channels.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("closing watcher: %w", err)
	}
	w.wg.Wait()

	close(w.changes)
	close(w.errors)
	return nil
}

// Changes emits the monitored directory path whose storage changed.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors emits watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// eventLoop records raw storage events into the pending queue.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if dir, ok := w.dirFor(event); ok {
				w.mu.Lock()
				w.pending[dir] = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// flushLoop drains the pending queue, emitting a change for each directory
// once it has been quiet for the debounce interval.
func (w *Watcher) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case <-ticker.C:
			now := time.Now()
			var ready []string

			w.mu.Lock()
			for dir, last := range w.pending {
				if now.Sub(last) >= w.debounce {
					ready = append(ready, dir)
					delete(w.pending, dir)
				}
			}
			w.mu.Unlock()

			for _, dir := range ready {
				select {
				case w.changes <- dir:
				case <-w.done:
					return
				}
			}
		}
	}
}

// dirFor maps a storage event back to its monitored directory, ignoring
// events for files that are not storage artifacts or temp writes beside
// them.
func (w *Watcher) dirFor(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	w.mu.Lock()
	dir, ok := w.watched[filepath.Dir(event.Name)]
	w.mu.Unlock()
	if !ok {
		return "", false
	}
	return dir, true
}
