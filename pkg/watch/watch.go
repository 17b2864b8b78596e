// Package watch monitors a fragment directory and triggers re-assembly
// whenever markdown fragments are created, modified, renamed, or removed.
package watch

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"

	"github.com/coolbeans/draftsman/pkg/assemble"
	"github.com/coolbeans/draftsman/pkg/document"
	"github.com/coolbeans/draftsman/pkg/fragment"
)

// DefaultDebounce is the quiet period after the last file event before
// a rebuild is triggered. Editors often fire several events per save.
const DefaultDebounce = 300 * time.Millisecond

// Result carries the outcome of one rebuild cycle.
type Result struct {
	// Document is the freshly assembled document, or nil when assembly failed.
	Document *document.Document

	// Err is non-nil when assembly could not produce a document at all.
	Err error
}

// Watcher rebuilds a document from a fragment directory on file changes.
type Watcher struct {
	dir       string
	assembler *assemble.Assembler
	opts      assemble.Options
	onRebuild func(Result)
	debounce  time.Duration

	watcher  *fsnotify.Watcher
	stopChan chan struct{}

	pendingMu sync.Mutex
	pending   bool
	lastEvent time.Time
}

// New creates a watcher over dir that invokes onRebuild with each new
// document. The previous document is discarded on every change; callers
// must not retain state derived from a stale build.
func New(dir string, assembler *assemble.Assembler, opts assemble.Options, onRebuild func(Result)) *Watcher {
	return &Watcher{
		dir:       dir,
		assembler: assembler,
		opts:      opts,
		onRebuild: onRebuild,
		debounce:  DefaultDebounce,
	}
}

// SetDebounce overrides the debounce interval. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start begins watching the fragment directory and performs an initial
// build immediately so the callback fires once before any file changes.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})

	go w.watchLoop()

	if err := watcher.Add(w.dir); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}

	w.rebuild()
	return nil
}

// Stop terminates watching. Safe to call more than once.
func (w *Watcher) Stop() {
	if w.stopChan != nil {
		select {
		case <-w.stopChan:
		default:
			close(w.stopChan)
		}
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only markdown fragments matter; editors also write
			// swap and backup files in the same directory.
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write,
				event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.markPending()
			}

		case <-ticker.C:
			if w.takePending() {
				w.rebuild()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) markPending() {
	w.pendingMu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.pendingMu.Unlock()
}

// takePending reports whether a rebuild is due and clears the flag when it
// is. Changes inside the debounce window stay pending until the burst ends.
func (w *Watcher) takePending() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if !w.pending || time.Since(w.lastEvent) < w.debounce {
		return false
	}
	w.pending = false
	return true
}

func (w *Watcher) rebuild() {
	doc, err := w.assembler.Assemble(fragment.DirSource{Dir: w.dir}, w.opts)
	w.onRebuild(Result{Document: doc, Err: err})
}
