package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coolbeans/draftsman/pkg/assemble"
)

func newTestWatcher(t *testing.T, dir string, onRebuild func(Result)) *Watcher {
	t.Helper()
	opts := assemble.Options{SkipValidation: true}
	assembler, err := assemble.New(opts)
	if err != nil {
		t.Fatalf("New assembler failed: %v", err)
	}
	return New(dir, assembler, opts, onRebuild)
}

func TestWatcherInitialBuild(t *testing.T) {
	dir := t.TempDir()
	content := "**1.** {{LABEL:intro}} First.\n\n**2.** See paragraph {{REF:intro}}."
	if err := os.WriteFile(filepath.Join(dir, "01_intro.md"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fragment: %v", err)
	}

	results := make(chan Result, 8)
	watcher := newTestWatcher(t, dir, func(result Result) {
		results <- result
	})

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	select {
	case result := <-results:
		if result.Err != nil {
			t.Fatalf("Initial build failed: %v", result.Err)
		}
		if result.Document.TotalParagraphs != 2 {
			t.Errorf("Expected 2 paragraphs, got %d", result.Document.TotalParagraphs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected initial build before any file change")
	}
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "01_intro.md")
	if err := os.WriteFile(path, []byte("**1.** First."), 0644); err != nil {
		t.Fatalf("Failed to write fragment: %v", err)
	}

	results := make(chan Result, 8)
	watcher := newTestWatcher(t, dir, func(result Result) {
		results <- result
	})
	watcher.SetDebounce(50 * time.Millisecond)

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	// Drain the initial build.
	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected initial build")
	}

	if err := os.WriteFile(path, []byte("**1.** First.\n\n**2.** Second."), 0644); err != nil {
		t.Fatalf("Failed to update fragment: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case result := <-results:
			if result.Err != nil {
				t.Fatalf("Rebuild failed: %v", result.Err)
			}
			if result.Document.TotalParagraphs == 2 {
				return
			}
		case <-deadline:
			t.Fatal("Expected a rebuild with the updated content")
		}
	}
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "01_intro.md"), []byte("**1.** First."), 0644); err != nil {
		t.Fatalf("Failed to write fragment: %v", err)
	}

	results := make(chan Result, 8)
	watcher := newTestWatcher(t, dir, func(result Result) {
		results <- result
	})
	watcher.SetDebounce(50 * time.Millisecond)

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected initial build")
	}

	if err := os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("notes"), 0644); err != nil {
		t.Fatalf("Failed to write scratch file: %v", err)
	}

	select {
	case <-results:
		t.Error("Expected no rebuild for non-markdown file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStartFailsForMissingDirectory(t *testing.T) {
	watcher := newTestWatcher(t, filepath.Join(t.TempDir(), "absent"), func(Result) {})
	if err := watcher.Start(); err == nil {
		watcher.Stop()
		t.Fatal("Expected error for missing directory")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "01_intro.md"), []byte("**1.** First."), 0644); err != nil {
		t.Fatalf("Failed to write fragment: %v", err)
	}

	watcher := newTestWatcher(t, dir, func(Result) {})
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	watcher.Stop()
	watcher.Stop()
}
