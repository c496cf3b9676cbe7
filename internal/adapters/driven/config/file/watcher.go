package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// PromptWatcher clears a PromptStore's cache whenever a prompt file in its
// directory is created, written, removed or renamed.
type PromptWatcher struct {
	store driven.PromptStore
	dir   string
}

// NewPromptWatcher watches dir on behalf of store.
func NewPromptWatcher(store driven.PromptStore, dir string) *PromptWatcher {
	return &PromptWatcher{store: store, dir: dir}
}

// Watch blocks until ctx is done or the underlying watcher fails.
// The directory is created if it does not exist yet.
func (w *PromptWatcher) Watch(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Debug("Watching prompts in %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				logger.Info("Prompt %s changed, reloading", filepath.Base(event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Prompt watcher: %v", err)
		}
	}
}

// handleEvent reloads on relevant events and reports whether it did.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".txt") {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.store.Reload()
	return true
}
