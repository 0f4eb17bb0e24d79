package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watch runs once over opts and then re-processes files whenever they are
// written, until ctx is done. Each batch of changed files is reported
// through onBatch. Files created after the initial discovery are picked
// up when their directory is already watched.
func (r *Runner) Watch(ctx context.Context, opts Options, debounce time.Duration, onBatch func(*Result)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return err
	}
	initial, err := r.RunFiles(ctx, files, opts)
	if err != nil {
		return err
	}
	onBatch(initial)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := lo.Uniq(lo.Map(files, func(path string, _ int) string { return filepath.Dir(path) }))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	ignore, err := newMatcher(opts.Ignore)
	if err != nil {
		return err
	}
	extensions := opts.extensions()
	wanted := func(path string) bool {
		if strings.HasPrefix(filepath.Base(path), ".") {
			return false
		}
		if !slices.Contains(extensions, strings.ToLower(filepath.Ext(path))) {
			return false
		}
		rel, relErr := filepath.Rel(workDir, path)
		if relErr != nil {
			rel = path
		}
		return !ignore.ignored(rel, false)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !wanted(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				continue
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			batch := lo.Keys(pending)
			slices.Sort(batch)
			clear(pending)

			result, err := r.RunFiles(ctx, batch, opts)
			if err != nil && ctx.Err() == nil {
				return err
			}
			if result != nil && len(result.Files) > 0 {
				onBatch(result)
			}
		}
	}
}
