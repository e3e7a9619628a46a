package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/orson-vision/orson-assets/internal/logger"
)

// watchDebounce is how long the watcher waits for changes to settle.
var watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline when the catalog or settings change",
	Long: `Runs the pipeline once, then watches the catalog and settings files and
runs it again after each change. Bursts of changes are coalesced into one run.

Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return errors.New("pipeline not configured")
	}
	if len(watchPaths) == 0 {
		return errors.New("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	match, dirs := watchTargets(watchPaths)
	if len(dirs) == 0 {
		return errors.New("nothing to watch: no watched directory exists")
	}
	// Directories are watched because editors replace files by renaming.
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	rerun := func() {
		if bootstrap != nil {
			if err := reload(); err != nil {
				cmd.PrintErrf("Reload failed: %v\n", err)
				return
			}
		}
		if err := runPipeline(cmd, nil); err != nil {
			cmd.PrintErrf("Run failed: %v\n", err)
		}
	}

	if err := runPipeline(cmd, nil); err != nil {
		cmd.PrintErrf("Run failed: %v\n", err)
	}
	cmd.Printf("Watching %d file(s) for changes...\n", len(watchPaths))

	return watchLoop(cmd.Context(), watcher.Events, watcher.Errors, match, watchDebounce, rerun)
}

// watchTargets returns a matcher for the watched files and the existing
// directories holding them. A file whose directory is missing, such as an
// absent catalog when the built-in one is used, is skipped.
func watchTargets(paths []string) (func(string) bool, []string) {
	files := make(map[string]bool, len(paths))
	seen := make(map[string]bool)
	var dirs []string

	for _, p := range paths {
		abs := absPath(p)
		files[abs] = true
		dir := filepath.Dir(abs)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Debug("Not watching %s: directory does not exist", dir)
			continue
		}
		dirs = append(dirs, dir)
	}

	return func(name string) bool { return files[absPath(name)] }, dirs
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// watchLoop calls fn once changes to matching files have been quiet for delay.
// It returns when ctx is done or the event channel is closed.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	match func(string) bool,
	delay time.Duration,
	fn func(),
) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !match(ev.Name) {
				continue
			}
			logger.Debug("Change detected: %s (%s)", ev.Name, ev.Op)
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-fire:
			fire = nil
			fn()
		}
	}
}
