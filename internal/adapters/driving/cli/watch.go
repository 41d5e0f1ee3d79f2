package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/logger"
)

// watchDebounce coalesces the burst of write events most editors emit
// while saving a file.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Auto-ingest files dropped into a directory",
	Long: `Watches a directory and ingests every supported file created or modified
in it. Hidden files and subdirectories are ignored. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	debouncer := newIngestDebouncer(ctx, cmd)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				logger.Debug("Watch: skipping %s", event.Name)
				continue
			}
			debouncer.Schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// watchable reports whether a path is a regular, non-hidden file.
// Directories and editor swap files are skipped.
func watchable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ingestDebouncer delays ingestion per path until events stop arriving
// for it.
type ingestDebouncer struct {
	ctx    context.Context
	cmd    *cobra.Command
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newIngestDebouncer(ctx context.Context, cmd *cobra.Command) *ingestDebouncer {
	return &ingestDebouncer{
		ctx:    ctx,
		cmd:    cmd,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule (re)arms the debounce timer for a path.
func (d *ingestDebouncer) Schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[path]; ok {
		timer.Reset(watchDebounce)
		return
	}
	d.timers[path] = time.AfterFunc(watchDebounce, func() {
		d.fire(path)
	})
}

func (d *ingestDebouncer) fire(path string) {
	d.mu.Lock()
	delete(d.timers, path)
	d.mu.Unlock()

	if d.ctx.Err() != nil {
		return
	}
	if err := ingestFile(d.ctx, d.cmd, path); err != nil {
		d.cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
	}
}

// Stop cancels all pending timers.
func (d *ingestDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
