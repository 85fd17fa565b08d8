package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dshills/docscore/internal/render"
)

const defaultDebounce = 300 * time.Millisecond

type watchFlags struct {
	checkFlags
	debounce time.Duration
}

func newWatchCmd() *cobra.Command {
	f := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Re-score documents whenever they change",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.set = changedFlags(cmd)
			return runWatch(cmd.Context(), args, f)
		},
	}

	addScoreFlags(cmd, &f.checkFlags)
	cmd.Flags().DurationVar(&f.debounce, "debounce", defaultDebounce, "Quiet period before re-scoring")
	return cmd
}

func runWatch(ctx context.Context, paths []string, f *watchFlags) error {
	s, err := newScorer(&f.checkFlags)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(paths))
	dirs := map[string]bool{}
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return exitError(exitUsage, "bad path %s: %v", p, err)
		}
		if _, dup := index[abs]; !dup {
			index[abs] = i
		}
		dirs[filepath.Dir(abs)] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer w.Close()
	// Editors often replace files on save, so the parent directory is watched.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	opts := render.TextOptions{Verbose: f.verbose, Renderer: f.renderer()}
	emit := func(changed []string) {
		var buf bytes.Buffer
		results := s.run(ctx, changed, nil)
		if err := render.Results(&buf, results, opts); err != nil {
			s.log.Error("render failed", "err", err)
			return
		}
		_, _ = f.stdoutWriter().Write(buf.Bytes())
	}

	emit(paths)
	s.log.Info("watching", "files", len(paths))
	watchLoop(ctx, w, paths, index, f.debounce, s.log, emit)
	return nil
}

// watchLoop collects events for the watched files and calls onChange with the
// changed paths, in input order, once no event has arrived for debounce.
// index maps each absolute path to its position in paths. It returns when ctx
// is done or the watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, paths []string, index map[string]int, debounce time.Duration, log *slog.Logger, onChange func([]string)) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	pending := make([]bool, len(paths))
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename) {
				continue
			}
			i, ok := index[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			pending[i] = true
			timer.Reset(debounce)
		case <-timer.C:
			var changed []string
			for i, p := range paths {
				if pending[i] {
					changed = append(changed, p)
					pending[i] = false
				}
			}
			if len(changed) > 0 {
				onChange(changed)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "err", err)
		}
	}
}
