package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"ngthis/packages/workspace"
)

const watchDebounce = 100 * time.Millisecond

// watch lints everything once and then every lint target that changes until
// ctx is done.
func (r *runner) watch(ctx context.Context, out *formatter) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, root := range r.opts.paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && r.ignored(path, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && path != root {
				return nil
			}
			watched++
			return w.Add(path)
		})
		if err != nil {
			return err
		}
	}

	results, err := r.lintAll(ctx)
	if err != nil {
		return err
	}
	if err := out.format(results); err != nil {
		return err
	}
	r.logger.Info("watching", slog.Int("count", watched))

	pending := map[string]bool{}
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !r.ignored(ev.Name, true) {
					if err := w.Add(ev.Name); err != nil {
						r.logger.Warn("cannot watch directory", slog.String("file", ev.Name), slog.Any("err", err))
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if workspace.KindOf(ev.Name) == "" || r.ignored(ev.Name, false) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", slog.Any("err", err))
		case <-timer.C:
			files := make([]workspace.File, 0, len(pending))
			for path := range pending {
				files = append(files, workspace.File{Path: path, Kind: workspace.KindOf(path)})
			}
			pending = map[string]bool{}
			sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

			results, _, err := r.lintFiles(ctx, files)
			if err != nil {
				r.logger.Error("lint failed", slog.Any("err", err))
				continue
			}
			if err := out.format(results); err != nil {
				return err
			}
		}
	}
}
