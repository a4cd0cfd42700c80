package engine

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/dupes/internal/event"
	"github.com/bamsammich/dupes/internal/filter"
	"github.com/bamsammich/dupes/internal/stats"
)

// FileRecord is a non-directory entry found by the walk.
type FileRecord struct {
	Path string
	Size int64
}

// WalkConfig controls a walk.
type WalkConfig struct {
	Root   string
	Filter *filter.Chain
	Events chan<- event.Event
	Stats  stats.Writer
}

type walker struct {
	cfg  WalkConfig
	root string
}

// Walk returns a depth-first sequence of every non-directory entry beneath
// cfg.Root. Entries are visited in the order the filesystem returns them and
// classified with a single stat that follows symlinks.
//
// A root that is not a directory yields nothing. Entries whose metadata
// cannot be read are skipped silently; directories that cannot be listed
// produce a DirFailed event and the walk moves on to their siblings.
func Walk(ctx context.Context, cfg WalkConfig) iter.Seq[FileRecord] {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return func(yield func(FileRecord) bool) {
		root := cfg.Root
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}

		info, err := os.Stat(root)
		if err != nil {
			emitEvent(ctx, cfg.Events, event.Event{
				Type:  event.WalkFailed,
				Path:  cfg.Root,
				Error: err,
			})
			return
		}
		if !info.IsDir() {
			slog.Debug("root is not a directory", "root", root)
			return
		}

		w := &walker{cfg: cfg, root: root}
		w.walkDir(ctx, root, yield)
	}
}

// walkDir enumerates dir and recurses into child directories before moving
// on. It returns false once the consumer or the context stops the walk.
func (w *walker) walkDir(ctx context.Context, dir string, yield func(FileRecord) bool) bool {
	w.cfg.Stats.AddDirsWalked(1)

	entries, err := readDirUnsorted(dir)
	if err != nil {
		w.cfg.Stats.AddDirErrors(1)
		emitEvent(ctx, w.cfg.Events, event.Event{
			Type:  event.DirFailed,
			Path:  dir,
			Error: err,
		})
		// Readdirnames may have returned a partial listing; keep what we got.
	}

	for _, name := range entries {
		if ctx.Err() != nil {
			return false
		}

		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			w.cfg.Stats.AddStatSkipped(1)
			slog.Debug("skipping entry", "path", path, "error", err)
			continue
		}

		rel := w.relPath(path)
		if info.IsDir() {
			if !w.cfg.Filter.Match(rel, true, 0) {
				continue
			}
			if !w.walkDir(ctx, path, yield) {
				return false
			}
			continue
		}

		if !w.cfg.Filter.Match(rel, false, info.Size()) {
			continue
		}
		w.cfg.Stats.AddFilesWalked(1)
		if !yield(FileRecord{Path: path, Size: info.Size()}) {
			return false
		}
	}
	return true
}

func (w *walker) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// readDirUnsorted lists dir in filesystem order. os.ReadDir sorts by name,
// so the directory is read through the *os.File instead.
func readDirUnsorted(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return names, fmt.Errorf("readdir %s: %w", dir, err)
	}
	return names, nil
}
