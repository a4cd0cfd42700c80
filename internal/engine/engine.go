package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bamsammich/dupes/internal/bucket"
	"github.com/bamsammich/dupes/internal/event"
	"github.com/bamsammich/dupes/internal/filter"
	"github.com/bamsammich/dupes/internal/stats"
)

// Config describes a duplicate scan.
type Config struct {
	Root      string
	Algorithm Algorithm
	Workers   int
	Prehash   bool
	Filter    *filter.Chain
	BWLimit   int64
	Events    chan<- event.Event
	Stats     *stats.Collector
}

// Group is a set of two or more files with identical content.
type Group struct {
	Digest string
	Size   int64
	Paths  []string
}

// Result is the outcome of a scan.
type Result struct {
	Groups []Group
	Stats  stats.Snapshot
	Err    error
}

// Run walks cfg.Root, narrows candidates by size, hashes the survivors and
// returns every group of identical files, ordered by digest. Per-file
// failures are reported through cfg.Events and never abort the scan;
// Result.Err is set only when the context ends the scan early.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Algorithm == nil {
		cfg.Algorithm = Blake2b
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	collector := cfg.Stats

	emitEvent(ctx, cfg.Events, event.Event{Type: event.WalkStarted, Path: cfg.Root})

	sizes := bucket.New[int64]()
	var walkedBytes int64
	walked := 0
	for rec := range Walk(ctx, WalkConfig{
		Root:   cfg.Root,
		Filter: cfg.Filter,
		Events: cfg.Events,
		Stats:  collector,
	}) {
		sizes.Insert(rec.Size, rec.Path)
		walkedBytes += rec.Size
		walked++
	}
	emitEvent(ctx, cfg.Events, event.Event{Type: event.WalkComplete, Count: walked, Size: walkedBytes})

	sizes.PruneUnique()
	emitEvent(ctx, cfg.Events, event.Event{Type: event.SizesPruned, Count: sizes.Len()})
	slog.Debug("size stage done", "files", walked, "buckets", sizes.Len(), "candidates", sizes.Count())

	candidates := sizes.Paths()
	if cfg.Prehash && ctx.Err() == nil {
		narrowed := Prehash(ctx, sizes, cfg.Events, collector)
		emitEvent(ctx, cfg.Events, event.Event{Type: event.PrehashPruned, Count: narrowed.Len()})
		slog.Debug("prehash stage done", "before", len(candidates), "after", narrowed.Count())
		candidates = narrowed.Paths()
	}
	collector.AddCandidates(int64(len(candidates)))

	emitEvent(ctx, cfg.Events, event.Event{Type: event.HashStarted, Count: len(candidates)})
	hashes := BuildHashIndex(ctx, HashConfig{
		Algorithm: cfg.Algorithm,
		Workers:   cfg.Workers,
		Limiter:   NewBWLimiter(cfg.BWLimit),
		Events:    cfg.Events,
		Stats:     collector,
	}, candidates)
	hashes.PruneUnique()
	emitEvent(ctx, cfg.Events, event.Event{Type: event.HashesPruned, Count: hashes.Len()})

	groups := make([]Group, 0, hashes.Len())
	var dupes, reclaimable int64
	for digest, paths := range hashes.All() {
		size := hashes.Size(digest)
		groups = append(groups, Group{Digest: digest, Size: size, Paths: paths})
		extra := int64(len(paths) - 1)
		dupes += extra
		reclaimable += extra * size
	}
	collector.SetGroups(int64(len(groups)), dupes, reclaimable)

	var err error
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.Join(errors.New("scan interrupted"), ctxErr)
	}
	return Result{
		Groups: groups,
		Stats:  collector.Snapshot(),
		Err:    err,
	}
}

// emitEvent delivers e unless the context is done. Sends block so that
// diagnostics are never dropped.
func emitEvent(ctx context.Context, ch chan<- event.Event, e event.Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}
