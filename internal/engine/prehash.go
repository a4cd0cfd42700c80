package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cespare/xxhash/v2"

	"github.com/bamsammich/dupes/internal/bucket"
	"github.com/bamsammich/dupes/internal/event"
	"github.com/bamsammich/dupes/internal/stats"
)

// PrehashSize is how much of each file the prehash stage reads.
const PrehashSize = 4 * 1024

// Prehash narrows the size-bucketed candidates by hashing only their first
// PrehashSize bytes. Paths are regrouped by (size, prefix hash) and
// singletons are pruned, so only paths that can still collide reach the full
// hash. Files that cannot be mapped are reported and dropped.
func Prehash(ctx context.Context, sizes *bucket.Index[int64], events chan<- event.Event, st stats.Writer) *bucket.Index[string] {
	if st == nil {
		st = stats.NewCollector()
	}
	out := bucket.New[string]()
	for size, paths := range sizes.All() {
		for _, path := range paths {
			if ctx.Err() != nil {
				return out
			}
			sum, err := prefixHash(path)
			if err != nil {
				st.AddHashErrors(1)
				emitEvent(ctx, events, event.Event{
					Type:  event.HashFailed,
					Path:  path,
					Error: err,
				})
				continue
			}
			out.Insert(fmt.Sprintf("%020d/%016x", size, sum), path)
		}
	}
	out.PruneUnique()
	return out
}

func prefixHash(path string) (sum uint64, err error) {
	r, err := openRegion(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer recoverFault(path, &err)

	n := int(min(r.Len(), PrehashSize))
	b, err := r.Window(0, n)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return xxhash.Sum64(b), nil
}
