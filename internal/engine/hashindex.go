package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/time/rate"

	"github.com/bamsammich/dupes/internal/bucket"
	"github.com/bamsammich/dupes/internal/event"
	"github.com/bamsammich/dupes/internal/stats"
)

var errNotRegular = errors.New("not a regular file")

// HashConfig controls the content-hashing stage.
type HashConfig struct {
	Algorithm Algorithm
	Workers   int
	Limiter   *rate.Limiter
	Events    chan<- event.Event
	Stats     stats.Writer
}

// HashIndex groups candidate paths by content digest.
type HashIndex struct {
	*bucket.Index[string]
	sizes map[string]int64
}

// Size returns the byte length of the files sharing digest.
func (h *HashIndex) Size(digest string) int64 {
	return h.sizes[digest]
}

type hashResult struct {
	digest string
	size   int64
	err    error
}

// BuildHashIndex digests every path and groups the paths by digest.
// Paths that cannot be mapped produce a HashFailed event and are left out.
// Insertion order within a bucket follows the order of paths, even when
// several workers hash concurrently. Singletons are not pruned here.
func BuildHashIndex(ctx context.Context, cfg HashConfig, paths []string) *HashIndex {
	if cfg.Algorithm == nil {
		cfg.Algorithm = Blake2b
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	idx := &HashIndex{
		Index: bucket.New[string](),
		sizes: make(map[string]int64),
	}

	record := func(path string, res hashResult) {
		if res.err != nil {
			cfg.Stats.AddHashErrors(1)
			emitEvent(ctx, cfg.Events, event.Event{
				Type:  event.HashFailed,
				Path:  path,
				Error: res.err,
			})
			return
		}
		cfg.Stats.AddFilesHashed(1)
		cfg.Stats.AddBytesHashed(res.size)
		idx.Insert(res.digest, path)
		idx.sizes[res.digest] = res.size
	}

	if cfg.Workers <= 1 {
		for _, path := range paths {
			if ctx.Err() != nil {
				break
			}
			res := hashOne(ctx, cfg, path, 0)
			if ctx.Err() != nil {
				break
			}
			record(path, res)
		}
		return idx
	}

	// Workers only compute digests. Results land in their input slot and are
	// inserted afterwards by this goroutine, keeping walk order in buckets.
	results := make([]hashResult, len(paths))
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for id := range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = hashOne(ctx, cfg, paths[i], id)
			}
		}()
	}

	sent := 0
feed:
	for i := range paths {
		select {
		case jobs <- i:
			sent++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := range sent {
		if results[i].err != nil && errors.Is(results[i].err, context.Canceled) {
			continue
		}
		record(paths[i], results[i])
	}
	return idx
}

func hashOne(ctx context.Context, cfg HashConfig, path string, workerID int) hashResult {
	sum, size, err := hashFile(ctx, path, cfg.Algorithm, cfg.Limiter)
	if err != nil {
		slog.Debug("hash failed", "path", path, "worker", workerID, "error", err)
		return hashResult{err: err}
	}
	digest := FormatDigest(sum)
	emitEvent(ctx, cfg.Events, event.Event{
		Type:     event.FileHashed,
		Path:     path,
		Size:     size,
		Digest:   digest,
		WorkerID: workerID,
	})
	return hashResult{digest: digest, size: size}
}

// HashFile returns the digest of the file at path, computed over a
// read-only memory mapping of its full length.
func HashFile(path string, alg Algorithm) ([]byte, error) {
	sum, _, err := hashFile(context.Background(), path, alg, nil)
	return sum, err
}

// hashFile maps path, feeds it to alg in windows, and unmaps it before
// returning. A fault on the mapping (the file shrank underneath us) is
// reported as an error rather than crashing the process.
func hashFile(ctx context.Context, path string, alg Algorithm, limiter *rate.Limiter) (sum []byte, size int64, err error) {
	r, err := openRegion(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer recoverFault(path, &err)

	h := alg.New()
	size = r.Len()
	window := windowSize(limiter)
	for off := int64(0); off < size; {
		n := int(min(int64(window), size-off))
		b, err := r.Window(off, n)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", path, err)
		}
		if len(b) == 0 {
			return nil, 0, fmt.Errorf("read %s: short mapping at offset %d", path, off)
		}
		if err := throttle(ctx, limiter, len(b)); err != nil {
			return nil, 0, err
		}
		h.Write(b) //nolint:errcheck // hash.Hash writes never fail
		off += int64(len(b))
	}
	return h.Sum(nil), size, nil
}

// recoverFault turns a fault on a mapped region into an error. It must be
// deferred directly, after SetPanicOnFault(true).
func recoverFault(path string, err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("read %s: %v", path, p)
	}
}
