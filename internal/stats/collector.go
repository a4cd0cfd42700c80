package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Writer is the engine-side view of a Collector.
type Writer interface {
	AddFilesWalked(n int64)
	AddDirsWalked(n int64)
	AddStatSkipped(n int64)
	AddDirErrors(n int64)
	AddCandidates(n int64)
	AddFilesHashed(n int64)
	AddBytesHashed(n int64)
	AddHashErrors(n int64)
	SetGroups(groups, duplicates, reclaimable int64)
}

// Reader is the presenter-side view of a Collector.
type Reader interface {
	Snapshot() Snapshot
	Elapsed() time.Duration
}

// Collector tracks pipeline statistics using lock-free atomic counters.
type Collector struct {
	filesWalked atomic.Int64
	dirsWalked  atomic.Int64
	statSkipped atomic.Int64
	dirErrors   atomic.Int64
	candidates  atomic.Int64
	filesHashed atomic.Int64
	bytesHashed atomic.Int64
	hashErrors  atomic.Int64
	groups      atomic.Int64
	duplicates  atomic.Int64
	reclaimable atomic.Int64
	startTime   time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesWalked      int64
	DirsWalked       int64
	StatSkipped      int64
	DirErrors        int64
	Candidates       int64
	FilesHashed      int64
	BytesHashed      int64
	HashErrors       int64
	Groups           int64
	Duplicates       int64
	ReclaimableBytes int64
	Elapsed          time.Duration
}

func (c *Collector) AddFilesWalked(n int64) { c.filesWalked.Add(n) }
func (c *Collector) AddDirsWalked(n int64)  { c.dirsWalked.Add(n) }
func (c *Collector) AddStatSkipped(n int64) { c.statSkipped.Add(n) }
func (c *Collector) AddDirErrors(n int64)   { c.dirErrors.Add(n) }
func (c *Collector) AddCandidates(n int64)  { c.candidates.Add(n) }
func (c *Collector) AddFilesHashed(n int64) { c.filesHashed.Add(n) }
func (c *Collector) AddBytesHashed(n int64) { c.bytesHashed.Add(n) }
func (c *Collector) AddHashErrors(n int64)  { c.hashErrors.Add(n) }

// SetGroups records the outcome of the final pruning pass. duplicates counts
// redundant copies (members beyond the first of each group) and reclaimable
// is their combined size.
func (c *Collector) SetGroups(groups, duplicates, reclaimable int64) {
	c.groups.Store(groups)
	c.duplicates.Store(duplicates)
	c.reclaimable.Store(reclaimable)
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesWalked:      c.filesWalked.Load(),
		DirsWalked:       c.dirsWalked.Load(),
		StatSkipped:      c.statSkipped.Load(),
		DirErrors:        c.dirErrors.Load(),
		Candidates:       c.candidates.Load(),
		FilesHashed:      c.filesHashed.Load(),
		BytesHashed:      c.bytesHashed.Load(),
		HashErrors:       c.hashErrors.Load(),
		Groups:           c.groups.Load(),
		Duplicates:       c.duplicates.Load(),
		ReclaimableBytes: c.reclaimable.Load(),
		Elapsed:          c.Elapsed(),
	}
}

// Elapsed returns monotonic time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"walked=%d dirs=%d skipped=%d dir_errors=%d candidates=%d hashed=%d bytes=%d hash_errors=%d groups=%d duplicates=%d",
		s.FilesWalked, s.DirsWalked, s.StatSkipped, s.DirErrors, s.Candidates,
		s.FilesHashed, s.BytesHashed, s.HashErrors, s.Groups, s.Duplicates,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}
