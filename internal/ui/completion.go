package ui

import (
	"fmt"

	"github.com/bamsammich/dupes/internal/stats"
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 48,917  hashed 1,203 (2.1 GiB, 410 MB/s)  groups 37  dupes 81  reclaimable 640 MiB  time 3s  errors 0
func completionSummary(snap stats.Snapshot) string {
	errs := snap.DirErrors + snap.HashErrors

	icon := "✓"
	if errs > 0 {
		icon = "✗"
	}

	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesHashed) / snap.Elapsed.Seconds()
	}

	return fmt.Sprintf("done %s  files %s  hashed %s (%s, %s)  groups %s  dupes %s  reclaimable %s  time %s  errors %d",
		icon,
		FormatCount(snap.FilesWalked),
		FormatCount(snap.FilesHashed),
		FormatBytes(snap.BytesHashed),
		FormatRate(avgSpeed),
		FormatCount(snap.Groups),
		FormatCount(snap.Duplicates),
		FormatBytes(snap.ReclaimableBytes),
		FormatDuration(snap.Elapsed),
		errs,
	)
}
