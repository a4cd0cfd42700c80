package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/dupes/internal/stats"
)

// plainPresenter prints one line per pipeline stage plus any per-entry
// diagnostics, all to the same writer so they interleave in order.
type plainPresenter struct {
	w       io.Writer
	stats   stats.Reader
	verbose bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case WalkStarted:
		fmt.Fprintf(p.w, "[+] find files in %q\n", ev.Path)
	case WalkComplete:
		if p.verbose {
			fmt.Fprintf(p.w, "\t[+] walked %s files (%s)\n", FormatCount(int64(ev.Count)), FormatBytes(ev.Size))
		}
	case SizesPruned:
		fmt.Fprintf(p.w, "\t[+] found %d different file sizes\n", ev.Count)
	case PrehashPruned:
		fmt.Fprintf(p.w, "\t[+] %d size/prefix buckets after prehash\n", ev.Count)
	case HashStarted:
		fmt.Fprintln(p.w, "[+] hashing")
	case FileHashed:
		if p.verbose {
			fmt.Fprintf(p.w, "\t%s  %q\n", FormatBytes(ev.Size), ev.Path)
		}
	case HashesPruned:
		fmt.Fprintf(p.w, "[+] found %d duplicate hashes\n", ev.Count)
		fmt.Fprint(p.w, "\t[+] printing duplicates\n\n")
	default:
		writeDiagnostic(p.w, ev)
	}
}

func (p *plainPresenter) Summary() string {
	if !p.verbose || p.stats == nil {
		return ""
	}
	return completionSummary(p.stats.Snapshot())
}

// writeDiagnostic renders failure events. Other event types are ignored.
func writeDiagnostic(w io.Writer, ev Event) {
	switch ev.Type {
	case WalkFailed, DirFailed:
		fmt.Fprintf(w, "Error: %q - %v\n", ev.Path, ev.Error)
	case HashFailed:
		fmt.Fprintf(w, "failed to open file: %v\n", ev.Error)
	}
}
