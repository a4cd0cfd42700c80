package ui

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/bamsammich/dupes/internal/engine"
)

// Reporter renders duplicate groups to stdout and to a plain log sink.
type Reporter struct {
	out    io.Writer
	log    io.Writer
	diag   io.Writer
	theme  *Theme
	logErr error
}

// NewReporter creates a Reporter. log may be nil when no log file could be
// opened. diag receives the log-write diagnostic. A nil theme leaves stdout
// undecorated.
func NewReporter(out, log, diag io.Writer, theme *Theme) *Reporter {
	return &Reporter{out: out, log: log, diag: diag, theme: theme}
}

// Report writes every group. A log write failure is reported once on diag
// and the log is abandoned; only a stdout failure is returned.
func (r *Reporter) Report(groups []engine.Group) error {
	for _, g := range groups {
		plain := renderGroup(g)
		r.writeLog(plain)

		text := plain
		if r.theme != nil {
			text = r.decorate(g)
		}
		if _, err := io.WriteString(r.out, text); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

// Timing prints the elapsed-time trailer to stdout.
func (r *Reporter) Timing(d time.Duration) {
	line := fmt.Sprintf("it took %s seconds", FormatSeconds(d))
	if r.theme != nil {
		line = r.theme.Header.Render(line)
	}
	fmt.Fprintln(r.out, line)
}

// LogErr returns the first log write error, if any.
func (r *Reporter) LogErr() error { return r.logErr }

func (r *Reporter) writeLog(text string) {
	if r.log == nil || r.logErr != nil {
		return
	}
	if _, err := io.WriteString(r.log, text); err != nil {
		r.logErr = err
		fmt.Fprintf(r.diag, "Error: %v\n", err)
	}
}

func renderGroup(g engine.Group) string {
	var b strings.Builder
	b.WriteString(g.Digest)
	b.WriteByte('\n')
	for _, p := range g.Paths {
		fmt.Fprintf(&b, "\t%q\n", p)
	}
	b.WriteByte('\n')
	return b.String()
}

func (r *Reporter) decorate(g engine.Group) string {
	var b strings.Builder
	b.WriteString(r.theme.Digest.Render(g.Digest))
	b.WriteByte('\n')
	for _, p := range g.Paths {
		b.WriteByte('\t')
		b.WriteString(r.theme.Path.Render(fmt.Sprintf("%q", p)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// OpenLog prepares the report log at path. An existing file is removed
// first; if that fails a diagnostic goes to diag and the file is appended
// to instead. Returns nil, after a diagnostic, when the file cannot be
// opened at all.
func OpenLog(path string, diag io.Writer) io.WriteCloser {
	if _, err := os.Lstat(path); err == nil {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(diag, "Error: %v\n", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(diag, "Error: %v\n", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(diag, "Error: %v\n", err)
		return nil
	}
	return f
}
