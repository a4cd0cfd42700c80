package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseSize parses a human-readable size string into bytes.
// Bare single-letter suffixes (K, M, G, T) are powers of 1024, matching
// rsync; explicit units such as "MB" or "MiB" follow go-humanize.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty size string")
	}

	switch strings.ToUpper(s[len(s)-1:]) {
	case "K", "M", "G", "T":
		if len(s) == 1 {
			return 0, fmt.Errorf("invalid size: %q", s)
		}
		s += "iB"
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size out of range: %q", s)
	}
	return int64(n), nil
}
