//go:build linux || darwin

package engine

import (
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mappedRegion is a MAP_SHARED, PROT_READ mapping of an entire file.
type mappedRegion struct {
	data []byte
}

// openRegion maps path read-only. The file is opened non-blocking so a FIFO
// or device that slipped through the walk cannot stall the run; anything that
// is not a regular file is rejected like an unmappable file would be.
func openRegion(path string) (region, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	// The mapping stays valid after the descriptor is closed.
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("map %s: %w", path, errNotRegular)
	}

	size := info.Size()
	if size == 0 {
		return emptyRegion{}, nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("map %s: file too large for address space", path)
	}

	//nolint:gosec // G115: fd values are small non-negative integers
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	//nolint:errcheck // readahead hint only
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &mappedRegion{data: data}, nil
}

func (m *mappedRegion) Len() int64 { return int64(len(m.data)) }

func (m *mappedRegion) Window(off int64, n int) ([]byte, error) {
	if off < 0 || off+int64(n) > int64(len(m.data)) {
		return nil, errors.New("window out of range")
	}
	return m.data[off : off+int64(n)], nil
}

func (m *mappedRegion) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
