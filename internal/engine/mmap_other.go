//go:build !linux && !darwin

package engine

import (
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// readerRegion wraps a portable read-only mapping. It copies each window
// into a reused buffer because mmap.ReaderAt does not expose the mapped bytes.
type readerRegion struct {
	r   *mmap.ReaderAt
	buf []byte
}

func openRegion(path string) (region, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("map %s: %w", path, errNotRegular)
	}
	if info.Size() == 0 {
		return emptyRegion{}, nil
	}

	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &readerRegion{r: r}, nil
}

func (m *readerRegion) Len() int64 { return int64(m.r.Len()) }

func (m *readerRegion) Window(off int64, n int) ([]byte, error) {
	if cap(m.buf) < n {
		m.buf = make([]byte, n)
	}
	got, err := m.r.ReadAt(m.buf[:n], off)
	if err != nil && got < n {
		return nil, err
	}
	return m.buf[:got], nil
}

func (m *readerRegion) Close() error { return m.r.Close() }
