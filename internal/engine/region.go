package engine

// region is a read-only view of a whole file's content, usually backed by a
// memory mapping. Windows returned by Window are valid until Close.
type region interface {
	Len() int64
	Window(off int64, n int) ([]byte, error)
	Close() error
}

// emptyRegion stands in for zero-length files, which cannot be mapped.
type emptyRegion struct{}

func (emptyRegion) Len() int64                        { return 0 }
func (emptyRegion) Window(int64, int) ([]byte, error) { return nil, nil }
func (emptyRegion) Close() error                      { return nil }
