// Package fst wraps github.com/blevesearch/vellum's builder/FST pair
// into the narrow build-then-freeze index shape the word matcher needs
// (internal/wordmatcher, spec.md §4.6): insert sorted keys once, freeze,
// then serve read-only, thread-safe Get/prefix lookups.
package fst

import (
	"bytes"

	"github.com/blevesearch/vellum"
)

// IndexBuilder accumulates sorted key/value pairs into an in-memory FST.
type IndexBuilder struct {
	builder *vellum.Builder
	buffer  *bytes.Buffer
}

// NewIndexBuilder creates a new in-memory FST builder.
func NewIndexBuilder() (*IndexBuilder, error) {
	buf := &bytes.Buffer{}
	b, err := vellum.New(buf, nil)
	if err != nil {
		return nil, err
	}
	return &IndexBuilder{builder: b, buffer: buf}, nil
}

// Insert adds a key-value pair. Keys MUST be inserted in sorted order.
func (ib *IndexBuilder) Insert(key []byte, val uint64) error {
	return ib.builder.Insert(key, val)
}

// Finish closes the builder and returns the frozen FST bytes.
func (ib *IndexBuilder) Finish() ([]byte, error) {
	if err := ib.builder.Close(); err != nil {
		return nil, err
	}
	return ib.buffer.Bytes(), nil
}

// IndexReader wraps a read-only, thread-safe FST.
type IndexReader struct {
	fst *vellum.FST
}

// OpenIndex loads a frozen FST from bytes.
func OpenIndex(data []byte) (*IndexReader, error) {
	f, err := vellum.Load(data)
	if err != nil {
		return nil, err
	}
	return &IndexReader{fst: f}, nil
}

// Len returns the number of keys in the FST.
func (ir *IndexReader) Len() int {
	return int(ir.fst.Len())
}

// Get returns the value for an exact key.
func (ir *IndexReader) Get(key []byte) (uint64, bool, error) {
	return ir.fst.Get(key)
}

// SearchPrefix returns every key (and its value) starting with prefix,
// used for forward-FST prefix matching and, against a reverse-built
// FST over reversed terms, for suffix matching (spec.md §4.6).
func (ir *IndexReader) SearchPrefix(prefix []byte) ([]string, []uint64, error) {
	iterator, err := ir.fst.Iterator(prefix, nil)
	if err == vellum.ErrIteratorDone {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var keys []string
	var vals []uint64
	for err == nil {
		key, val := iterator.Current()
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		k := make([]byte, len(key))
		copy(k, key)
		keys = append(keys, string(k))
		vals = append(vals, val)
		err = iterator.Next()
	}
	if err != nil && err != vellum.ErrIteratorDone {
		return nil, nil, err
	}
	return keys, vals, nil
}

// Close releases the FST's resources.
func (ir *IndexReader) Close() error {
	return ir.fst.Close()
}
