// Package document implements the Document data model and the
// document collection that owns internal sequential ids (spec.md §3).
package document

import (
	"github.com/lofcz/infidex/pkg/field"
)

// Key is the externally supplied document key. It is not unique: the
// same key may label multiple internal documents acting as segments
// or aliases of one another.
type Key int64

// Document is one indexed unit: a document family member (one segment
// of a possibly-split logical document).
type Document struct {
	Key           Key
	SegmentNumber int32 // 0 for an unsplit document
	Fields        *field.DocumentFields

	// IndexedText is the tokenizer-pipeline-computed concatenation of
	// searchable field values; set by index.Index.IndexDocument via
	// Concatenate.
	IndexedText    string
	FieldBoundaries []field.FieldBoundary

	ClientInformation string // opaque, never indexed
	Deleted           bool

	// Id is the internal sequential id assigned by Collection.Add.
	Id int
}

// BaseID is the id of the first segment in this document's family,
// used to key the Stage-1 best-segment tracker (spec.md §4.9).
func (d *Document) BaseID() int {
	return d.Id - int(d.SegmentNumber)
}

// Collection owns Documents and assigns sequential internal ids. It is
// guarded by the caller's reader/writer lock (pkg/engine); Collection
// itself performs no locking so that a single write-lock critical
// section can mutate both the collection and the inverted index
// atomically.
type Collection struct {
	docs     []Document
	byKey    map[Key][]int // key -> ids, insertion order
	nextID   int
}

// NewCollection creates an empty document collection.
func NewCollection() *Collection {
	return &Collection{byKey: make(map[Key][]int)}
}

// Add appends a document, assigning it the next sequential Id.
func (c *Collection) Add(doc Document) int {
	doc.Id = c.nextID
	c.nextID++
	c.docs = append(c.docs, doc)
	c.byKey[doc.Key] = append(c.byKey[doc.Key], doc.Id)
	return doc.Id
}

// Get returns a document by internal id.
func (c *Collection) Get(id int) (*Document, bool) {
	if id < 0 || id >= len(c.docs) {
		return nil, false
	}
	return &c.docs[id], true
}

// GetByKey returns the first non-deleted document registered under key,
// preferring segment 0.
func (c *Collection) GetByKey(key Key) (*Document, bool) {
	ids, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	var best *Document
	for _, id := range ids {
		d := &c.docs[id]
		if d.Deleted {
			continue
		}
		if best == nil || d.SegmentNumber < best.SegmentNumber {
			best = d
		}
	}
	return best, best != nil
}

// GetAllByKey returns every non-deleted document registered under key.
func (c *Collection) GetAllByKey(key Key) []*Document {
	ids := c.byKey[key]
	out := make([]*Document, 0, len(ids))
	for _, id := range ids {
		d := &c.docs[id]
		if !d.Deleted {
			out = append(out, d)
		}
	}
	return out
}

// GetSegment returns the document of the given key at the given
// segment number, falling back to the key's primary document when the
// requested segment is absent (spec.md §4.9).
func (c *Collection) GetSegment(key Key, segment int32) (*Document, bool) {
	ids := c.byKey[key]
	for _, id := range ids {
		d := &c.docs[id]
		if !d.Deleted && d.SegmentNumber == segment {
			return d, true
		}
	}
	return c.GetByKey(key)
}

// Len returns the total number of internal documents (including
// soft-deleted ones).
func (c *Collection) Len() int { return len(c.docs) }

// All iterates every document, including soft-deleted ones; callers
// filter on Deleted themselves (used by filter NumberOfDocumentsInFilter
// and by facet/empty-query scans).
func (c *Collection) All() []Document {
	return c.docs
}

// MarkDeleted soft-deletes a document by internal id.
func (c *Collection) MarkDeleted(id int) {
	if id >= 0 && id < len(c.docs) {
		c.docs[id].Deleted = true
	}
}
