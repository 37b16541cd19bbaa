// Package persist implements the binary codec for engine index dumps
// (spec.md §6 "Persisted state"): magic + version precede the data,
// and term postings and the document table round-trip exactly. The
// word matcher is not itself serialized — its vocabulary is fully
// derivable from the document table, so Load rebuilds it rather than
// carrying a second FST blob; the encoded body records whether the
// dump was built with a word matcher enabled, and Load reports it.
// Each document's IndexedText and FieldBoundaries are recomputed on
// Load from its fields and the loader's FieldWeights.
package persist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	kbinary "github.com/kelindar/binary"

	"github.com/lofcz/infidex/internal/postings"
	"github.com/lofcz/infidex/pkg/config"
	"github.com/lofcz/infidex/pkg/document"
	"github.com/lofcz/infidex/pkg/field"
	"github.com/lofcz/infidex/pkg/index"
)

const (
	magic   = "INFIDEX-V1"
	version = uint16(1)
)

type serializedValue struct {
	Kind int
	Str  string
	Num  float64
	Bool bool
}

type serializedField struct {
	Name           string
	Values         []serializedValue
	Indexable      bool
	Filterable     bool
	Facetable      bool
	Sortable       bool
	WordIndexing   bool
	Weight         int
	WeightOverride float64
}

type serializedDocument struct {
	Key               int64
	SegmentNumber     int32
	Fields            []serializedField
	ClientInformation string
	Deleted           bool
}

type serializedTerm struct {
	Text    string
	DF      int
	DocIDs  []int32
	Weights []byte
}

type dump struct {
	HasWordMatcher bool
	IsIndexed      bool
	Documents      []serializedDocument
	Terms          []serializedTerm
}

func toSerializedValue(v field.Value) serializedValue {
	return serializedValue{Kind: int(v.Kind), Str: v.Str, Num: v.Num, Bool: v.Bool}
}

func fromSerializedValue(v serializedValue) field.Value {
	return field.Value{Kind: field.ValueKind(v.Kind), Str: v.Str, Num: v.Num, Bool: v.Bool}
}

func toSerializedDocument(doc document.Document) serializedDocument {
	names := doc.Fields.Names()
	fields := make([]serializedField, 0, len(names))
	for _, name := range names {
		f, _ := doc.Fields.Get(name)
		values := make([]serializedValue, len(f.Values))
		for i, v := range f.Values {
			values[i] = toSerializedValue(v)
		}
		fields = append(fields, serializedField{
			Name: f.Name, Values: values,
			Indexable: f.Indexable, Filterable: f.Filterable, Facetable: f.Facetable,
			Sortable: f.Sortable, WordIndexing: f.WordIndexing,
			Weight: int(f.Weight), WeightOverride: f.WeightOverride,
		})
	}
	return serializedDocument{
		Key: int64(doc.Key), SegmentNumber: doc.SegmentNumber, Fields: fields,
		ClientInformation: doc.ClientInformation, Deleted: doc.Deleted,
	}
}

func fromSerializedDocument(sd serializedDocument) document.Document {
	fields := field.NewDocumentFields()
	for _, sf := range sd.Fields {
		values := make([]field.Value, len(sf.Values))
		for i, v := range sf.Values {
			values[i] = fromSerializedValue(v)
		}
		fields.Set(field.Field{
			Name: sf.Name, Values: values,
			Indexable: sf.Indexable, Filterable: sf.Filterable, Facetable: sf.Facetable,
			Sortable: sf.Sortable, WordIndexing: sf.WordIndexing,
			Weight: config.WeightClass(sf.Weight), WeightOverride: sf.WeightOverride,
		})
	}
	doc := document.Document{
		Key: document.Key(sd.Key), SegmentNumber: sd.SegmentNumber, Fields: fields,
		ClientInformation: sd.ClientInformation, Deleted: sd.Deleted,
	}
	return doc
}

// Dump encodes docs and idx's term table into an "INFIDEX-V1" blob.
func Dump(docs *document.Collection, idx *index.Index, hasWordMatcher bool) ([]byte, error) {
	d := dump{HasWordMatcher: hasWordMatcher, IsIndexed: idx.IsIndexed()}

	for _, doc := range docs.All() {
		d.Documents = append(d.Documents, toSerializedDocument(doc))
	}
	for _, t := range idx.AllTerms() {
		d.Terms = append(d.Terms, serializedTerm{Text: t.Text, DF: t.DF, DocIDs: t.DocIDs, Weights: t.Weights})
	}

	body, err := kbinary.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("persist: encode dump: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(magic)
	if err := binary.Write(&buf, binary.LittleEndian, version); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(body))); err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// ErrInvalidDump is returned on a bad magic, unknown version, or
// truncated/corrupt body.
var ErrInvalidDump = errors.New("persist: invalid dump")

// Loaded holds the reconstructed collection and index state, plus
// whether the dump was built with a word matcher enabled.
type Loaded struct {
	Docs           *document.Collection
	Index          *index.Index
	HasWordMatcher bool
}

// Load decodes a blob produced by Dump into idx (already constructed
// by the caller with the loader's own Config/Tokenizer).
func Load(data []byte, idx *index.Index) (*Loaded, error) {
	if len(data) < len(magic)+2+4 {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidDump)
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidDump)
	}

	r := bytes.NewReader(data[len(magic):])
	var v uint16
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if v != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDump, v)
	}

	var bodyLen uint32
	if err := binary.Read(r, binary.LittleEndian, &bodyLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	var d dump
	if err := kbinary.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrInvalidDump, err)
	}

	docs := document.NewCollection()
	for _, sd := range d.Documents {
		doc := fromSerializedDocument(sd)
		doc.IndexedText, doc.FieldBoundaries = doc.Fields.Concatenate(idx.Config.FieldWeights)
		docs.Add(doc)
	}

	for _, st := range d.Terms {
		idx.RestoreTerm(&postings.Term{Text: st.Text, DF: st.DF, DocIDs: st.DocIDs, Weights: st.Weights})
	}
	idx.MarkIndexed(d.IsIndexed)

	return &Loaded{Docs: docs, Index: idx, HasWordMatcher: d.HasWordMatcher}, nil
}
