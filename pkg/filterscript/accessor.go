package filterscript

// FieldAccessor exposes one document's fields to the VM without this
// package importing pkg/document or pkg/field. pkg/engine supplies
// the adapter that bridges a real document.Document into this shape.
type FieldAccessor interface {
	// FieldValues returns the named field's values and whether the
	// field is present at all. A present-but-empty field and an
	// absent field both read as null to the VM.
	FieldValues(name string) ([]FilterValue, bool)
}

// DocumentSet abstracts the corpus NumberOfDocumentsInFilter walks.
type DocumentSet interface {
	Count() int
	// At returns the i'th document's accessor, or ok=false if it is
	// soft-deleted and should be skipped.
	At(i int) (doc FieldAccessor, ok bool)
}

func fieldScalar(doc FieldAccessor, name string) FilterValue {
	vals, ok := doc.FieldValues(name)
	if !ok || len(vals) == 0 {
		return NullValue
	}
	return vals[0]
}
