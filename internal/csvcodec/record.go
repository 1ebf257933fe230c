// Package csvcodec encodes record collections to CSV text and decodes CSV
// text back into field-keyed records.
//
// The format is comma-delimited with a single header row. Cells containing a
// comma, a double quote, or a line break are wrapped in double quotes with
// internal quotes doubled. Decoding is done by a character-scanning state
// machine over the whole input so quoted line breaks stay inside their cell.
//
// Records are ordered lists of named cells rather than maps: the header of an
// encoded table is the union of field names in first-seen order, and Go maps
// would lose that order.
package csvcodec

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered sequence of named cells. A name missing from the
// record is absent, which is different from being present with an empty value.
type Record []Field

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the named value, or "" when the field is absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}
