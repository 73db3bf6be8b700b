package widerow

import (
	"sort"
)

// Cell is a single stored value in a wide row. The value is opaque to this package; the
// column mapping decides how it is decoded.
type Cell struct {
	Name      []byte `json:"name"`
	Value     []byte `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// Row defines a retrieved wide row: a row key and every cell that was read for it.
//
// Example:
//
//	Row{
//	  Key: []byte("user:12345"),
//	  Cells: map[string]Cell{
//	    "name": {Name: []byte("name"), Value: []byte("jo")},
//	    "pair": {Name: []byte("pair"), Value: compositeBytes},
//	  },
//	}
//
// A Row is treated as read-only while a lazy row is bound to it.
type Row struct {
	Key   []byte          `json:"key"`
	Cells map[string]Cell `json:"cells"` // column name -> newest cell
}

// NewRow creates an empty row for the provided key.
func NewRow(key []byte) *Row {
	return &Row{
		Key:   key,
		Cells: make(map[string]Cell),
	}
}

// Put stores a cell, keeping only the newest version of each column name. When two versions
// share a timestamp, the last write wins.
func (r *Row) Put(name, value []byte, timestamp int64) {
	if r.Cells == nil {
		r.Cells = make(map[string]Cell)
	}

	existing, exists := r.Cells[string(name)]
	if exists && existing.Timestamp > timestamp {
		return
	}

	r.Cells[string(name)] = Cell{
		Name:      name,
		Value:     value,
		Timestamp: timestamp,
	}
}

// Delete removes a cell by name.
func (r *Row) Delete(name []byte) {
	delete(r.Cells, string(name))
}

// Lookup returns the cell stored under the exact column name.
func (r *Row) Lookup(name []byte) (Cell, bool) {
	if r == nil || r.Cells == nil {
		return Cell{}, false
	}
	c, exists := r.Cells[string(name)]
	return c, exists
}

// Len is the number of cells in the row.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Cells)
}

// Names returns every column name in the row, sorted.
func (r *Row) Names() []string {
	if r == nil {
		return nil
	}

	names := make([]string, 0, len(r.Cells))
	for name := range r.Cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Range calls fn for every cell in column name order until fn returns false.
func (r *Row) Range(fn func(name, value []byte) bool) {
	for _, name := range r.Names() {
		c := r.Cells[name]
		if !fn(c.Name, c.Value) {
			return
		}
	}
}
