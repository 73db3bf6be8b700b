package serde

import (
	"fmt"
)

// CellSource is anything that can enumerate named cells, such as a wide row.
type CellSource interface {
	Range(fn func(name, value []byte) bool)
}

// LazyCellMap is the map field of a wildcard column: every cell of a row becomes an entry
// keyed by the cell name. Bound through Init it behaves like a LazyMap over delimited bytes.
type LazyCellMap struct {
	LazyMap
	cells CellSource
}

// NewLazyCellMap creates a cell map for a map TypeInfo.
func NewLazyCellMap(t *TypeInfo) (*LazyCellMap, error) {
	if t == nil || t.Category != CategoryMap {
		return nil, fmt.Errorf("a wildcard column needs a map type, got %v", t)
	}
	return &LazyCellMap{LazyMap: LazyMap{typeInfo: t}}, nil
}

func (m *LazyCellMap) Init(data []byte, start, length int) {
	m.cells = nil
	m.LazyMap.Init(data, start, length)
}

// InitCells binds the map to the cells of src.
func (m *LazyCellMap) InitCells(src CellSource) {
	m.cells = src
	m.data = nil
	m.parsed = false
}

func (m *LazyCellMap) Object() any {
	if m.cells == nil {
		return m.LazyMap.Object()
	}
	if m.parsed {
		return m.values
	}

	m.values = make(map[any]any)
	m.cells.Range(func(name, value []byte) bool {
		m.put(name, value, true)
		return true
	})
	m.parsed = true
	return m.values
}
