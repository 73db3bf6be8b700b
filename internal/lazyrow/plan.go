package lazyrow

import (
	"bytes"
	"github.com/litetable/litetable-serde/internal/marshal"
	"github.com/litetable/litetable-serde/internal/serde"
	"strings"
)

// Strategy is how a field gets its bytes out of a row.
type Strategy int

const (
	// StrategyKey binds the row key.
	StrategyKey Strategy = iota
	// StrategyWildcardMap exposes every cell of the row as a map.
	StrategyWildcardMap
	// StrategySingle binds the value of one named cell.
	StrategySingle
)

func (s Strategy) String() string {
	switch s {
	case StrategyKey:
		return "KEY"
	case StrategyWildcardMap:
		return "WILDCARD_MAP"
	case StrategySingle:
		return "SINGLE"
	}
	return "UNKNOWN"
}

type planField struct {
	column   string
	name     []byte
	typeInfo *serde.TypeInfo
	strategy Strategy
	object   serde.LazyObject
	cellMap  *serde.LazyCellMap // StrategyWildcardMap only

	// struct fields read from a single column are composite values
	compositeExpr string
	composite     *marshal.CompositeType // parsed on first decode
}

// FieldPlan is the decode table of a schema and column mapping. It is built once and reused
// for every row with the same mapping.
type FieldPlan struct {
	columns []string
	fields  []planField
}

func newFieldPlan(s *settings, columns []string, columnBytes [][]byte) (*FieldPlan, error) {
	p := &FieldPlan{
		columns: append([]string(nil), columns...),
		fields:  make([]planField, len(s.schema.Fields)),
	}

	for i, field := range s.schema.Fields {
		f := planField{
			column:   columns[i],
			typeInfo: field.Type,
		}
		f.name = append([]byte(nil), lookupName(columns, columnBytes, i)...)

		switch {
		case f.column == s.keyColumn:
			f.strategy = StrategyKey
			f.object = s.factory.NewLazyObject(field.Type)
		case strings.HasSuffix(f.column, ":"):
			cellMap, err := s.factory.NewLazyCellMap(field.Type)
			if err != nil {
				return nil, wrapError(ErrWildcardType, err, "column %s", f.column)
			}
			f.strategy = StrategyWildcardMap
			f.cellMap = cellMap
			f.object = cellMap
		default:
			f.strategy = StrategySingle
			f.object = s.factory.NewLazyObject(field.Type)
			if field.Type.Category == serde.CategoryStruct {
				f.compositeExpr = s.compositeExpression(f.column)
			}
		}

		p.fields[i] = f
	}

	return p, nil
}

// Len is the number of fields in the plan.
func (p *FieldPlan) Len() int {
	return len(p.fields)
}

// Strategy is how field i is read from the row.
func (p *FieldPlan) Strategy(i int) Strategy {
	return p.fields[i].strategy
}

// Object is the lazy object installed for field i.
func (p *FieldPlan) Object(i int) serde.LazyObject {
	return p.fields[i].object
}

// Column is the column name field i is mapped to.
func (p *FieldPlan) Column(i int) string {
	return p.fields[i].column
}

// sameColumns reports whether the plan still fits a column mapping. Both the column names
// and the cell names they are looked up by must match.
func (p *FieldPlan) sameColumns(columns []string, columnBytes [][]byte) bool {
	if len(p.columns) != len(columns) {
		return false
	}
	for i := range columns {
		if p.columns[i] != columns[i] {
			return false
		}
		name := p.fields[i].name
		if columnBytes == nil {
			if string(name) != columns[i] {
				return false
			}
		} else if !bytes.Equal(name, columnBytes[i]) {
			return false
		}
	}
	return true
}

// lookupName is the cell name of column i, taken from columnBytes when given.
func lookupName(columns []string, columnBytes [][]byte, i int) []byte {
	if columnBytes != nil {
		return columnBytes[i]
	}
	return []byte(columns[i])
}
