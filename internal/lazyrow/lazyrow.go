// Package lazyrow presents a wide row as a lazily parsed tuple. Fields are decoded on first
// read, at most once per bound row, following a FieldPlan built from the column mapping.
//
// A LazyRow is bound to one row at a time and is not safe for concurrent use. Run one
// LazyRow per goroutine to decode rows in parallel.
package lazyrow

import (
	"errors"
	"github.com/litetable/litetable-serde/internal/marshal"
	"github.com/litetable/litetable-serde/internal/serde"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/rs/zerolog/log"
	"strings"
)

//go:generate mockgen -destination=lazyrow_mock.go -package=lazyrow -source=lazyrow.go

// DefaultKeyColumn is the column name that maps a field to the row key.
const DefaultKeyColumn = ":key"

type lazyFactory interface {
	NewLazyObject(t *serde.TypeInfo) serde.LazyObject
	NewLazyCellMap(t *serde.TypeInfo) (*serde.LazyCellMap, error)
}

type typeParser interface {
	ParseComposite(expr string) (*marshal.CompositeType, error)
}

type Config struct {
	// Schema is the tuple shape handed to the consumer.
	Schema *serde.Schema
	// KeyColumn maps a field to the row key. Defaults to DefaultKeyColumn.
	KeyColumn string
	// CompositeTypes holds the composite type expression of struct columns, by column name.
	CompositeTypes map[string]string
	// DefaultCompositeType is used for struct columns missing from CompositeTypes.
	// Defaults to marshal.DefaultCompositeExpression.
	DefaultCompositeType string
	// PopulateWildcardMaps fills wildcard columns with every cell of the row. When false,
	// wildcard fields read as absent.
	PopulateWildcardMaps bool

	Factory lazyFactory
	Parser  typeParser
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Schema == nil {
		errGrp = append(errGrp, errors.New("schema is required"))
	}
	return errors.Join(errGrp...)
}

type settings struct {
	schema               *serde.Schema
	keyColumn            string
	compositeTypes       map[string]string
	defaultCompositeType string
	populateWildcardMaps bool
	factory              lazyFactory
	parser               typeParser
}

func (s *settings) compositeExpression(column string) string {
	if expr, ok := s.compositeTypes[column]; ok && expr != "" {
		return expr
	}
	return s.defaultCompositeType
}

// LazyRow is the tuple view of a bound wide row.
type LazyRow struct {
	settings *settings

	row         *widerow.Row
	columns     []string
	columnBytes [][]byte

	plan        *FieldPlan
	parsed      bool
	initialized []bool
	absent      []bool
	cachedList  []any
}

// New creates an unbound LazyRow.
func New(cfg *Config) (*LazyRow, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &settings{
		schema:               cfg.Schema,
		keyColumn:            cfg.KeyColumn,
		compositeTypes:       cfg.CompositeTypes,
		defaultCompositeType: cfg.DefaultCompositeType,
		populateWildcardMaps: cfg.PopulateWildcardMaps,
		factory:              cfg.Factory,
		parser:               cfg.Parser,
	}
	if s.keyColumn == "" {
		s.keyColumn = DefaultKeyColumn
	}
	if s.defaultCompositeType == "" {
		s.defaultCompositeType = marshal.DefaultCompositeExpression
	}
	if s.factory == nil {
		s.factory = serde.NewFactory()
	}
	if s.parser == nil {
		s.parser = marshal.NewParser()
	}

	return &LazyRow{settings: s}, nil
}

// Init binds the LazyRow to a new row. columns are aligned with the schema fields;
// columnBytes optionally carries their byte form and may be nil. The field plan survives
// rebinding unless the columns or their byte form change.
func (r *LazyRow) Init(row *widerow.Row, columns []string, columnBytes [][]byte) error {
	if len(columns) != r.settings.schema.Len() {
		return newError(ErrColumnCount, "%d columns for %d fields", len(columns),
			r.settings.schema.Len())
	}
	if columnBytes != nil && len(columnBytes) != len(columns) {
		return newError(ErrColumnCount, "%d column names in bytes for %d columns",
			len(columnBytes), len(columns))
	}

	if r.plan != nil && !r.plan.sameColumns(columns, columnBytes) {
		r.plan = nil
	}

	r.row = row
	r.columns = columns
	r.columnBytes = columnBytes
	r.parsed = false
	return nil
}

func (r *LazyRow) parse() error {
	if r.row == nil {
		return ErrNotBound
	}

	if r.plan == nil {
		plan, err := newFieldPlan(r.settings, r.columns, r.columnBytes)
		if err != nil {
			return err
		}
		r.plan = plan
		r.initialized = make([]bool, plan.Len())
		r.absent = make([]bool, plan.Len())

		log.Debug().Strs("columns", r.columns).Msgf("built field plan with %d fields",
			plan.Len())
	}

	clear(r.initialized)
	clear(r.absent)
	r.parsed = true
	return nil
}

// Plan returns the field plan, or nil before the first field read.
func (r *LazyRow) Plan() *FieldPlan {
	return r.plan
}

// Object returns the tuple view itself.
func (r *LazyRow) Object() *LazyRow {
	return r
}

// GetField reads field i of the bound row. An absent value is nil with a nil error.
func (r *LazyRow) GetField(i int) (any, error) {
	if !r.parsed {
		if err := r.parse(); err != nil {
			return nil, err
		}
	}
	return r.uncheckedGetField(i)
}

// GetFieldsAsList reads every field. The returned slice is reused by the next call.
func (r *LazyRow) GetFieldsAsList() ([]any, error) {
	if !r.parsed {
		if err := r.parse(); err != nil {
			return nil, err
		}
	}

	if r.cachedList == nil {
		r.cachedList = make([]any, 0, r.plan.Len())
	} else {
		r.cachedList = r.cachedList[:0]
	}

	for i := 0; i < r.plan.Len(); i++ {
		v, err := r.uncheckedGetField(i)
		if err != nil {
			return nil, err
		}
		r.cachedList = append(r.cachedList, v)
	}
	return r.cachedList, nil
}

func (r *LazyRow) uncheckedGetField(i int) (any, error) {
	if i < 0 || i >= r.plan.Len() {
		return nil, newError(ErrFieldOutOfRange, "field %d of %d", i, r.plan.Len())
	}

	f := &r.plan.fields[i]
	if r.initialized[i] {
		if r.absent[i] {
			return nil, nil
		}
		return f.object.Object(), nil
	}

	switch f.strategy {
	case StrategyKey:
		key := r.row.Key
		f.object.Init(key, 0, len(key))

	case StrategyWildcardMap:
		if !r.settings.populateWildcardMaps {
			return r.markAbsent(i)
		}
		f.cellMap.InitCells(r.row)

	case StrategySingle:
		cell, exists := r.row.Lookup(f.name)
		if !exists {
			return r.markAbsent(i)
		}

		if f.typeInfo.Category == serde.CategoryStruct {
			data, err := r.decodeComposite(f, cell.Value)
			if err != nil {
				return nil, err
			}
			f.object.Init(data, 0, len(data))
		} else {
			f.object.Init(cell.Value, 0, len(cell.Value))
		}
	}

	r.initialized[i] = true
	return f.object.Object(), nil
}

func (r *LazyRow) markAbsent(i int) (any, error) {
	r.initialized[i] = true
	r.absent[i] = true
	return nil, nil
}

// decodeComposite renders every component of a composite cell and joins them with the
// struct delimiter of the field into a fresh buffer. A component holding the delimiter
// cannot be split back out and fails the row.
func (r *LazyRow) decodeComposite(f *planField, value []byte) ([]byte, error) {
	if f.composite == nil {
		ct, err := r.settings.parser.ParseComposite(f.compositeExpr)
		if err != nil {
			return nil, wrapError(ErrCompositeType, err, "column %s uses %q", f.column,
				f.compositeExpr)
		}
		f.composite = ct
	}

	components, err := f.composite.Components(value)
	if err != nil {
		return nil, wrapError(ErrCompositeDecode, err, "column %s of row %q", f.column,
			r.row.Key)
	}

	delim := f.typeInfo.Delimiter
	if delim == 0 {
		delim = serde.DefaultStructDelimiter
	}

	size := 0
	for i, c := range components {
		if strings.IndexByte(c, delim) >= 0 {
			return nil, newError(ErrCompositeDecode,
				"component %d of column %s in row %q holds the struct delimiter %#x", i,
				f.column, r.row.Key, delim)
		}
		size += len(c) + 1
	}
	out := make([]byte, 0, size)
	for i, c := range components {
		if i > 0 {
			out = append(out, delim)
		}
		out = append(out, c...)
	}
	return out, nil
}
