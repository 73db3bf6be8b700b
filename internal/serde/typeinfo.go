// Package serde describes the shape of the tuples handed to the analytics side and provides
// the lazy objects that turn borrowed bytes into typed values on first read.
//
// Values nested inside a field are delimited text. Delimiters are picked by nesting level from
// a separator table, the same way a delimited-text row format does it: level 0 separates the
// fields of a row, a struct, list or map that is itself a row field splits on level 1 and a
// map separates its keys from values with the next level.
package serde

import (
	"fmt"
	"strings"
)

// Category classifies a TypeInfo.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryList
	CategoryMap
	CategoryStruct
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryList:
		return "list"
	case CategoryMap:
		return "map"
	case CategoryStruct:
		return "struct"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// PrimitiveKind identifies a primitive TypeInfo.
type PrimitiveKind int

const (
	KindString PrimitiveKind = iota
	KindBoolean
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindBinary
)

var primitiveNames = map[string]PrimitiveKind{
	"string":   KindString,
	"boolean":  KindBoolean,
	"tinyint":  KindTinyInt,
	"smallint": KindSmallInt,
	"int":      KindInt,
	"bigint":   KindBigInt,
	"float":    KindFloat,
	"double":   KindDouble,
	"binary":   KindBinary,
}

func (k PrimitiveKind) String() string {
	for name, kind := range primitiveNames {
		if kind == k {
			return name
		}
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// DefaultSeparators is the separator table used when none is configured.
var DefaultSeparators = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

// DefaultStructDelimiter is what a struct that is a row field splits on.
const DefaultStructDelimiter = byte(0x02)

// Field is a named member of a Schema or struct TypeInfo.
type Field struct {
	Name string
	Type *TypeInfo
}

// TypeInfo describes a field type.
type TypeInfo struct {
	Category  Category
	Primitive PrimitiveKind // CategoryPrimitive only

	Elem   *TypeInfo // CategoryList
	Key    *TypeInfo // CategoryMap
	Value  *TypeInfo // CategoryMap
	Fields []Field   // CategoryStruct

	// Delimiter separates struct fields, list elements or map entries.
	Delimiter byte
	// KeyDelimiter separates a map key from its value.
	KeyDelimiter byte
}

// PrimitiveType returns a primitive TypeInfo.
func PrimitiveType(kind PrimitiveKind) *TypeInfo {
	return &TypeInfo{Category: CategoryPrimitive, Primitive: kind}
}

// String renders the type in the form accepted by ParseTypeInfo.
func (t *TypeInfo) String() string {
	switch t.Category {
	case CategoryList:
		return "array<" + t.Elem.String() + ">"
	case CategoryMap:
		return "map<" + t.Key.String() + "," + t.Value.String() + ">"
	case CategoryStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ":" + f.Type.String()
		}
		return "struct<" + strings.Join(parts, ",") + ">"
	}
	return t.Primitive.String()
}

// Schema is the ordered tuple shape of a row.
type Schema struct {
	Fields []Field
}

// NewSchema parses one type string per field name.
func NewSchema(names []string, types []string) (*Schema, error) {
	if len(names) != len(types) {
		return nil, fmt.Errorf("%d field names but %d field types", len(names), len(types))
	}

	s := &Schema{Fields: make([]Field, len(names))}
	for i := range names {
		t, err := ParseTypeInfo(types[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", names[i], err)
		}
		s.Fields[i] = Field{Name: names[i], Type: t}
	}
	return s, nil
}

// Len is the tuple arity.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Fields)
}

// ParseTypeInfo parses a row field type such as "struct<id:bigint,name:string>" using the
// default separators.
func ParseTypeInfo(s string) (*TypeInfo, error) {
	return ParseTypeInfoWithSeparators(s, DefaultSeparators)
}

// ParseTypeInfoWithSeparators parses a row field type and assigns delimiters from separators.
// separators[0] is reserved for the row itself.
func ParseTypeInfoWithSeparators(s string, separators []byte) (*TypeInfo, error) {
	p := &typeInfoParser{str: s, separators: separators}
	t, err := p.parseType(1)
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if p.idx < len(p.str) {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", p.str[p.idx:], p.idx, s)
	}
	return t, nil
}

type typeInfoParser struct {
	str        string
	idx        int
	separators []byte
}

func (p *typeInfoParser) skipBlank() {
	for p.idx < len(p.str) && (p.str[p.idx] == ' ' || p.str[p.idx] == '\t') {
		p.idx++
	}
}

func (p *typeInfoParser) ident() string {
	p.skipBlank()
	start := p.idx
	for p.idx < len(p.str) {
		c := p.str[p.idx]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			break
		}
		p.idx++
	}
	return p.str[start:p.idx]
}

func (p *typeInfoParser) expect(c byte) error {
	p.skipBlank()
	if p.idx >= len(p.str) || p.str[p.idx] != c {
		return fmt.Errorf("expected %q at offset %d in type %q", c, p.idx, p.str)
	}
	p.idx++
	return nil
}

func (p *typeInfoParser) separator(level int) (byte, error) {
	if level >= len(p.separators) {
		return 0, fmt.Errorf("type %q is nested deeper than %d levels", p.str,
			len(p.separators)-1)
	}
	return p.separators[level], nil
}

func (p *typeInfoParser) parseType(level int) (*TypeInfo, error) {
	name := strings.ToLower(p.ident())
	if name == "" {
		return nil, fmt.Errorf("expected a type name at offset %d in type %q", p.idx, p.str)
	}

	switch name {
	case "array":
		delim, err := p.separator(level)
		if err != nil {
			return nil, err
		}
		if err = p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType(level + 1)
		if err != nil {
			return nil, err
		}
		if err = p.expect('>'); err != nil {
			return nil, err
		}
		return &TypeInfo{Category: CategoryList, Elem: elem, Delimiter: delim}, nil

	case "map":
		delim, err := p.separator(level)
		if err != nil {
			return nil, err
		}
		keyDelim, err := p.separator(level + 1)
		if err != nil {
			return nil, err
		}
		if err = p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.parseType(level + 2)
		if err != nil {
			return nil, err
		}
		if key.Category != CategoryPrimitive {
			return nil, fmt.Errorf("map keys must be primitive in type %q", p.str)
		}
		if err = p.expect(','); err != nil {
			return nil, err
		}
		value, err := p.parseType(level + 2)
		if err != nil {
			return nil, err
		}
		if err = p.expect('>'); err != nil {
			return nil, err
		}
		return &TypeInfo{
			Category:     CategoryMap,
			Key:          key,
			Value:        value,
			Delimiter:    delim,
			KeyDelimiter: keyDelim,
		}, nil

	case "struct":
		delim, err := p.separator(level)
		if err != nil {
			return nil, err
		}
		if err = p.expect('<'); err != nil {
			return nil, err
		}
		t := &TypeInfo{Category: CategoryStruct, Delimiter: delim}
		for {
			fieldName := p.ident()
			if fieldName == "" {
				return nil, fmt.Errorf("expected a field name at offset %d in type %q", p.idx,
					p.str)
			}
			if err = p.expect(':'); err != nil {
				return nil, err
			}
			fieldType, err := p.parseType(level + 1)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, Field{Name: fieldName, Type: fieldType})

			p.skipBlank()
			if p.idx < len(p.str) && p.str[p.idx] == ',' {
				p.idx++
				continue
			}
			if err = p.expect('>'); err != nil {
				return nil, err
			}
			return t, nil
		}
	}

	kind, exists := primitiveNames[name]
	if !exists {
		return nil, fmt.Errorf("unknown type %q in %q", name, p.str)
	}
	return PrimitiveType(kind), nil
}
