package serde

import (
	"bytes"
	"strconv"
	"strings"
)

//go:generate mockgen -destination=lazy_mock.go -package=serde -source=lazy.go

// nullSequence marks a nested value as null.
var nullSequence = []byte(`\N`)

// LazyObject holds borrowed bytes and materializes a typed value on the first Object call
// after Init. The bytes must stay valid until the next Init.
type LazyObject interface {
	Init(data []byte, start, length int)
	Object() any
}

// NewLazyObject creates an empty lazy object for t.
func NewLazyObject(t *TypeInfo) LazyObject {
	switch t.Category {
	case CategoryStruct:
		return newLazyStruct(t)
	case CategoryList:
		return &LazyList{typeInfo: t}
	case CategoryMap:
		return &LazyMap{typeInfo: t}
	}
	return &LazyPrimitive{kind: t.Primitive}
}

// LazyPrimitive parses the UTF-8 text form of a primitive. Values that do not parse as the
// declared kind read as nil.
type LazyPrimitive struct {
	kind   PrimitiveKind
	data   []byte
	parsed bool
	value  any
}

func (p *LazyPrimitive) Init(data []byte, start, length int) {
	p.data = data[start : start+length]
	p.parsed = false
	p.value = nil
}

func (p *LazyPrimitive) Object() any {
	if !p.parsed {
		p.value = parsePrimitive(p.kind, p.data)
		p.parsed = true
	}
	return p.value
}

func parsePrimitive(kind PrimitiveKind, b []byte) any {
	switch kind {
	case KindString:
		return string(b)
	case KindBinary:
		return b
	case KindBoolean:
		switch strings.ToLower(string(b)) {
		case "true":
			return true
		case "false":
			return false
		}
		return nil
	case KindTinyInt:
		n, err := strconv.ParseInt(string(b), 10, 8)
		if err != nil {
			return nil
		}
		return int8(n)
	case KindSmallInt:
		n, err := strconv.ParseInt(string(b), 10, 16)
		if err != nil {
			return nil
		}
		return int16(n)
	case KindInt:
		n, err := strconv.ParseInt(string(b), 10, 32)
		if err != nil {
			return nil
		}
		return int32(n)
	case KindBigInt:
		n, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return nil
		}
		return n
	case KindFloat:
		f, err := strconv.ParseFloat(string(b), 32)
		if err != nil {
			return nil
		}
		return float32(f)
	case KindDouble:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return nil
		}
		return f
	}
	return nil
}

// LazyStruct splits its bytes on the struct delimiter and materializes one value per field as
// a []any. Missing trailing fields are nil and surplus parts are ignored.
type LazyStruct struct {
	typeInfo *TypeInfo
	fields   []LazyObject
	data     []byte
	parsed   bool
	values   []any
}

func newLazyStruct(t *TypeInfo) *LazyStruct {
	s := &LazyStruct{
		typeInfo: t,
		fields:   make([]LazyObject, len(t.Fields)),
		values:   make([]any, len(t.Fields)),
	}
	for i, f := range t.Fields {
		s.fields[i] = NewLazyObject(f.Type)
	}
	return s
}

// Delimiter is the byte the struct splits on.
func (s *LazyStruct) Delimiter() byte {
	return s.typeInfo.Delimiter
}

func (s *LazyStruct) Init(data []byte, start, length int) {
	s.data = data[start : start+length]
	s.parsed = false
}

func (s *LazyStruct) Object() any {
	if s.parsed {
		return s.values
	}

	parts := bytes.SplitN(s.data, []byte{s.typeInfo.Delimiter}, len(s.fields)+1)
	for i, f := range s.fields {
		if i >= len(parts) || bytes.Equal(parts[i], nullSequence) {
			s.values[i] = nil
			continue
		}
		f.Init(parts[i], 0, len(parts[i]))
		s.values[i] = f.Object()
	}
	s.parsed = true
	return s.values
}

// LazyList splits its bytes on the list delimiter and materializes a []any.
type LazyList struct {
	typeInfo *TypeInfo
	elems    []LazyObject
	data     []byte
	parsed   bool
	values   []any
}

func (l *LazyList) Init(data []byte, start, length int) {
	l.data = data[start : start+length]
	l.parsed = false
}

func (l *LazyList) Object() any {
	if l.parsed {
		return l.values
	}

	l.values = l.values[:0]
	if len(l.data) > 0 {
		parts := bytes.Split(l.data, []byte{l.typeInfo.Delimiter})
		for i, part := range parts {
			if i >= len(l.elems) {
				l.elems = append(l.elems, NewLazyObject(l.typeInfo.Elem))
			}
			if bytes.Equal(part, nullSequence) {
				l.values = append(l.values, nil)
				continue
			}
			l.elems[i].Init(part, 0, len(part))
			l.values = append(l.values, l.elems[i].Object())
		}
	}
	if l.values == nil {
		l.values = []any{}
	}
	l.parsed = true
	return l.values
}

// LazyMap splits its bytes into entries, then every entry into a key and a value, and
// materializes a map[any]any. Entries with a null key are dropped.
type LazyMap struct {
	typeInfo *TypeInfo
	data     []byte
	parsed   bool
	values   map[any]any
}

func (m *LazyMap) Init(data []byte, start, length int) {
	m.data = data[start : start+length]
	m.parsed = false
}

func (m *LazyMap) Object() any {
	if m.parsed {
		return m.values
	}

	m.values = make(map[any]any)
	if len(m.data) > 0 {
		for _, entry := range bytes.Split(m.data, []byte{m.typeInfo.Delimiter}) {
			k, v, found := bytes.Cut(entry, []byte{m.typeInfo.KeyDelimiter})
			if !found {
				v = nil
			}
			m.put(k, v, found)
		}
	}
	m.parsed = true
	return m.values
}

func (m *LazyMap) put(k, v []byte, hasValue bool) {
	if bytes.Equal(k, nullSequence) {
		return
	}
	key := NewLazyObject(m.typeInfo.Key)
	key.Init(k, 0, len(k))
	keyValue := key.Object()
	if keyValue == nil {
		return
	}

	var value any
	if hasValue && !bytes.Equal(v, nullSequence) {
		obj := NewLazyObject(m.typeInfo.Value)
		obj.Init(v, 0, len(v))
		value = obj.Object()
	}
	m.values[mapKey(keyValue)] = value
}

// mapKey makes binary keys usable as Go map keys.
func mapKey(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
