package export

import (
	"bufio"
	"fmt"
	"github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"
	"github.com/litetable/litetable-serde/internal/serde"
	"strconv"
	"strings"
)

const avroRecordName = "Row"

// avroNode mirrors a TypeInfo with the Avro names needed to build native values. Every
// value is nullable, so each node is written as a union branch.
type avroNode struct {
	branch   string
	category serde.Category
	elem     *avroNode
	value    *avroNode
	fields   []avroField
}

type avroField struct {
	name string
	node *avroNode
}

// avroSchema builds the record schema of a tuple and its native value tree.
func avroSchema(schema *serde.Schema) (string, []avroField, error) {
	fields := make([]avroField, len(schema.Fields))
	fieldSchemas := make([]map[string]any, len(schema.Fields))
	names := newAvroNames(len(schema.Fields))
	for i, f := range schema.Fields {
		name := names.add(f.Name)
		node, typ := buildAvroNode(f.Type, avroRecordName+"_"+name)
		fields[i] = avroField{name: name, node: node}
		fieldSchemas[i] = map[string]any{
			"name":    name,
			"type":    []any{"null", typ},
			"default": nil,
		}
	}

	b, err := json.Marshal(map[string]any{
		"type":   "record",
		"name":   avroRecordName,
		"fields": fieldSchemas,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode avro schema: %w", err)
	}
	return string(b), fields, nil
}

func buildAvroNode(t *serde.TypeInfo, recordName string) (*avroNode, any) {
	node := &avroNode{category: t.Category}

	switch t.Category {
	case serde.CategoryList:
		elem, typ := buildAvroNode(t.Elem, recordName+"_item")
		node.branch = "array"
		node.elem = elem
		return node, map[string]any{"type": "array", "items": []any{"null", typ}}

	case serde.CategoryMap:
		value, typ := buildAvroNode(t.Value, recordName+"_value")
		node.branch = "map"
		node.value = value
		return node, map[string]any{"type": "map", "values": []any{"null", typ}}

	case serde.CategoryStruct:
		fieldSchemas := make([]map[string]any, len(t.Fields))
		names := newAvroNames(len(t.Fields))
		for i, f := range t.Fields {
			name := names.add(f.Name)
			child, typ := buildAvroNode(f.Type, recordName+"_"+name)
			node.fields = append(node.fields, avroField{name: name, node: child})
			fieldSchemas[i] = map[string]any{
				"name":    name,
				"type":    []any{"null", typ},
				"default": nil,
			}
		}
		node.branch = recordName
		return node, map[string]any{"type": "record", "name": recordName, "fields": fieldSchemas}
	}

	node.branch = avroPrimitive(t.Primitive)
	return node, node.branch
}

func avroPrimitive(kind serde.PrimitiveKind) string {
	switch kind {
	case serde.KindBoolean:
		return "boolean"
	case serde.KindTinyInt, serde.KindSmallInt, serde.KindInt:
		return "int"
	case serde.KindBigInt:
		return "long"
	case serde.KindFloat:
		return "float"
	case serde.KindDouble:
		return "double"
	case serde.KindBinary:
		return "bytes"
	}
	return "string"
}

// avroNames hands out the field names of one record. Avro needs them unique, so a name
// already taken gets a _2, _3, ... suffix.
type avroNames map[string]struct{}

func newAvroNames(n int) avroNames {
	return make(avroNames, n)
}

func (a avroNames) add(name string) string {
	base := avroName(name)
	unique := base
	for n := 2; ; n++ {
		if _, ok := a[unique]; !ok {
			break
		}
		unique = base + "_" + strconv.Itoa(n)
	}
	a[unique] = struct{}{}
	return unique
}

// avroName replaces the characters Avro names do not allow.
func avroName(name string) string {
	var b strings.Builder
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			c = '_'
		}
		b.WriteRune(c)
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func (n *avroNode) native(v any) any {
	if v == nil {
		return nil
	}
	return goavro.Union(n.branch, n.plain(v))
}

func (n *avroNode) plain(v any) any {
	switch n.category {
	case serde.CategoryList:
		values, _ := v.([]any)
		out := make([]any, len(values))
		for i, e := range values {
			out[i] = n.elem.native(e)
		}
		return out

	case serde.CategoryMap:
		values, _ := v.(map[any]any)
		out := make(map[string]any, len(values))
		for k, e := range values {
			out[mapKey(k)] = n.value.native(e)
		}
		return out

	case serde.CategoryStruct:
		values, _ := v.([]any)
		return nativeRecord(n.fields, values)
	}

	switch x := v.(type) {
	case int8:
		return int32(x)
	case int16:
		return int32(x)
	case []byte:
		return append([]byte(nil), x...)
	}
	return v
}

func nativeRecord(fields []avroField, values []any) map[string]any {
	out := make(map[string]any, len(fields))
	for i, f := range fields {
		var v any
		if i < len(values) {
			v = values[i]
		}
		out[f.name] = f.node.native(v)
	}
	return out
}

// avroFormat writes tuples as records of an Avro object container file.
type avroFormat struct {
	out    *bufio.Writer
	ocf    *goavro.OCFWriter
	fields []avroField
}

func newAvroFormat(schema *serde.Schema, out *bufio.Writer, compression string) (*avroFormat,
	error) {
	avroSchemaJSON, fields, err := avroSchema(schema)
	if err != nil {
		return nil, err
	}

	codec, err := goavro.NewCodec(avroSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}

	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               out,
		Codec:           codec,
		CompressionName: compression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create avro writer: %w", err)
	}

	return &avroFormat{out: out, ocf: ocf, fields: fields}, nil
}

func (f *avroFormat) prepare(values []any) (any, error) {
	return nativeRecord(f.fields, values), nil
}

func (f *avroFormat) write(record any) error {
	if err := f.ocf.Append([]any{record}); err != nil {
		return fmt.Errorf("failed to write avro record: %w", err)
	}
	return nil
}

func (f *avroFormat) flush() error {
	return f.out.Flush()
}
