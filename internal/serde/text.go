package serde

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// EncodeText writes v in the delimited text form that lazy objects of type t parse. It is
// the inverse of NewLazyObject(t).Init(...).Object() for every value that form can express.
func EncodeText(t *TypeInfo, v any) []byte {
	return appendText(nil, t, v)
}

// EncodeRow writes a whole row with fields separated by DefaultSeparators[0].
func EncodeRow(s *Schema, values []any) []byte {
	var out []byte
	for i, f := range s.Fields {
		if i > 0 {
			out = append(out, DefaultSeparators[0])
		}
		var v any
		if i < len(values) {
			v = values[i]
		}
		out = appendText(out, f.Type, v)
	}
	return out
}

func appendText(out []byte, t *TypeInfo, v any) []byte {
	if v == nil {
		return append(out, nullSequence...)
	}

	switch t.Category {
	case CategoryStruct:
		values, _ := v.([]any)
		for i, f := range t.Fields {
			if i > 0 {
				out = append(out, t.Delimiter)
			}
			var fv any
			if i < len(values) {
				fv = values[i]
			}
			out = appendText(out, f.Type, fv)
		}
		return out

	case CategoryList:
		values, _ := v.([]any)
		for i, e := range values {
			if i > 0 {
				out = append(out, t.Delimiter)
			}
			out = appendText(out, t.Elem, e)
		}
		return out

	case CategoryMap:
		values, _ := v.(map[any]any)
		entries := make([][]byte, 0, len(values))
		for k, val := range values {
			entry := appendText(nil, t.Key, k)
			entry = append(entry, t.KeyDelimiter)
			entry = appendText(entry, t.Value, val)
			entries = append(entries, entry)
		}
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i], entries[j]) < 0
		})
		return append(out, bytes.Join(entries, []byte{t.Delimiter})...)
	}

	return appendPrimitive(out, v)
}

func appendPrimitive(out []byte, v any) []byte {
	switch x := v.(type) {
	case []byte:
		return append(out, x...)
	case string:
		return append(out, x...)
	case bool:
		return strconv.AppendBool(out, x)
	case int8:
		return strconv.AppendInt(out, int64(x), 10)
	case int16:
		return strconv.AppendInt(out, int64(x), 10)
	case int32:
		return strconv.AppendInt(out, int64(x), 10)
	case int64:
		return strconv.AppendInt(out, x, 10)
	case int:
		return strconv.AppendInt(out, int64(x), 10)
	case float32:
		return strconv.AppendFloat(out, float64(x), 'g', -1, 32)
	case float64:
		return strconv.AppendFloat(out, x, 'g', -1, 64)
	}
	return fmt.Append(out, v)
}
