package export

import (
	"bufio"
	"fmt"
	"github.com/goccy/go-json"
	"github.com/litetable/litetable-serde/internal/serde"
	"io"
)

// format turns tuples into output records and writes them in order. prepare may run on
// several goroutines at once; write and flush run on one.
type format interface {
	// prepare converts a tuple into a record that no longer references the LazyRow.
	prepare(values []any) (any, error)
	write(record any) error
	flush() error
}

func newFormat(name string, schema *serde.Schema, w io.Writer, avroCompression string) (format,
	error) {
	out := bufio.NewWriter(w)
	switch name {
	case FormatJSON:
		return &lineFormat{out: out, encode: encodeJSON}, nil
	case FormatText:
		return &lineFormat{out: out, encode: func(values []any) ([]byte, error) {
			return serde.EncodeRow(schema, values), nil
		}}, nil
	case FormatAvro:
		return newAvroFormat(schema, out, avroCompression)
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

// lineFormat writes one encoded tuple per line.
type lineFormat struct {
	out    *bufio.Writer
	encode func(values []any) ([]byte, error)
}

func (f *lineFormat) prepare(values []any) (any, error) {
	return f.encode(values)
}

func (f *lineFormat) write(record any) error {
	if _, err := f.out.Write(record.([]byte)); err != nil {
		return err
	}
	return f.out.WriteByte('\n')
}

func (f *lineFormat) flush() error {
	return f.out.Flush()
}

func encodeJSON(values []any) ([]byte, error) {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = jsonValue(v)
	}
	return json.Marshal(out)
}

// jsonValue rewrites map keys as strings, the only key type JSON objects carry. Byte
// slices stay as they are and encode as base64.
func jsonValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[mapKey(k)] = jsonValue(e)
		}
		return out
	}
	return v
}

func mapKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(k)
}
