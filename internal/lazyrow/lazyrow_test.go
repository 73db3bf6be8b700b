package lazyrow

import (
	"errors"
	"github.com/litetable/litetable-serde/internal/marshal"
	"github.com/litetable/litetable-serde/internal/serde"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"testing"
)

const testKeyColumn = "row_key"

func newSchema(t *testing.T, types ...string) *serde.Schema {
	t.Helper()
	names := make([]string, len(types))
	for i := range types {
		names[i] = "f" + string(rune('a'+i))
	}
	s, err := serde.NewSchema(names, types)
	require.NoError(t, err)
	return s
}

func newRow(key string, cells map[string][]byte) *widerow.Row {
	r := widerow.NewRow([]byte(key))
	for name, value := range cells {
		r.Put([]byte(name), value, 0)
	}
	return r
}

func newLazyRow(t *testing.T, cfg *Config) *LazyRow {
	t.Helper()
	if cfg.KeyColumn == "" {
		cfg.KeyColumn = testKeyColumn
	}
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func compositeValue(t *testing.T, n string, s string) []byte {
	t.Helper()
	long, err := marshal.LongType.FromString(n)
	require.NoError(t, err)
	return marshal.Compose(long, []byte(s))
}

func TestNew(t *testing.T) {
	req := require.New(t)

	_, err := New(&Config{})
	req.ErrorContains(err, "schema is required")

	r, err := New(&Config{Schema: newSchema(t, "string")})
	req.NoError(err)
	req.Equal(DefaultKeyColumn, r.settings.keyColumn)
	req.Equal(marshal.DefaultCompositeExpression, r.settings.defaultCompositeType)
	req.NotNil(r.settings.factory)
	req.NotNil(r.settings.parser)
	req.Same(r, r.Object())
	req.Nil(r.Plan())
}

func TestLazyRow_Scenarios(t *testing.T) {
	tests := map[string]struct {
		types    []string
		columns  []string
		row      *widerow.Row
		expected []any
	}{
		"key and single column": {
			types:    []string{"binary", "binary"},
			columns:  []string{"row_key", "name"},
			row:      newRow("AB", map[string][]byte{"name": {0x6A, 0x6F}}),
			expected: []any{[]byte{0x41, 0x42}, []byte{0x6A, 0x6F}},
		},
		"missing cell is absent": {
			types:    []string{"string"},
			columns:  []string{"name"},
			row:      newRow("AB", nil),
			expected: []any{nil},
		},
		"wildcard map is absent": {
			types:    []string{"map<string,string>"},
			columns:  []string{"data:"},
			row:      newRow("AB", map[string][]byte{"a": []byte("1")}),
			expected: []any{nil},
		},
		"key column twice": {
			types:    []string{"binary", "string", "binary"},
			columns:  []string{"row_key", "name", "row_key"},
			row:      newRow("AB", map[string][]byte{"name": []byte("jo")}),
			expected: []any{[]byte("AB"), "jo", []byte("AB")},
		},
		"same source column twice": {
			types:    []string{"string", "bigint"},
			columns:  []string{"age", "age"},
			row:      newRow("AB", map[string][]byte{"age": []byte("42")}),
			expected: []any{"42", int64(42)},
		},
		"zero fields": {
			types:    []string{},
			columns:  []string{},
			row:      newRow("AB", nil),
			expected: []any{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			r := newLazyRow(t, &Config{Schema: newSchema(t, tc.types...)})
			req.NoError(r.Init(tc.row, tc.columns, nil))

			got, err := r.GetFieldsAsList()
			req.NoError(err)
			req.Equal(tc.expected, got)
			req.Len(got, len(tc.columns))

			for i := range tc.columns {
				v, err := r.GetField(i)
				req.NoError(err)
				req.Equal(tc.expected[i], v)
			}
		})
	}
}

func TestLazyRow_PlanStrategies(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{
		Schema: newSchema(t, "binary", "map<string,string>", "string", "struct<n:bigint,s:string>"),
	})
	req.NoError(r.Init(newRow("AB", nil), []string{"row_key", "data:", "name", "pair"}, nil))

	_, err := r.GetField(0)
	req.NoError(err)

	plan := r.Plan()
	req.NotNil(plan)
	req.Equal(4, plan.Len())
	req.Equal(StrategyKey, plan.Strategy(0))
	req.Equal(StrategyWildcardMap, plan.Strategy(1))
	req.Equal(StrategySingle, plan.Strategy(2))
	req.Equal(StrategySingle, plan.Strategy(3))
	req.Equal("data:", plan.Column(1))

	_, isCellMap := plan.Object(1).(*serde.LazyCellMap)
	req.True(isCellMap)
	_, isStruct := plan.Object(3).(*serde.LazyStruct)
	req.True(isStruct)

	req.Equal("KEY", StrategyKey.String())
	req.Equal("WILDCARD_MAP", StrategyWildcardMap.String())
	req.Equal("SINGLE", StrategySingle.String())
	req.Equal("UNKNOWN", Strategy(42).String())
}

func TestLazyRow_KeyColumnsAreIndependent(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{Schema: newSchema(t, "binary", "string", "binary")})
	req.NoError(r.Init(newRow("AB", nil), []string{"row_key", "name", "row_key"}, nil))

	first, err := r.GetField(0)
	req.NoError(err)
	third, err := r.GetField(2)
	req.NoError(err)
	req.Equal([]byte("AB"), first)
	req.Equal([]byte("AB"), third)
	req.NotSame(r.Plan().Object(0), r.Plan().Object(2))
}

func TestLazyRow_Composite(t *testing.T) {
	tests := map[string]struct {
		types          []string
		compositeTypes map[string]string
		value          func(t *testing.T) []byte
		delimiter      byte
		expected       any
		expectedErr    []error
	}{
		"default composite": {
			types:    []string{"struct<n:bigint,s:string>"},
			value:    func(t *testing.T) []byte { return compositeValue(t, "7", "hi") },
			expected: []any{int64(7), "hi"},
		},
		"component containing a colon": {
			types:    []string{"struct<n:bigint,s:string>"},
			value:    func(t *testing.T) []byte { return compositeValue(t, "1", "a:b") },
			expected: []any{int64(1), "a:b"},
		},
		"component containing the struct delimiter": {
			types:       []string{"struct<n:bigint,s:string>"},
			value:       func(t *testing.T) []byte { return compositeValue(t, "1", "a\x02b") },
			expectedErr: []error{ErrCompositeDecode},
		},
		"bytes component containing a custom delimiter": {
			types:          []string{"struct<n:bigint,b:string>"},
			compositeTypes: map[string]string{"pair": "CompositeType(LongType, BytesType)"},
			value: func(t *testing.T) []byte {
				n, err := marshal.LongType.FromString("1")
				require.NoError(t, err)
				return marshal.Compose(n, []byte{0xa5})
			},
			delimiter:   'a',
			expectedErr: []error{ErrCompositeDecode},
		},
		"per column expression": {
			types:          []string{"struct<s:string,n:int>"},
			compositeTypes: map[string]string{"pair": "CompositeType(UTF8Type, Int32Type)"},
			value: func(t *testing.T) []byte {
				n, err := marshal.Int32Type.FromString("12")
				require.NoError(t, err)
				return marshal.Compose([]byte("twelve"), n)
			},
			expected: []any{"twelve", int32(12)},
		},
		"malformed expression": {
			types:          []string{"struct<n:bigint,s:string>"},
			compositeTypes: map[string]string{"pair": "CompositeType(PizzaType)"},
			value:          func(t *testing.T) []byte { return compositeValue(t, "7", "hi") },
			expectedErr:    []error{ErrCompositeType, marshal.ErrUnknownType},
		},
		"expression is not a composite": {
			types:          []string{"struct<n:bigint>"},
			compositeTypes: map[string]string{"pair": "LongType"},
			value:          func(t *testing.T) []byte { return compositeValue(t, "7", "hi") },
			expectedErr:    []error{ErrCompositeType, marshal.ErrInvalidTypeExpression},
		},
		"truncated value": {
			types:       []string{"struct<n:bigint,s:string>"},
			value:       func(t *testing.T) []byte { return []byte{0x00, 0x08, 0x01} },
			expectedErr: []error{ErrCompositeDecode, marshal.ErrInvalidValue},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			schema := newSchema(t, tc.types...)
			if tc.delimiter != 0 {
				schema.Fields[0].Type.Delimiter = tc.delimiter
			}

			r := newLazyRow(t, &Config{
				Schema:         schema,
				CompositeTypes: tc.compositeTypes,
			})
			row := newRow("AB", map[string][]byte{"pair": tc.value(t)})
			req.NoError(r.Init(row, []string{"pair"}, nil))

			got, err := r.GetField(0)
			if len(tc.expectedErr) > 0 {
				for _, e := range tc.expectedErr {
					req.True(errors.Is(err, e), "expected error %v to wrap %v", err, e)
				}
				req.Contains(err.Error(), "pair")

				// a failed field is not cached
				_, again := r.GetField(0)
				req.Error(again)
				return
			}

			req.NoError(err)
			req.Equal(tc.expected, got)
		})
	}
}

func TestLazyRow_CompositeErrorNamesExpression(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{
		Schema:               newSchema(t, "struct<n:bigint>"),
		DefaultCompositeType: "CompositeType(LongType",
	})
	req.NoError(r.Init(newRow("AB", map[string][]byte{"pair": {}}), []string{"pair"}, nil))

	_, err := r.GetField(0)
	req.ErrorContains(err, "CompositeType(LongType")
}

func TestLazyRow_CompositeUsesStructDelimiter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	typ, err := serde.ParseTypeInfoWithSeparators("struct<n:bigint,s:string>", []byte{0x01, '|'})
	req.NoError(err)
	schema := &serde.Schema{Fields: []serde.Field{{Name: "pair", Type: typ}}}

	obj := serde.NewMockLazyObject(ctrl)
	factory := NewMocklazyFactory(ctrl)
	factory.EXPECT().NewLazyObject(typ).Return(obj).Times(1)

	obj.EXPECT().Init([]byte("7|hi"), 0, 4).Times(1)
	obj.EXPECT().Object().Return([]any{int64(7), "hi"}).Times(1)

	r := newLazyRow(t, &Config{Schema: schema, Factory: factory})
	req.NoError(r.Init(newRow("AB", map[string][]byte{"pair": compositeValue(t, "7", "hi")}),
		[]string{"pair"}, nil))

	got, err := r.GetField(0)
	req.NoError(err)
	req.Equal([]any{int64(7), "hi"}, got)
}

func TestLazyRow_CompositeParsedOncePerPlan(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	ct, err := marshal.NewParser().ParseComposite(marshal.DefaultCompositeExpression)
	req.NoError(err)

	parser := NewMocktypeParser(ctrl)
	parser.EXPECT().ParseComposite(marshal.DefaultCompositeExpression).Return(ct, nil).Times(1)

	r := newLazyRow(t, &Config{Schema: newSchema(t, "struct<n:bigint,s:string>"), Parser: parser})
	for _, n := range []string{"1", "2", "3"} {
		req.NoError(r.Init(newRow("AB", map[string][]byte{"pair": compositeValue(t, n, "x")}),
			[]string{"pair"}, nil))
		got, err := r.GetField(0)
		req.NoError(err)
		req.Equal("x", got.([]any)[1])
	}
}

func TestLazyRow_DecodeOncePerBinding(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	schema := newSchema(t, "binary")
	obj := serde.NewMockLazyObject(ctrl)
	factory := NewMocklazyFactory(ctrl)

	// the plan is built once for both rows
	factory.EXPECT().NewLazyObject(schema.Fields[0].Type).Return(obj).Times(1)

	obj.EXPECT().Init([]byte("k1"), 0, 2).Times(1)
	obj.EXPECT().Init([]byte("k2"), 0, 2).Times(1)
	obj.EXPECT().Object().Return("v").AnyTimes()

	r := newLazyRow(t, &Config{Schema: schema, Factory: factory})
	columns := []string{"row_key"}

	req.NoError(r.Init(newRow("k1", nil), columns, nil))
	for i := 0; i < 3; i++ {
		_, err := r.GetField(0)
		req.NoError(err)
	}
	_, err := r.GetFieldsAsList()
	req.NoError(err)

	req.NoError(r.Init(newRow("k2", nil), columns, nil))
	_, err = r.GetFieldsAsList()
	req.NoError(err)
	_, err = r.GetField(0)
	req.NoError(err)
}

func TestLazyRow_PlanRebuiltWhenColumnsChange(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	schema := newSchema(t, "string")
	factory := NewMocklazyFactory(ctrl)
	factory.EXPECT().NewLazyObject(gomock.Any()).DoAndReturn(serde.NewLazyObject).Times(2)

	r := newLazyRow(t, &Config{Schema: schema, Factory: factory})
	row := newRow("AB", map[string][]byte{"a": []byte("1"), "b": []byte("2")})

	req.NoError(r.Init(row, []string{"a"}, nil))
	got, err := r.GetField(0)
	req.NoError(err)
	req.Equal("1", got)

	req.NoError(r.Init(row, []string{"a"}, nil))
	_, err = r.GetField(0)
	req.NoError(err)

	req.NoError(r.Init(row, []string{"b"}, nil))
	got, err = r.GetField(0)
	req.NoError(err)
	req.Equal("2", got)
}

func TestLazyRow_Rebind(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{Schema: newSchema(t, "binary", "string", "string")})
	columns := []string{"row_key", "name", "city"}

	req.NoError(r.Init(newRow("r1", map[string][]byte{
		"name": []byte("jo"),
		"city": []byte("oslo"),
	}), columns, nil))
	first, err := r.GetFieldsAsList()
	req.NoError(err)
	req.Equal([]any{[]byte("r1"), "jo", "oslo"}, first)

	req.NoError(r.Init(newRow("r2", map[string][]byte{"name": []byte("al")}), columns, nil))
	second, err := r.GetFieldsAsList()
	req.NoError(err)
	req.Equal([]any{[]byte("r2"), "al", nil}, second)

	city, err := r.GetField(2)
	req.NoError(err)
	req.Nil(city)
}

func TestLazyRow_GetFieldsAsListReusesList(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{Schema: newSchema(t, "binary", "string")})
	req.NoError(r.Init(newRow("AB", map[string][]byte{"name": []byte("jo")}),
		[]string{"row_key", "name"}, nil))

	first, err := r.GetFieldsAsList()
	req.NoError(err)
	snapshot := append([]any(nil), first...)

	second, err := r.GetFieldsAsList()
	req.NoError(err)
	req.Equal(snapshot, second)
	req.Same(&first[0], &second[0])

	for j := range second {
		v, err := r.GetField(j)
		req.NoError(err)
		req.Equal(second[j], v)
	}
}

func TestLazyRow_ColumnBytes(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
	row := newRow("AB", map[string][]byte{"stored": []byte("v")})
	req.NoError(r.Init(row, []string{"alias"}, [][]byte{[]byte("stored")}))

	got, err := r.GetField(0)
	req.NoError(err)
	req.Equal("v", got)

	t.Run("rebind with new byte names", func(t *testing.T) {
		req := require.New(t)

		r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
		row := newRow("AB", map[string][]byte{
			"first":  []byte("1"),
			"second": []byte("2"),
		})

		req.NoError(r.Init(row, []string{"alias"}, [][]byte{[]byte("first")}))
		got, err := r.GetField(0)
		req.NoError(err)
		req.Equal("1", got)

		req.NoError(r.Init(row, []string{"alias"}, [][]byte{[]byte("second")}))
		got, err = r.GetField(0)
		req.NoError(err)
		req.Equal("2", got)

		req.NoError(r.Init(row, []string{"first"}, nil))
		got, err = r.GetField(0)
		req.NoError(err)
		req.Equal("1", got)
	})

	t.Run("caller buffer reuse", func(t *testing.T) {
		req := require.New(t)

		r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
		row := newRow("AB", map[string][]byte{
			"aa": []byte("1"),
			"bb": []byte("2"),
		})

		buf := []byte("aa")
		req.NoError(r.Init(row, []string{"alias"}, [][]byte{buf}))
		got, err := r.GetField(0)
		req.NoError(err)
		req.Equal("1", got)

		req.NoError(r.Init(row, []string{"alias"}, [][]byte{buf}))
		copy(buf, "bb")
		got, err = r.GetField(0)
		req.NoError(err)
		req.Equal("1", got)
	})
}

func TestLazyRow_PopulateWildcardMaps(t *testing.T) {
	req := require.New(t)

	r := newLazyRow(t, &Config{
		Schema:               newSchema(t, "binary", "map<string,bigint>"),
		PopulateWildcardMaps: true,
	})
	req.NoError(r.Init(newRow("AB", map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}), []string{"row_key", "data:"}, nil))

	got, err := r.GetField(1)
	req.NoError(err)
	req.Equal(map[any]any{"a": int64(1), "b": int64(2)}, got)

	req.NoError(r.Init(newRow("CD", map[string][]byte{"c": []byte("3")}),
		[]string{"row_key", "data:"}, nil))
	got, err = r.GetField(1)
	req.NoError(err)
	req.Equal(map[any]any{"c": int64(3)}, got)
}

func TestLazyRow_PrimitiveRoundTrip(t *testing.T) {
	req := require.New(t)

	schema := newSchema(t, "binary", "bigint")
	r := newLazyRow(t, &Config{Schema: schema})

	raw := []byte{0x00, 0xff, 0x10}
	req.NoError(r.Init(newRow("AB", map[string][]byte{"raw": raw, "n": []byte("-5")}),
		[]string{"raw", "n"}, nil))

	for i, expected := range [][]byte{raw, []byte("-5")} {
		v, err := r.GetField(i)
		req.NoError(err)
		req.Equal(expected, serde.EncodeText(schema.Fields[i].Type, v))
	}
}

func TestLazyRow_Errors(t *testing.T) {
	t.Run("not bound", func(t *testing.T) {
		r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
		_, err := r.GetField(0)
		require.True(t, errors.Is(err, ErrNotBound))

		_, err = r.GetFieldsAsList()
		require.True(t, errors.Is(err, ErrNotBound))
	})

	t.Run("column count", func(t *testing.T) {
		req := require.New(t)
		r := newLazyRow(t, &Config{Schema: newSchema(t, "string", "string")})

		err := r.Init(newRow("AB", nil), []string{"a"}, nil)
		req.True(errors.Is(err, ErrColumnCount))

		err = r.Init(newRow("AB", nil), []string{"a", "b"}, [][]byte{[]byte("a")})
		req.True(errors.Is(err, ErrColumnCount))
	})

	t.Run("field out of range", func(t *testing.T) {
		req := require.New(t)
		r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
		req.NoError(r.Init(newRow("AB", nil), []string{"a"}, nil))

		_, err := r.GetField(1)
		req.True(errors.Is(err, ErrFieldOutOfRange))
		_, err = r.GetField(-1)
		req.True(errors.Is(err, ErrFieldOutOfRange))
	})

	t.Run("wildcard column without map type", func(t *testing.T) {
		req := require.New(t)
		r := newLazyRow(t, &Config{Schema: newSchema(t, "string")})
		req.NoError(r.Init(newRow("AB", nil), []string{"data:"}, nil))

		_, err := r.GetField(0)
		req.True(errors.Is(err, ErrWildcardType))
		req.Nil(r.Plan())
	})
}
