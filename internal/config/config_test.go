package config

import (
	"github.com/litetable/litetable-serde/internal/lazyrow"
	"github.com/litetable/litetable-serde/internal/serde"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
# LiteTable serde mapping
server_address = 127.0.0.1
server_port = 9443
family = people
row_key = user:
query_type = PREFIX
key_column = row_key
columns = row_key, name, data:, pair
types = binary; string; map<string,string>; struct<n:bigint,s:string>
composite.pair = CompositeType(LongType, UTF8Type)
composite_default = CompositeType(AsciiType)
populate_wildcard_maps = true
output_format = text
avro_compression = Deflate
metrics_port = 9100
workers = 4
debug = true
`

func TestParse(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(strings.NewReader(validConfig))
	req.NoError(err)

	req.Equal("127.0.0.1:9443", cfg.ServerTarget())
	req.Equal("people", cfg.Family)
	req.Equal("user:", cfg.RowKey)
	req.Equal(QueryPrefix, cfg.QueryType)
	req.Equal("row_key", cfg.KeyColumn)
	req.Equal([]string{"row_key", "name", "data:", "pair"}, cfg.Columns)
	req.Equal([]string{"binary", "string", "map<string,string>", "struct<n:bigint,s:string>"},
		cfg.Types)
	req.Equal(map[string]string{"pair": "CompositeType(LongType, UTF8Type)"}, cfg.CompositeTypes)
	req.Equal("CompositeType(AsciiType)", cfg.DefaultCompositeType)
	req.True(cfg.PopulateWildcardMaps)
	req.Equal(OutputText, cfg.OutputFormat)
	req.Equal("deflate", cfg.AvroCompression)
	req.Equal("9100", cfg.MetricsPort)
	req.Empty(cfg.MetricsAddress)
	req.Equal(4, cfg.Workers)
	req.True(cfg.Debug)
	req.False(cfg.Follow)
	req.Equal([]string{"key", "name", "data", "pair"}, cfg.FieldNames())
}

func TestParse_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(strings.NewReader(`
server_address=localhost
server_port=9443
family=f
row_key=r
columns=:key
types=string
`))
	req.NoError(err)
	req.Equal(QueryExact, cfg.QueryType)
	req.Equal(lazyrow.DefaultKeyColumn, cfg.KeyColumn)
	req.Equal(OutputJSON, cfg.OutputFormat)
	req.Equal(1, cfg.Workers)
	req.Empty(cfg.CompositeTypes)
}

func TestParse_Invalid(t *testing.T) {
	base := "server_address=localhost\nserver_port=9443\nfamily=f\nrow_key=r\n" +
		"columns=a,b\ntypes=string;string\n"

	tests := map[string]struct {
		input    string
		expected string
	}{
		"missing server": {
			input:    "family=f\nrow_key=r\ncolumns=a\ntypes=string\n",
			expected: "server_address is required",
		},
		"type count": {
			input:    base + "types=string\n",
			expected: "1 types for 2 columns",
		},
		"name count": {
			input:    base + "names=x\n",
			expected: "1 names for 2 columns",
		},
		"duplicate names": {
			input:    base + "names=x,x\n",
			expected: `duplicate name "x"`,
		},
		"bad workers": {
			input:    base + "workers=many\n",
			expected: "invalid workers value",
		},
		"zero workers": {
			input:    base + "workers=0\n",
			expected: "workers must be at least 1",
		},
		"bad delimiter": {
			input:    base + "struct_delimiter=300\n",
			expected: "invalid struct delimiter value",
		},
		"field separator as delimiter": {
			input:    base + "struct_delimiter=1\n",
			expected: "struct_delimiter cannot be the field separator",
		},
		"unknown query type": {
			input:    base + "query_type=fuzzy\n",
			expected: `unknown query_type "fuzzy"`,
		},
		"unknown output": {
			input:    base + "output_format=xml\n",
			expected: `unknown output_format "xml"`,
		},
		"unknown compression": {
			input:    base + "output_format=avro\navro_compression=zstd\n",
			expected: `unknown avro_compression "zstd"`,
		},
		"follow without cdc": {
			input:    base + "follow=true\n",
			expected: "cdc_address is required to follow changes",
		},
		"no row key": {
			input:    "server_address=localhost\nserver_port=9443\nfamily=f\ncolumns=a\ntypes=string\n",
			expected: "row_key is required",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.ErrorContains(t, err, tc.expected)
		})
	}
}

func TestFieldNames(t *testing.T) {
	tests := map[string]struct {
		columns  []string
		names    []string
		expected []string
	}{
		"key column mapped twice": {
			columns:  []string{"row_key", "name", "row_key"},
			expected: []string{"key", "name", "key_2"},
		},
		"wildcard named like the key": {
			columns:  []string{"row_key", "key:", "key_2"},
			expected: []string{"key", "key_2", "key_2_2"},
		},
		"repeated cell": {
			columns:  []string{"a", "a", "a"},
			expected: []string{"a", "a_2", "a_3"},
		},
		"explicit names": {
			columns:  []string{"row_key", "row_key"},
			names:    []string{"id", "id_again"},
			expected: []string{"id", "id_again"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{KeyColumn: "row_key", Columns: tc.columns, Names: tc.names}
			require.Equal(t, tc.expected, cfg.FieldNames())
		})
	}
}

func TestParse_Follow(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(strings.NewReader(`
server_address=localhost
server_port=9443
cdc_address=localhost
cdc_port=32496
family=f
follow=true
columns=:key
types=binary
`))
	req.NoError(err)
	req.True(cfg.Follow)
	req.Equal("localhost:32496", cfg.CDCTarget())
}

func TestSchema(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(strings.NewReader(validConfig + "struct_delimiter=124\nnames=k,n,d,p\n"))
	req.NoError(err)

	schema, err := cfg.Schema()
	req.NoError(err)
	req.Equal(4, schema.Len())
	req.Equal("k", schema.Fields[0].Name)
	req.Equal(serde.CategoryMap, schema.Fields[2].Type.Category)
	req.Equal(byte('|'), schema.Fields[3].Type.Delimiter)

	// the shared separator table is untouched
	req.Equal(byte(0x02), serde.DefaultSeparators[1])

	cfg.Types[1] = "array<"
	_, err = cfg.Schema()
	req.ErrorContains(err, "column name")
}

func TestLazyRowConfig(t *testing.T) {
	req := require.New(t)

	cfg, err := Parse(strings.NewReader(validConfig))
	req.NoError(err)

	lrc, err := cfg.LazyRowConfig()
	req.NoError(err)
	req.Equal("row_key", lrc.KeyColumn)
	req.Equal("CompositeType(AsciiType)", lrc.DefaultCompositeType)
	req.Equal(cfg.CompositeTypes, lrc.CompositeTypes)
	req.True(lrc.PopulateWildcardMaps)
	req.Equal(4, lrc.Schema.Len())

	_, err = lazyrow.New(lrc)
	req.NoError(err)
}

func TestLoad(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), configFileName)
	req.NoError(os.WriteFile(path, []byte(validConfig), 0644))

	cfg, err := Load(path)
	req.NoError(err)
	req.Equal("people", cfg.Family)

	_, err = Load(filepath.Join(t.TempDir(), "missing.conf"))
	req.ErrorContains(err, "failed to open config file")
}

func TestNewConfig(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "custom.conf")
	t.Setenv(PathEnv, path)

	_, err := NewConfig()
	req.ErrorContains(err, "not found")

	req.NoError(os.WriteFile(path, []byte(validConfig), 0644))
	cfg, err := NewConfig()
	req.NoError(err)
	req.Equal(4, cfg.Workers)
}

func TestDefaultPath(t *testing.T) {
	req := require.New(t)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(PathEnv, "")

	path, err := DefaultPath()
	req.NoError(err)
	req.Equal(filepath.Join(home, litetableDir, configFileName), path)
}
