package config

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/litetable/litetable-serde/internal/lazyrow"
	"github.com/litetable/litetable-serde/internal/serde"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

const (
	configFileName = "serde.conf"

	// PathEnv overrides the location of the mapping file.
	PathEnv = "LITETABLE_SERDE_CONFIG"

	compositePrefix = "composite."
)

const (
	OutputJSON = "json"
	OutputText = "text"
	OutputAvro = "avro"
)

const (
	QueryExact  = "exact"
	QueryPrefix = "prefix"
	QueryRegex  = "regex"
)

type Config struct {
	ServerAddress string
	ServerPort    string
	CDCAddress    string
	CDCPort       string
	// TLSCert is the server certificate to trust. Empty dials without TLS.
	TLSCert string

	Family    string
	QueryType string
	RowKey    string

	KeyColumn            string
	Columns              []string
	Names                []string
	Types                []string
	CompositeTypes       map[string]string
	DefaultCompositeType string
	StructDelimiter      byte
	PopulateWildcardMaps bool

	OutputFormat    string
	AvroCompression string
	Workers         int
	Follow          bool
	Debug           bool

	// MetricsPort enables the metrics endpoint when set.
	MetricsAddress string
	MetricsPort    string
}

// NewConfig loads the mapping file from DefaultPath.
func NewConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("serde configuration file not found at %s", path)
	}
	return Load(path)
}

// Load reads and validates the mapping file at path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads key=value lines from r. Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) (*Config, error) {
	config := &Config{
		QueryType:      QueryExact,
		KeyColumn:      lazyrow.DefaultKeyColumn,
		CompositeTypes: make(map[string]string),
		OutputFormat:   OutputJSON,
		Workers:        1,
	}
	scanner := bufio.NewScanner(r)

	var err error
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "server_address":
			config.ServerAddress = value
		case "server_port":
			config.ServerPort = value
		case "cdc_address":
			config.CDCAddress = value
		case "cdc_port":
			config.CDCPort = value
		case "tls_cert":
			config.TLSCert = value
		case "family":
			config.Family = value
		case "query_type":
			config.QueryType = strings.ToLower(value)
		case "row_key":
			config.RowKey = value
		case "key_column":
			config.KeyColumn = value
		case "columns":
			config.Columns = splitList(value, ",")
		case "names":
			config.Names = splitList(value, ",")
		case "types":
			config.Types = splitList(value, ";")
		case "composite_default":
			config.DefaultCompositeType = value
		case "struct_delimiter":
			var n uint64
			n, err = strconv.ParseUint(value, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid struct delimiter value: %w", err)
			}
			config.StructDelimiter = byte(n)
		case "populate_wildcard_maps":
			config.PopulateWildcardMaps = value == "true"
		case "output_format":
			config.OutputFormat = strings.ToLower(value)
		case "avro_compression":
			config.AvroCompression = strings.ToLower(value)
		case "metrics_address":
			config.MetricsAddress = value
		case "metrics_port":
			config.MetricsPort = value
		case "workers":
			config.Workers, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid workers value: %w", err)
			}
		case "follow":
			config.Follow = value == "true"
		case "debug":
			config.Debug = value == "true"
		default:
			if column, ok := strings.CutPrefix(key, compositePrefix); ok && column != "" {
				config.CompositeTypes[column] = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func splitList(value, sep string) []string {
	var out []string
	for _, v := range strings.Split(value, sep) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Config) validate() error {
	var errGrp []error
	if c.ServerAddress == "" {
		errGrp = append(errGrp, errors.New("server_address is required"))
	}
	if c.ServerPort == "" {
		errGrp = append(errGrp, errors.New("server_port is required"))
	}
	if c.Family == "" {
		errGrp = append(errGrp, errors.New("family is required"))
	}
	if len(c.Columns) == 0 {
		errGrp = append(errGrp, errors.New("columns is required"))
	}
	if len(c.Types) != len(c.Columns) {
		errGrp = append(errGrp, fmt.Errorf("%d types for %d columns", len(c.Types),
			len(c.Columns)))
	}
	if c.Names != nil && len(c.Names) != len(c.Columns) {
		errGrp = append(errGrp, fmt.Errorf("%d names for %d columns", len(c.Names),
			len(c.Columns)))
	}
	seen := make(map[string]struct{}, len(c.Names))
	for _, name := range c.Names {
		if _, ok := seen[name]; ok {
			errGrp = append(errGrp, fmt.Errorf("duplicate name %q", name))
		}
		seen[name] = struct{}{}
	}
	if c.KeyColumn == "" {
		errGrp = append(errGrp, errors.New("key_column cannot be empty"))
	}
	if c.StructDelimiter == serde.DefaultSeparators[0] {
		errGrp = append(errGrp, errors.New("struct_delimiter cannot be the field separator"))
	}
	if c.Workers < 1 {
		errGrp = append(errGrp, errors.New("workers must be at least 1"))
	}

	switch c.QueryType {
	case QueryExact, QueryPrefix, QueryRegex:
	default:
		errGrp = append(errGrp, fmt.Errorf("unknown query_type %q", c.QueryType))
	}
	switch c.OutputFormat {
	case OutputJSON, OutputText, OutputAvro:
	default:
		errGrp = append(errGrp, fmt.Errorf("unknown output_format %q", c.OutputFormat))
	}
	switch c.AvroCompression {
	case "", "null", "deflate", "snappy":
	default:
		errGrp = append(errGrp, fmt.Errorf("unknown avro_compression %q", c.AvroCompression))
	}

	if c.Follow {
		if c.CDCAddress == "" {
			errGrp = append(errGrp, errors.New("cdc_address is required to follow changes"))
		}
		if c.CDCPort == "" {
			errGrp = append(errGrp, errors.New("cdc_port is required to follow changes"))
		}
	} else if c.RowKey == "" {
		errGrp = append(errGrp, errors.New("row_key is required"))
	}

	return errors.Join(errGrp...)
}

// ServerTarget is the host:port of the LiteTable server.
func (c *Config) ServerTarget() string {
	return net.JoinHostPort(c.ServerAddress, c.ServerPort)
}

// CDCTarget is the host:port of the change data capture stream.
func (c *Config) CDCTarget() string {
	return net.JoinHostPort(c.CDCAddress, c.CDCPort)
}

// FieldNames are the schema field names. Without explicit names every column names its
// field, minus the wildcard suffix, and the key column becomes "key". A derived name that is
// already taken gets a _2, _3, ... suffix.
func (c *Config) FieldNames() []string {
	if c.Names != nil {
		return c.Names
	}

	names := make([]string, len(c.Columns))
	taken := make(map[string]struct{}, len(c.Columns))
	for i, column := range c.Columns {
		base := strings.TrimSuffix(column, ":")
		if column == c.KeyColumn {
			base = "key"
		}

		name := base
		for n := 2; ; n++ {
			if _, ok := taken[name]; !ok {
				break
			}
			name = base + "_" + strconv.Itoa(n)
		}
		taken[name] = struct{}{}
		names[i] = name
	}
	return names
}

// Schema parses the configured types into the tuple shape of the mapping.
func (c *Config) Schema() (*serde.Schema, error) {
	separators := serde.DefaultSeparators
	if c.StructDelimiter != 0 {
		separators = append([]byte(nil), serde.DefaultSeparators...)
		separators[1] = c.StructDelimiter
	}

	names := c.FieldNames()
	schema := &serde.Schema{Fields: make([]serde.Field, len(c.Types))}
	for i, typ := range c.Types {
		t, err := serde.ParseTypeInfoWithSeparators(typ, separators)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Columns[i], err)
		}
		schema.Fields[i] = serde.Field{Name: names[i], Type: t}
	}
	return schema, nil
}

// LazyRowConfig is the adapter configuration of the mapping.
func (c *Config) LazyRowConfig() (*lazyrow.Config, error) {
	schema, err := c.Schema()
	if err != nil {
		return nil, err
	}

	return &lazyrow.Config{
		Schema:               schema,
		KeyColumn:            c.KeyColumn,
		CompositeTypes:       c.CompositeTypes,
		DefaultCompositeType: c.DefaultCompositeType,
		PopulateWildcardMaps: c.PopulateWildcardMaps,
	}, nil
}
