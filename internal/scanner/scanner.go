// Package scanner fetches wide rows from a LiteTable server and follows its change stream.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"github.com/litetable/litetable-db/pkg/proto"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"strings"
	"time"
)

//go:generate mockgen -destination=scanner_mock.go -package=scanner -source=scanner.go

type litetableClient interface {
	Read(ctx context.Context, in *proto.ReadRequest, opts ...grpc.CallOption) (*proto.LitetableData, error)
}

// Dial opens a client connection to target. With an empty certFile the connection is not
// encrypted.
func Dial(target, certFile string) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if certFile != "" {
		tlsCreds, err := credentials.NewClientTLSFromFile(certFile, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load certificate %s: %w", certFile, err)
		}
		creds = tlsCreds
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return conn, nil
}

// NewClient is the LiteTable client of conn.
func NewClient(conn grpc.ClientConnInterface) proto.LitetableServiceClient {
	return proto.NewLitetableServiceClient(conn)
}

// ParseQueryType maps exact, prefix and regex to their read query type.
func ParseQueryType(s string) (proto.QueryType, error) {
	switch strings.ToLower(s) {
	case "exact", "":
		return proto.QueryType_EXACT, nil
	case "prefix":
		return proto.QueryType_PREFIX, nil
	case "regex":
		return proto.QueryType_REGEX, nil
	}
	return proto.QueryType_EXACT, fmt.Errorf("unknown query type %q", s)
}

// Qualifiers are the cell names a column mapping reads. A wildcard column needs every cell
// of the row, in which case Qualifiers is nil.
func Qualifiers(columns []string, keyColumn string) []string {
	var qualifiers []string
	seen := make(map[string]struct{})
	for _, column := range columns {
		switch {
		case column == keyColumn:
			continue
		case strings.HasSuffix(column, ":"):
			return nil
		}
		if _, ok := seen[column]; ok {
			continue
		}
		seen[column] = struct{}{}
		qualifiers = append(qualifiers, column)
	}
	return qualifiers
}

type Config struct {
	Client     litetableClient
	Family     string
	Qualifiers []string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Client == nil {
		errGrp = append(errGrp, errors.New("client is required"))
	}
	if c.Family == "" {
		errGrp = append(errGrp, errors.New("family is required"))
	}
	return errors.Join(errGrp...)
}

// Query selects the rows of a scan.
type Query struct {
	Type proto.QueryType
	Key  string
}

// Scanner reads the rows of one family.
type Scanner struct {
	client     litetableClient
	family     string
	qualifiers []string
}

func New(cfg *Config) (*Scanner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Scanner{
		client:     cfg.Client,
		family:     cfg.Family,
		qualifiers: cfg.Qualifiers,
	}, nil
}

// Scan issues one read and returns the matching rows sorted by key.
func (s *Scanner) Scan(ctx context.Context, q Query) ([]*widerow.Row, error) {
	if q.Key == "" {
		return nil, errors.New("row key is required")
	}

	now := time.Now()
	data, err := s.client.Read(ctx, &proto.ReadRequest{
		Family:     s.family,
		RowKey:     q.Key,
		QueryType:  q.Type,
		Qualifiers: s.qualifiers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %q: %w", q.Type, q.Key, err)
	}

	rows := widerow.FromProtoData(data, s.family)
	log.Debug().Msgf("Scanned %d rows in %v", len(rows), time.Since(now))
	return rows, nil
}
