package scanner

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	v1 "github.com/litetable/litetable-cdc/go/v1"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"io"
)

//go:generate mockgen -destination=cdc_mock.go -package=scanner -source=cdc.go

type eventReceiver interface {
	Recv() (*v1.CDCEvent, error)
}

type eventSource interface {
	Subscribe(ctx context.Context, clientID string) (eventReceiver, error)
}

// CDCSource subscribes to the change stream of a LiteTable server.
type CDCSource struct {
	client v1.CDCServiceClient
}

func NewCDCSource(conn grpc.ClientConnInterface) *CDCSource {
	return &CDCSource{client: v1.NewCDCServiceClient(conn)}
}

func (c *CDCSource) Subscribe(ctx context.Context, clientID string) (eventReceiver, error) {
	return c.client.CDCStream(ctx, &v1.CDCSubscriptionRequest{ClientId: clientID})
}

type FollowerConfig struct {
	Source eventSource
	Family string
	// Seed holds rows known before following starts.
	Seed []*widerow.Row
	// ClientID names the subscription. Defaults to a random id.
	ClientID string
}

func (c *FollowerConfig) validate() error {
	var errGrp []error
	if c.Source == nil {
		errGrp = append(errGrp, errors.New("event source is required"))
	}
	if c.Family == "" {
		errGrp = append(errGrp, errors.New("family is required"))
	}
	return errors.Join(errGrp...)
}

// Follower keeps the rows of one family current from change events.
type Follower struct {
	source   eventSource
	family   string
	clientID string
	rows     map[string]*widerow.Row
}

func NewFollower(cfg *FollowerConfig) (*Follower, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	f := &Follower{
		source:   cfg.Source,
		family:   cfg.Family,
		clientID: cfg.ClientID,
		rows:     make(map[string]*widerow.Row, len(cfg.Seed)),
	}
	if f.clientID == "" {
		f.clientID = "litetable-serde-" + uuid.NewString()
	}
	for _, row := range cfg.Seed {
		f.rows[string(row.Key)] = row
	}
	return f, nil
}

// Follow applies change events until ctx is done or the stream ends, calling fn with every
// row an event changed. The row passed to fn must not be retained after fn returns.
func (f *Follower) Follow(ctx context.Context, fn func(row *widerow.Row) error) error {
	stream, err := f.source.Subscribe(ctx, f.clientID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to change stream: %w", err)
	}
	log.Info().Str("client", f.clientID).Msgf("Following changes of family %s", f.family)

	for {
		evt, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("change stream failed: %w", err)
		}

		row, changed := f.apply(evt)
		if !changed {
			continue
		}
		if err = fn(row); err != nil {
			return err
		}
	}
}

func (f *Follower) apply(evt *v1.CDCEvent) (*widerow.Row, bool) {
	if evt.GetFamily() != f.family || evt.GetRowKey() == "" {
		return nil, false
	}

	switch evt.GetOperation() {
	case v1.LitetableOperation_WRITE:
		row := f.row(evt.GetRowKey())
		if evt.GetTombstone() {
			row.Delete([]byte(evt.GetQualifier()))
		} else {
			row.Put([]byte(evt.GetQualifier()), evt.GetValue(), evt.GetTimestampUnix())
		}
		return row, true

	case v1.LitetableOperation_DELETE:
		row := f.row(evt.GetRowKey())
		if evt.GetQualifier() == "" {
			row = widerow.NewRow(row.Key)
		} else {
			row.Delete([]byte(evt.GetQualifier()))
		}
		if row.Len() == 0 {
			delete(f.rows, evt.GetRowKey())
		}
		return row, true
	}

	log.Debug().Str("row", evt.GetRowKey()).Msgf("Ignoring %s event", evt.GetOperation())
	return nil, false
}

func (f *Follower) row(key string) *widerow.Row {
	row, ok := f.rows[key]
	if !ok {
		row = widerow.NewRow([]byte(key))
		f.rows[key] = row
	}
	return row
}

// Rows is the number of rows currently known.
func (f *Follower) Rows() int {
	return len(f.rows)
}
