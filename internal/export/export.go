// Package export reads rows through a LazyRow and writes their tuples as JSON lines,
// delimited text or an Avro container file.
package export

import (
	"context"
	"errors"
	"fmt"
	"github.com/litetable/litetable-serde/internal/lazyrow"
	"github.com/litetable/litetable-serde/internal/scanner"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

//go:generate mockgen -destination=export_mock.go -package=export -source=export.go

const (
	FormatJSON = "json"
	FormatText = "text"
	FormatAvro = "avro"
)

type rowScanner interface {
	Scan(ctx context.Context, q scanner.Query) ([]*widerow.Row, error)
}

type rowFollower interface {
	Follow(ctx context.Context, fn func(row *widerow.Row) error) error
}

type recorder interface {
	RowExported()
	RowFailed()
	ObserveDecode(d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RowExported()                {}
func (noopRecorder) RowFailed()                  {}
func (noopRecorder) ObserveDecode(time.Duration) {}

type Config struct {
	// Scanner serves batch exports.
	Scanner rowScanner
	// Follower switches the exporter to follow mode when set.
	Follower rowFollower
	Query    scanner.Query

	LazyRow *lazyrow.Config
	Columns []string
	Format  string
	// AvroCompression is the block codec of avro output: null, deflate or snappy.
	AvroCompression string
	Workers         int
	Output          io.Writer
	Metrics         recorder
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Scanner == nil && c.Follower == nil {
		errGrp = append(errGrp, errors.New("scanner or follower is required"))
	}
	if c.LazyRow == nil || c.LazyRow.Schema == nil {
		errGrp = append(errGrp, errors.New("lazy row config with a schema is required"))
	} else if len(c.Columns) != c.LazyRow.Schema.Len() {
		errGrp = append(errGrp, fmt.Errorf("%d columns for %d fields", len(c.Columns),
			c.LazyRow.Schema.Len()))
	}
	if c.Output == nil {
		errGrp = append(errGrp, errors.New("output is required"))
	}
	return errors.Join(errGrp...)
}

// Exporter is an app dependency that runs one export and reports when it is done.
type Exporter struct {
	scanner  rowScanner
	follower rowFollower
	query    scanner.Query

	lazyRow *lazyrow.Config
	columns []string
	format  format
	workers int
	metrics recorder

	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	done    chan struct{}
	errMux  sync.Mutex
	err     error
	rows    atomic.Int64
}

func New(cfg *Config) (*Exporter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	name := cfg.Format
	if name == "" {
		name = FormatJSON
	}
	out, err := newFormat(name, cfg.LazyRow.Schema, cfg.Output, cfg.AvroCompression)
	if err != nil {
		return nil, err
	}

	var metrics recorder = noopRecorder{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Exporter{
		scanner:  cfg.Scanner,
		follower: cfg.Follower,
		query:    cfg.Query,
		lazyRow:  cfg.LazyRow,
		columns:  cfg.Columns,
		format:   out,
		workers:  workers,
		metrics:  metrics,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the export in the background.
func (e *Exporter) Start() error {
	if !e.started.CompareAndSwap(false, true) {
		return errors.New("exporter already started")
	}

	go func() {
		defer close(e.done)

		now := time.Now()
		var err error
		if e.follower != nil {
			err = e.follow(e.ctx)
		} else {
			err = e.export(e.ctx)
		}
		if flushErr := e.format.flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("failed to flush output: %w", flushErr)
		}

		e.errMux.Lock()
		e.err = err
		e.errMux.Unlock()

		log.Info().Msgf("Exported %d rows in %v", e.rows.Load(), time.Since(now))
	}()
	return nil
}

// Stop cancels a running export and waits for it to return.
func (e *Exporter) Stop() error {
	e.cancel()
	if e.started.Load() {
		<-e.done
	}
	return nil
}

func (e *Exporter) Name() string {
	return "Exporter"
}

// Done is closed once the export has returned.
func (e *Exporter) Done() <-chan struct{} {
	return e.done
}

// Err is the error the export returned with, if any.
func (e *Exporter) Err() error {
	e.errMux.Lock()
	defer e.errMux.Unlock()
	if errors.Is(e.err, context.Canceled) {
		return nil
	}
	return e.err
}

// Rows is the number of rows written so far.
func (e *Exporter) Rows() int64 {
	return e.rows.Load()
}

// export scans once and decodes the rows on e.workers goroutines. Every worker owns one
// LazyRow; output keeps the scan order.
func (e *Exporter) export(ctx context.Context) error {
	rows, err := e.scanner.Scan(ctx, e.query)
	if err != nil {
		return err
	}

	workers := min(e.workers, len(rows))
	shards := make([][]int, workers)
	for i, row := range rows {
		idx := shardIndex(row.Key, workers)
		shards[idx] = append(shards[idx], i)
	}

	records := make([]any, len(rows))
	g, gCtx := errgroup.WithContext(ctx)
	for w, shard := range shards {
		g.Go(func() error {
			r, err := lazyrow.New(e.lazyRow)
			if err != nil {
				return err
			}

			for _, i := range shard {
				if err = gCtx.Err(); err != nil {
					return err
				}
				if records[i], err = e.tuple(r, rows[i]); err != nil {
					return err
				}
			}

			log.Debug().Msgf("Worker %d decoded %d rows", w, len(shard))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if err = e.write(record); err != nil {
			return err
		}
	}
	return nil
}

// follow writes every changed row through a single LazyRow until the change stream ends.
func (e *Exporter) follow(ctx context.Context) error {
	r, err := lazyrow.New(e.lazyRow)
	if err != nil {
		return err
	}

	return e.follower.Follow(ctx, func(row *widerow.Row) error {
		record, err := e.tuple(r, row)
		if err != nil || record == nil {
			return err
		}
		if err = e.write(record); err != nil {
			return err
		}
		return e.format.flush()
	})
}

// tuple decodes one row into an output record. A row whose cells cannot be decoded is
// logged, counted and skipped with a nil record; any other failure ends the export.
func (e *Exporter) tuple(r *lazyrow.LazyRow, row *widerow.Row) (any, error) {
	if err := r.Init(row, e.columns, nil); err != nil {
		return nil, err
	}

	now := time.Now()
	values, err := r.GetFieldsAsList()
	if err != nil {
		e.metrics.RowFailed()
		if errors.Is(err, lazyrow.ErrCompositeDecode) {
			log.Warn().Err(err).Msgf("Skipping row %q", row.Key)
			return nil, nil
		}
		return nil, fmt.Errorf("row %q: %w", row.Key, err)
	}
	e.metrics.ObserveDecode(time.Since(now))

	record, err := e.format.prepare(values)
	if err != nil {
		e.metrics.RowFailed()
		return nil, fmt.Errorf("failed to encode row %q: %w", row.Key, err)
	}
	return record, nil
}

func (e *Exporter) write(record any) error {
	if err := e.format.write(record); err != nil {
		return err
	}
	e.rows.Add(1)
	e.metrics.RowExported()
	return nil
}
