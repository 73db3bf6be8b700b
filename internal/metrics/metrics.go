// Package metrics counts exported rows and serves them to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"net"
	"net/http"
	"time"
)

const namespace = "litetable_serde"

// Metrics holds the export counters. Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry
	rows     prometheus.Counter
	failures prometheus.Counter
	decode   prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		rows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_exported_total",
			Help:      "Total number of rows written to the output",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_failures_total",
			Help:      "Total number of rows that could not be decoded or encoded",
		}),
		decode: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "row_decode_seconds",
			Help:      "Time spent materializing every field of a row",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 1e-1},
		}),
	}
}

func (m *Metrics) RowExported() {
	m.rows.Inc()
}

func (m *Metrics) RowFailed() {
	m.failures.Inc()
}

func (m *Metrics) ObserveDecode(d time.Duration) {
	m.decode.Observe(d.Seconds())
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type Config struct {
	Address string
	Port    string
	Metrics *Metrics
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Port == "" {
		errGrp = append(errGrp, errors.New("port is required"))
	}
	if c.Metrics == nil {
		errGrp = append(errGrp, errors.New("metrics are required"))
	}
	return errors.Join(errGrp...)
}

// Server implements the app.Dependency interface for the metrics endpoint
type Server struct {
	address string
	server  *http.Server
	lis     net.Listener
}

func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", cfg.Metrics.Handler())

	return &Server{
		address: net.JoinHostPort(cfg.Address, cfg.Port),
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	s.lis = lis

	log.Info().Msgf("Metrics server listening at %s", lis.Addr())

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	return nil
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping metrics server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) Name() string {
	return "Metrics Server"
}

// Addr is the address the server listens on once started.
func (s *Server) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}
