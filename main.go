package main

import (
	"context"
	"github.com/litetable/litetable-serde/internal/app"
	"github.com/litetable/litetable-serde/internal/config"
	"github.com/litetable/litetable-serde/internal/export"
	"github.com/litetable/litetable-serde/internal/metrics"
	"github.com/litetable/litetable-serde/internal/scanner"
	"github.com/litetable/litetable-serde/internal/widerow"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"time"
)

func main() {
	application, err := initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	if err = application.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
}

func initialize() (*app.App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	// tuples go to stdout, logs to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	lazyRowCfg, err := cfg.LazyRowConfig()
	if err != nil {
		return nil, err
	}

	queryType, err := scanner.ParseQueryType(cfg.QueryType)
	if err != nil {
		return nil, err
	}
	query := scanner.Query{Type: queryType, Key: cfg.RowKey}

	conn, err := scanner.Dial(cfg.ServerTarget(), cfg.TLSCert)
	if err != nil {
		return nil, err
	}

	rowScanner, err := scanner.New(&scanner.Config{
		Client:     scanner.NewClient(conn),
		Family:     cfg.Family,
		Qualifiers: scanner.Qualifiers(cfg.Columns, cfg.KeyColumn),
	})
	if err != nil {
		return nil, err
	}

	var deps []app.Dependency
	exportCfg := &export.Config{
		Scanner:         rowScanner,
		Query:           query,
		LazyRow:         lazyRowCfg,
		Columns:         cfg.Columns,
		Format:          cfg.OutputFormat,
		AvroCompression: cfg.AvroCompression,
		Workers:         cfg.Workers,
		Output:          os.Stdout,
	}

	if cfg.MetricsPort != "" {
		exportMetrics := metrics.New()
		metricsServer, err := metrics.NewServer(&metrics.Config{
			Address: cfg.MetricsAddress,
			Port:    cfg.MetricsPort,
			Metrics: exportMetrics,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, metricsServer)
		exportCfg.Metrics = exportMetrics
	}

	if cfg.Follow {
		cdcConn, err := scanner.Dial(cfg.CDCTarget(), cfg.TLSCert)
		if err != nil {
			return nil, err
		}

		// the rows the query matches seed the follower
		var seed []*widerow.Row
		if cfg.RowKey != "" {
			seed, err = rowScanner.Scan(context.Background(), query)
			if err != nil {
				return nil, err
			}
		}

		follower, err := scanner.NewFollower(&scanner.FollowerConfig{
			Source: scanner.NewCDCSource(cdcConn),
			Family: cfg.Family,
			Seed:   seed,
		})
		if err != nil {
			return nil, err
		}
		exportCfg.Follower = follower
	}

	exporter, err := export.New(exportCfg)
	if err != nil {
		return nil, err
	}
	deps = append(deps, exporter)

	application, err := app.CreateApp(&app.Config{
		ServiceName: "LiteTable Serde",
		StopTimeout: 5 * time.Second,
	}, deps...)
	if err != nil {
		return nil, err
	}

	return application, nil
}
