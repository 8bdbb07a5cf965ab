package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/common/expfmt"

	"github.com/dshills/camerakeys/internal/app"
	"github.com/dshills/camerakeys/internal/camerakeys"
	"github.com/dshills/camerakeys/internal/client"
	"github.com/dshills/camerakeys/internal/config"
	"github.com/dshills/camerakeys/internal/renderer/backend"
)

// runClient runs the terminal client until the user quits or a signal
// arrives.
func runClient(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, logFile, err := opts.openLogger()
	if err != nil {
		return err
	}
	defer logFile.Close()

	store, err := openStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.watch(opts.ConfigPath, logger); err != nil {
		logger.Warn("%v", err)
	}

	sibling := client.NewSibling(store.Settings().SiblingEnabled,
		client.WithToggleFunc(func(enabled bool) {
			if err := store.Set(config.KeySiblingEnabled, strconv.FormatBool(enabled), "client"); err != nil {
				logger.Error("saving key remapping state: %v", err)
			}
		}))
	c, err := client.New(client.WithLogger(logger), client.WithSibling(sibling))
	if err != nil {
		return err
	}
	defer c.Close()

	metrics := camerakeys.NewMetrics()
	plugin := camerakeys.New(c, store.Store,
		camerakeys.WithLogger(logger),
		camerakeys.WithMetrics(metrics),
	)

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}

	application := app.New(term, c, plugin, opts.appOptions(logger))
	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}

	if opts.MetricsOut != "" {
		return writeMetrics(opts.MetricsOut, metrics)
	}
	return nil
}

// writeMetrics writes the plugin metrics in the Prometheus text format.
func writeMetrics(path string, m *camerakeys.Metrics) error {
	families, err := m.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			_ = f.Close()
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return f.Close()
}
