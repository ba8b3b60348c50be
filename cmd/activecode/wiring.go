package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/programme-lv/activecode/internal/environment"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/programme-lv/activecode/internal/jobe"
	"github.com/programme-lv/activecode/internal/telemetry"
)

func newClient(cfg *environment.EnvConfig) *jobe.Client {
	return jobe.NewClient(cfg.Jobe(), slog.Default())
}

// newStores lists the configured data file stores. The directory store is
// consulted before S3.
func newStores(ctx context.Context, cfg *environment.EnvConfig) ([]filedeps.Store, error) {
	var stores []filedeps.Store
	if cfg.DataFileDir != "" {
		stores = append(stores, filedeps.NewDirStore(cfg.DataFileDir))
	}
	if cfg.DataFileS3Bucket != "" {
		s3, err := filedeps.NewS3StoreFromEnv(ctx, cfg.AWSRegion, cfg.DataFileS3Bucket, cfg.DataFileS3Prefix)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s3)
	}
	return stores, nil
}

// newSink fans events out to the terminal and every configured backend.
// The returned func releases connections.
func newSink(ctx context.Context, cfg *environment.EnvConfig, verbose bool) (telemetry.Sink, func(), error) {
	var sinks telemetry.MultiSink
	closeFn := func() {}
	if verbose {
		sinks = append(sinks, telemetry.NewTerminalSink(os.Stderr))
	}
	if cfg.NATSURL != "" {
		s, nc, err := telemetry.ConnectNATS(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, closeFn, err
		}
		sinks = append(sinks, s)
		closeFn = func() {
			if err := nc.Drain(); err != nil {
				slog.Warn("failed to drain nats connection", "error", err)
			}
		}
	}
	if cfg.EventSQSURL != "" {
		s, err := telemetry.NewSQSSinkFromEnv(ctx, cfg.AWSRegion, cfg.EventSQSURL)
		if err != nil {
			closeFn()
			return nil, func() {}, err
		}
		sinks = append(sinks, s)
	}
	return sinks, closeFn, nil
}
