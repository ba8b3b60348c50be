package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/programme-lv/activecode/internal/activecode"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/termpanel"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run code against an exercise definition",
		ArgsUsage: "<exercise.toml> [code file, - for stdin]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "events", Usage: "print telemetry events"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("missing exercise file")
			}
			ex, err := exercise.Load(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			code, err := readCode(cmd.Args().Get(1), ex)
			if err != nil {
				return err
			}

			cfg := config(ctx)
			stores, err := newStores(ctx, cfg)
			if err != nil {
				return err
			}
			sink, closeSink, err := newSink(ctx, cfg, cmd.Bool("events"))
			if err != nil {
				return err
			}
			defer closeSink()

			session := activecode.NewSession(activecode.SessionConfig{
				Exercises: []*exercise.Exercise{ex},
				Sandbox:   newClient(cfg),
				Stores:    stores,
				Sink:      sink,
				UI: func(ex *exercise.Exercise) (activecode.Control, activecode.Panel) {
					return termpanel.NewControl(nil), termpanel.NewPanel(os.Stdout, ex.ID)
				},
				Config:            activecode.Config{LegacyTestPrecedence: cfg.LegacyTestPrecedence},
				HTTPClient:        &http.Client{Timeout: cfg.JobeTimeout},
				UploadConcurrency: cfg.DataFileConcurrency,
			})
			if err := session.Init(ctx); err != nil {
				return err
			}

			w, _ := session.Widget(ex.ID)
			if status := w.Run(ctx, code); status != activecode.StatusSuccess {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// readCode reads the submission. Without a path the exercise's starter code
// is run.
func readCode(path string, ex *exercise.Exercise) (string, error) {
	switch path {
	case "":
		return ex.Starter, nil
	case "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read code file: %w", err)
	}
	return string(b), nil
}
