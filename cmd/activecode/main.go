package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/programme-lv/activecode/internal/environment"
	"github.com/urfave/cli/v3"
)

type configKey struct{}

func main() {
	cmd := &cli.Command{
		Name:  "activecode",
		Usage: "run programs against a Jobe sandbox",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides LOG_LEVEL (debug, info, warn, error)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			runCommand(),
			behaveCommand(),
			healthCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("activecode failed", "error", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := environment.ReadEnvConfig()
	if err != nil {
		return ctx, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return ctx, fmt.Errorf("invalid log level %q: %w", lvl, err)
		}
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})))
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func config(ctx context.Context) *environment.EnvConfig {
	return ctx.Value(configKey{}).(*environment.EnvConfig)
}
