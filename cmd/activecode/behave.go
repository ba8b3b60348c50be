package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/activecode/internal/behave"
	"github.com/urfave/cli/v3"
)

func behaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "behave",
		Usage:     "run behaviour scenarios against the sandbox",
		ArgsUsage: "<scenarios.toml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected one scenario file")
			}
			cases, err := behave.Parse(cmd.Args().First())
			if err != nil {
				return err
			}

			cfg := config(ctx)
			stores, err := newStores(ctx, cfg)
			if err != nil {
				return err
			}
			sink, closeSink, err := newSink(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer closeSink()

			outcomes, err := behave.Run(ctx, newClient(cfg), stores, sink, cases)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Scenario", "Status", "Details"})
			failed := 0
			for _, o := range outcomes {
				verdict := text.FgGreen.Sprint("OK")
				if !o.OK() {
					verdict = text.FgRed.Sprint("FAIL")
					failed++
				}
				tw.AppendRow(table.Row{o.Case.Name, verdict, strings.Join(o.Mismatches, "\n")})
			}
			tw.Render()

			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))
			}
			return nil
		},
	}
}
