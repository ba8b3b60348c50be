package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/urfave/cli/v3"
)

type feedbackRow struct {
	unit    string
	health  int // 0 - OK, 1 - Warning, 2 - Error
	message string
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check the sandbox and the languages it offers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config(ctx)
			client := newClient(cfg)

			slog.Info("fetching languages", "url", cfg.JobeURL)
			langs, err := client.Languages(ctx)
			if err != nil {
				outputFeedback([]feedbackRow{{unit: "Jobe", health: 2, message: err.Error()}})
				return err
			}

			versions := make(map[string]string, len(langs))
			for _, l := range langs {
				versions[l.ID] = l.Version
			}

			feedback := []feedbackRow{{unit: "Jobe", health: 0, message: fmt.Sprintf("%d languages", len(langs))}}
			ids := exercise.LanguageIDs()
			sort.Strings(ids)
			for _, id := range ids {
				l, _ := exercise.LookupLanguage(id)
				v, ok := versions[l.JobeID]
				row := feedbackRow{unit: id, message: l.JobeID + " " + v}
				if !ok {
					row.health = 1
					row.message = l.JobeID + " not installed"
				}
				feedback = append(feedback, row)
			}
			outputFeedback(feedback)
			return nil
		},
	}
}

func outputFeedback(feedback []feedbackRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Unit", "Health", "Message"})
	for _, row := range feedback {
		tw.AppendRow(table.Row{row.unit, healthText(row.health), row.message})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func healthText(h int) string {
	switch h {
	case 0:
		return text.FgGreen.Sprint("OK")
	case 1:
		return text.FgYellow.Sprint("Warning")
	}
	return text.FgRed.Sprint("Error")
}
