package telemetry

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/programme-lv/activecode/api"
)

// TerminalSink prints a one line summary of each event.
type TerminalSink struct {
	w io.Writer
}

func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

func (t *TerminalSink) Log(_ context.Context, ev api.Event) error {
	status := color.GreenString(ev.Status)
	if ev.Status != "success" {
		status = color.RedString(ev.Status)
	}
	_, err := fmt.Fprintf(t.w, "%s %s %s [%s] %s\n",
		color.HiBlackString(ev.Timestamp), color.CyanString(string(ev.Event)), ev.DivID, status, ev.Act)
	return err
}
