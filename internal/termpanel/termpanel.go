// Package termpanel renders run output on a terminal.
package termpanel

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/activecode/internal/activecode"
	"github.com/programme-lv/activecode/internal/classify"
	"github.com/programme-lv/activecode/internal/iotest"
	"github.com/programme-lv/activecode/internal/strtrim"
)

const (
	MaxOutputHeight = 40
	MaxOutputWidth  = 120
	MaxCellHeight   = 5
	MaxCellWidth    = 30
)

// Panel prints every shown output to w.
type Panel struct {
	w     io.Writer
	title string
}

func NewPanel(w io.Writer, title string) *Panel {
	return &Panel{w: w, title: title}
}

func (p *Panel) Show(out activecode.Output) {
	fmt.Fprintf(p.w, "== %s ==\n", p.title)
	switch {
	case out.Err != nil:
		color.New(color.FgRed, color.Bold).Fprint(p.w, "Error: ")
		fmt.Fprintln(p.w, out.Err)
	case out.Notice != "":
		color.New(color.FgYellow).Fprintln(p.w, out.Notice)
	case out.IO != nil:
		p.showIO(*out.IO)
	case out.Result != nil:
		p.showResult(*out.Result)
	}
}

func (p *Panel) block(s string) {
	if s == "" {
		return
	}
	fmt.Fprintln(p.w, strtrim.ToRect(s, MaxOutputHeight, MaxOutputWidth))
}

func (p *Panel) showResult(res classify.Result) {
	red := color.New(color.FgRed, color.Bold)
	switch res.Kind {
	case classify.Success:
		p.block(res.Stdout)
		if res.Summary != nil {
			p.summary(*res.Summary)
		}
	case classify.UnitTestSuccess:
		p.block(res.Summary.Detail)
		p.summary(*res.Summary)
	case classify.CompilerError:
		red.Fprintln(p.w, "Compilation error")
		p.block(res.Message)
	case classify.RuntimeError:
		p.block(res.Stdout)
		red.Fprintln(p.w, "Run time error")
		p.block(res.Stderr)
	case classify.TimeLimitExceeded:
		p.block(res.Stdout)
		color.New(color.FgYellow, color.Bold).Fprintln(p.w, res.Message)
	case classify.ServerError:
		red.Fprintln(p.w, "Server error")
		p.block(res.Message)
	}
}

func (p *Panel) summary(s classify.Summary) {
	c := color.New(color.FgGreen, color.Bold)
	if s.Failed > 0 || s.Total() == 0 {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintf(p.w, "You passed: %d%% of the tests (%d passed, %d failed)\n", s.RoundedPercent(), s.Passed, s.Failed)
}

func (p *Panel) showIO(agg iotest.Aggregate) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Input", "Expected", "Actual", "Result"})
	for i, c := range agg.Cases {
		verdict := text.FgGreen.Sprint("Pass")
		if !c.Passed {
			verdict = text.FgRed.Sprint("Fail")
			if c.Result.Kind.ProcessLevel() {
				verdict = text.FgRed.Sprint(c.Result.Kind.String())
			}
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			cell(c.Input),
			cell(c.Expected),
			cell(c.Actual),
			verdict,
		})
	}
	tw.Render()

	s := agg.Summary()
	c := color.New(color.FgGreen, color.Bold)
	if s.Failed > 0 {
		c = color.New(color.FgRed, color.Bold)
	}
	c.Fprintf(p.w, "%.1f%% of the tests passed (%d passed, %d failed)\n", s.Percent(), s.Passed, s.Failed)
	if agg.Halted {
		color.New(color.FgYellow).Fprintln(p.w, "Testing stopped after a failed run")
	}
}

func cell(s string) string {
	return strtrim.ToRect(s, MaxCellHeight, MaxCellWidth)
}

// Control stands in for the Run button.
type Control struct {
	enabled atomic.Bool
	logger  *slog.Logger
}

func NewControl(logger *slog.Logger) *Control {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Control{logger: logger}
	c.enabled.Store(true)
	return c
}

func (c *Control) SetEnabled(enabled bool) {
	c.enabled.Store(enabled)
	c.logger.Debug("run control", "enabled", enabled)
}

func (c *Control) Enabled() bool {
	return c.enabled.Load()
}
