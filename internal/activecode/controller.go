// Package activecode drives the Run action of a code widget: assembly,
// data file upload, submission, classification and telemetry.
package activecode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/assemble"
	"github.com/programme-lv/activecode/internal/classify"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/programme-lv/activecode/internal/iotest"
	"github.com/programme-lv/activecode/internal/telemetry"
)

type Resolver interface {
	Resolve(ctx context.Context, names []string, extra ...filedeps.File) ([]api.FileRef, error)
}

type Config struct {
	// LegacyTestPrecedence lets unit tests win over IO tests instead of
	// rejecting exercises that define both.
	LegacyTestPrecedence bool
}

type Deps struct {
	Assembler *assemble.Assembler
	Resolver  Resolver
	Submitter iotest.Submitter
	Sink      telemetry.Sink
	Logger    *slog.Logger
}

type Controller struct {
	ex       *exercise.Exercise
	strategy Strategy
	deps     Deps
	io       *iotest.Runner
	control  Control
	panel    Panel

	skipIOTests bool
	logger      *slog.Logger

	// mu serializes runs of one widget.
	mu sync.Mutex
}

func NewController(ex *exercise.Exercise, deps Deps, control Control, panel Panel, cfg Config) (*Controller, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("exercise", ex.ID)

	skipIO := false
	if err := ex.Validate(); err != nil {
		if !errors.Is(err, exercise.ErrConflictingTests) || !cfg.LegacyTestPrecedence {
			return nil, err
		}
		logger.Warn("exercise defines both unit tests and IO tests, IO tests are skipped")
		skipIO = true
	}

	strategy, err := NewStrategy(Variant{Language: ex.Language, Timed: ex.Timed})
	if err != nil {
		return nil, err
	}
	if deps.Assembler == nil {
		deps.Assembler = assemble.New(logger)
	}
	if deps.Sink == nil {
		deps.Sink = telemetry.MultiSink{}
	}

	return &Controller{
		ex:          ex,
		strategy:    strategy,
		deps:        deps,
		io:          iotest.NewRunner(deps.Submitter, logger),
		control:     control,
		panel:       panel,
		skipIOTests: skipIO,
		logger:      logger,
	}, nil
}

// Run executes code and reports StatusFail when the pipeline aborted.
// The run control is disabled for the duration of the run.
func (c *Controller) Run(ctx context.Context, code string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	runID := uuid.NewString()
	out := c.execute(ctx, code)
	c.emit(ctx, runID, out)
	return out.Status
}

func (c *Controller) execute(ctx context.Context, code string) (out Output) {
	c.control.SetEnabled(false)
	defer c.control.SetEnabled(true)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("run panicked", "panic", r)
			out = errorOutput(fmt.Errorf("internal error: %v", r))
			c.panel.Show(out)
		}
	}()

	out, err := c.pipeline(ctx, code)
	if err != nil {
		c.logger.Warn("run failed", "error", err)
		out = errorOutput(err)
		c.panel.Show(out)
		return out
	}
	c.strategy.Present(c.panel, out)
	return out
}

func (c *Controller) pipeline(ctx context.Context, code string) (Output, error) {
	prog, err := c.deps.Assembler.Assemble(c.ex, code)
	if err != nil {
		return Output{}, err
	}

	extra := make([]filedeps.File, 0, len(prog.Files))
	for _, f := range prog.Files {
		extra = append(extra, filedeps.File{Name: f.Name, Content: f.Content})
	}
	refs, err := c.deps.Resolver.Resolve(ctx, c.ex.DataFiles, extra...)
	if err != nil {
		return Output{}, err
	}
	spec := prog.Spec
	spec.FileList = refs

	if c.ex.HasIOTests() && !prog.UnitTests && !c.skipIOTests {
		agg, err := c.io.Run(ctx, c.ex, spec)
		if err != nil {
			return Output{}, err
		}
		return Output{Status: StatusSuccess, IO: &agg, HTML: agg.HTML()}, nil
	}

	raw, err := c.deps.Submitter.Run(ctx, spec)
	if err != nil {
		return Output{}, err
	}
	res := classify.Classify(raw, c.ex.Language, c.ex.HasUnitTests())
	return Output{Status: StatusSuccess, Result: &res, HTML: res.HTML()}, nil
}

func (c *Controller) emit(ctx context.Context, runID string, out Output) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("event sink panicked", "run_id", runID, "panic", r)
		}
	}()

	var summary *classify.Summary
	switch {
	case out.IO != nil:
		s := out.IO.Summary()
		summary = &s
	case out.Result != nil && out.Result.Summary != nil:
		summary = out.Result.Summary
	case out.Status == StatusFail && c.ex.HasUnitTests():
		summary = &classify.Summary{}
	}

	var ev api.Event
	if summary != nil {
		ev = api.NewScoredEvent(c.ex.ID, runID, c.ex.Language, string(out.Status),
			summary.Percent(), summary.Passed, summary.Failed)
	} else {
		ev = api.NewRunEvent(c.ex.ID, runID, c.ex.Language, string(out.Status), "run")
	}
	if err := c.deps.Sink.Log(ctx, ev); err != nil {
		c.logger.Warn("failed to log run event", "run_id", runID, "error", err)
	}
}
