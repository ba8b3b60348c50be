// Package iotest runs a program once per hidden input/expected output pair.
package iotest

//go:generate mockgen -destination=mocks/mock_submitter.go -package=mocks . Submitter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/classify"
	"github.com/programme-lv/activecode/internal/exercise"
)

type Submitter interface {
	Run(ctx context.Context, spec api.RunSpec) (*api.RunResult, error)
}

type Case struct {
	Input    string
	Expected string
	Actual   string
	Passed   bool
	Result   classify.Result
}

// Aggregate holds the executed cases in order. Cases after a process level
// failure are not executed.
type Aggregate struct {
	Cases  []Case
	Passed int
	Failed int
	Halted bool
}

func (a Aggregate) Summary() classify.Summary {
	return classify.Summary{Passed: a.Passed, Failed: a.Failed}
}

func (a Aggregate) Percent() float64 {
	return a.Summary().Percent()
}

type Runner struct {
	sub    Submitter
	logger *slog.Logger
}

func NewRunner(sub Submitter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{sub: sub, logger: logger}
}

// Run submits base once per IO test of ex, strictly one after another.
// A transport error aborts the run and is returned with the cases so far.
func (r *Runner) Run(ctx context.Context, ex *exercise.Exercise, base api.RunSpec) (Aggregate, error) {
	var agg Aggregate
	for i, tc := range ex.IOTests {
		spec := base.Clone()
		in := tc.Input
		spec.Input = &in

		raw, err := r.sub.Run(ctx, spec)
		if err != nil {
			return agg, fmt.Errorf("io test %d: %w", i+1, err)
		}

		res := classify.Classify(raw, ex.Language, false)
		c := Case{
			Input:    tc.Input,
			Expected: tc.Expected,
			Actual:   res.Stdout,
			Result:   res,
		}
		if !res.Kind.ProcessLevel() {
			c.Passed = strings.TrimSpace(res.Stdout) == strings.TrimSpace(tc.Expected)
		}
		agg.Cases = append(agg.Cases, c)
		if c.Passed {
			agg.Passed++
		} else {
			agg.Failed++
		}

		if res.Kind.ProcessLevel() {
			r.logger.Info("io tests halted",
				"exercise", ex.ID,
				"case", i+1,
				"of", len(ex.IOTests),
				"kind", res.Kind.String())
			agg.Halted = true
			break
		}
	}
	return agg, nil
}
