// Package behave runs TOML behaviour scenarios through the full run
// pipeline against a live or fake sandbox.
package behave

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/activecode/internal/activecode"
	"github.com/programme-lv/activecode/internal/classify"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/programme-lv/activecode/internal/telemetry"
)

// SpecExpect describes the expected outcome of one run. Empty fields are
// not checked.
type SpecExpect struct {
	Status string `toml:"status"`
	Kind   string `toml:"kind"`
	Passed *int   `toml:"passed"`
	Failed *int   `toml:"failed"`
	Stdout string `toml:"stdout"`
}

// specScenario maps to [[scenarios]] entries. The exercise is either
// referenced from the [[exercises]] registry or written inline.
type specScenario struct {
	Description string             `toml:"description"`
	ExerciseID  string             `toml:"exercise_id"`
	Exercise    *exercise.Exercise `toml:"exercise"`
	Code        string             `toml:"code"`
	Expect      SpecExpect         `toml:"expect"`
}

type specRoot struct {
	Exercises []exercise.Exercise `toml:"exercises"`
	Scenarios []specScenario      `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML.
type Case struct {
	Name     string
	Exercise *exercise.Exercise
	Code     string
	Expect   SpecExpect
}

// Parse reads a behaviour TOML file.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) ([]Case, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	byID := make(map[string]exercise.Exercise, len(root.Exercises))
	for _, ex := range root.Exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("registered exercise without id")
		}
		byID[ex.ID] = ex
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		var ex exercise.Exercise
		switch {
		case sc.Exercise != nil:
			ex = *sc.Exercise
		case sc.ExerciseID != "":
			base, ok := byID[sc.ExerciseID]
			if !ok {
				return nil, fmt.Errorf("scenario %d: unknown exercise id: %s", i+1, sc.ExerciseID)
			}
			ex = base
		default:
			return nil, fmt.Errorf("scenario %d: missing exercise", i+1)
		}
		if ex.ID == "" {
			ex.ID = "scenario-" + uuid.NewString()[:8]
		}

		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		cases = append(cases, Case{Name: name, Exercise: &ex, Code: sc.Code, Expect: sc.Expect})
	}
	return cases, nil
}

// Outcome is the result of running one case.
type Outcome struct {
	Case       Case
	Output     activecode.Output
	Mismatches []string
}

func (o Outcome) OK() bool {
	return len(o.Mismatches) == 0
}

type capture struct {
	out activecode.Output
}

func (c *capture) Show(out activecode.Output) { c.out = out }
func (c *capture) SetEnabled(bool) {}

// Run executes every case against sandbox and checks its expectations.
func Run(ctx context.Context, sandbox activecode.Sandbox, stores []filedeps.Store, sink telemetry.Sink, cases []Case) ([]Outcome, error) {
	res := make([]Outcome, 0, len(cases))
	for _, c := range cases {
		ui := &capture{}
		resolver := filedeps.NewResolver(sandbox, filedeps.NewDocument(c.Exercise.Elements), filedeps.WithStores(stores...))
		ctrl, err := activecode.NewController(c.Exercise, activecode.Deps{
			Resolver:  resolver,
			Submitter: sandbox,
			Sink:      sink,
		}, ui, ui, activecode.Config{})
		if err != nil {
			return res, fmt.Errorf("%s: %w", c.Name, err)
		}
		status := ctrl.Run(ctx, c.Code)
		ui.out.Status = status
		res = append(res, Outcome{Case: c, Output: ui.out, Mismatches: check(c.Expect, ui.out)})
	}
	return res, nil
}

func check(exp SpecExpect, out activecode.Output) []string {
	var bad []string
	if exp.Status != "" && exp.Status != string(out.Status) {
		bad = append(bad, fmt.Sprintf("status: expected %s, got %s", exp.Status, out.Status))
	}

	kind := ""
	var summary *classify.Summary
	stdout := ""
	switch {
	case out.Result != nil:
		kind = out.Result.Kind.String()
		summary = out.Result.Summary
		stdout = out.Result.Stdout
	case out.IO != nil:
		kind = "io tests"
		s := out.IO.Summary()
		summary = &s
	case out.Err != nil:
		kind = "error"
	}

	if exp.Kind != "" && !strings.EqualFold(exp.Kind, kind) {
		bad = append(bad, fmt.Sprintf("kind: expected %s, got %s", exp.Kind, kind))
	}
	if exp.Stdout != "" && strings.TrimSpace(exp.Stdout) != strings.TrimSpace(stdout) {
		bad = append(bad, fmt.Sprintf("stdout: expected %q, got %q", exp.Stdout, stdout))
	}
	if exp.Passed != nil || exp.Failed != nil {
		if summary == nil {
			bad = append(bad, "expected test counts, got none")
			return bad
		}
		if exp.Passed != nil && *exp.Passed != summary.Passed {
			bad = append(bad, fmt.Sprintf("passed: expected %d, got %d", *exp.Passed, summary.Passed))
		}
		if exp.Failed != nil && *exp.Failed != summary.Failed {
			bad = append(bad, fmt.Sprintf("failed: expected %d, got %d", *exp.Failed, summary.Failed))
		}
	}
	return bad
}
