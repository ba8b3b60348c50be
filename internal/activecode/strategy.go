package activecode

import (
	"fmt"

	"github.com/programme-lv/activecode/internal/exercise"
)

// Variant selects how a widget presents its runs.
type Variant struct {
	Language string
	Timed    bool
}

func (v Variant) Name() string {
	if v.Timed {
		return "livecodeTimed"
	}
	return "livecode"
}

type Strategy interface {
	Name() string
	Present(p Panel, out Output)
}

// NewStrategy rejects languages the sandbox pipeline cannot run.
func NewStrategy(v Variant) (Strategy, error) {
	if _, err := exercise.LookupLanguage(v.Language); err != nil {
		return nil, fmt.Errorf("%s widget: %w", v.Name(), err)
	}
	if v.Timed {
		return timedLiveCode{}, nil
	}
	return liveCode{}, nil
}

type liveCode struct{}

func (liveCode) Name() string { return "livecode" }

func (liveCode) Present(p Panel, out Output) {
	p.Show(out)
}

// timedLiveCode withholds feedback during timed assessments.
type timedLiveCode struct{}

func (timedLiveCode) Name() string { return "livecodeTimed" }

const submittedNotice = "Your program has been submitted."

func (timedLiveCode) Present(p Panel, out Output) {
	p.Show(Output{
		Status: out.Status,
		Notice: submittedNotice,
		HTML:   `<div class="alert alert-info">` + submittedNotice + `</div>`,
	})
}
