package activecode

import (
	"html/template"

	"github.com/programme-lv/activecode/internal/classify"
	"github.com/programme-lv/activecode/internal/iotest"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

// Output is what a run shows in the widget's output panel. Exactly one of
// Result, IO and Err is set unless the strategy withheld feedback.
type Output struct {
	Status Status

	Result *classify.Result
	IO     *iotest.Aggregate
	Err    error

	Notice string
	HTML   string
}

// Control is the widget's Run button.
type Control interface {
	SetEnabled(enabled bool)
}

// Panel is the widget's output area.
type Panel interface {
	Show(out Output)
}

func errorOutput(err error) Output {
	return Output{
		Status: StatusFail,
		Err:    err,
		HTML:   `<div class="alert alert-danger"><pre>` + template.HTMLEscapeString(err.Error()) + `</pre></div>`,
	}
}
