package iotest

import (
	"bytes"
	"fmt"
	"html/template"
)

var tableTmpl = template.Must(template.New("iotests").Parse(`<div class="iotest-results">
<p class="percent">{{.PercentText}}% of the tests passed ({{.Passed}} passed, {{.Failed}} failed)</p>
{{- if .Halted}}
<div class="alert alert-danger">Testing stopped: {{.Reason}}</div>
{{- end}}
<table class="table">
<tr><th>Input</th><th>Expected</th><th>Actual</th><th>Result</th></tr>
{{- range .Cases}}
<tr class="{{if .Passed}}pass{{else}}fail{{end}}"><td><pre>{{.Input}}</pre></td><td><pre>{{.Expected}}</pre></td><td><pre>{{.Actual}}</pre></td><td>{{if .Passed}}Pass{{else}}Fail{{end}}</td></tr>
{{- end}}
</table>
</div>`))

// HTML renders a banner plus one table row per executed case.
func (a Aggregate) HTML() string {
	reason := ""
	if a.Halted && len(a.Cases) > 0 {
		last := a.Cases[len(a.Cases)-1].Result
		reason = last.Kind.String()
		if last.Message != "" {
			reason += ": " + last.Message
		}
	}
	var buf bytes.Buffer
	err := tableTmpl.Execute(&buf, struct {
		Aggregate
		PercentText string
		Reason      string
	}{a, fmt.Sprintf("%.1f", a.Percent()), reason})
	if err != nil {
		return "<pre>" + template.HTMLEscapeString(err.Error()) + "</pre>"
	}
	return buf.String()
}
