package classify

import (
	"bytes"
	"html/template"
	"strings"
)

var resultTmpl = template.Must(template.New("result").Parse(`
{{- define "summary" -}}
<div class="unittest-results">
{{- with .Detail}}<pre>{{.}}</pre>{{end -}}
<p class="percent">You passed: {{.RoundedPercent}}% of the tests ({{.Passed}} passed, {{.Failed}} failed)</p>
</div>
{{- end -}}

{{- if eq .Kind 1 -}}
{{template "summary" .Summary}}
{{- else if eq .Kind 2 -}}
<div class="alert alert-danger"><h3>Compilation error</h3><pre>{{.Message}}</pre></div>
{{- else if eq .Kind 3 -}}
{{- with .StdoutHTML}}<pre>{{.}}</pre>{{end -}}
<div class="alert alert-danger"><h3>Run time error</h3><pre>{{.Stderr}}</pre></div>
{{- else if eq .Kind 4 -}}
{{- with .Stdout}}<pre>{{.}}</pre>{{end -}}
<div class="alert alert-warning">{{.Message}}</div>
{{- else if eq .Kind 5 -}}
<div class="alert alert-danger"><h3>Server error</h3><pre>{{.Message}}</pre></div>
{{- else -}}
<pre>{{.Stdout}}</pre>
{{- with .Summary}}{{template "summary" .}}{{end -}}
{{- end}}`))

type view struct {
	Result
	Kind       int
	StdoutHTML template.HTML
}

// HTML renders the result for an output panel. Program output is escaped.
func (r Result) HTML() string {
	v := view{Result: r, Kind: int(r.Kind)}
	if r.Kind == RuntimeError {
		v.StdoutHTML = newlinesToBreaks(r.Stdout)
	}
	var buf bytes.Buffer
	if err := resultTmpl.Execute(&buf, v); err != nil {
		return "<pre>" + template.HTMLEscapeString(err.Error()) + "</pre>"
	}
	return buf.String()
}

func newlinesToBreaks(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}
