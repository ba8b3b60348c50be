package activecode_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/activecode"
	"github.com/programme-lv/activecode/internal/exercise"
	"github.com/programme-lv/activecode/internal/jobe"
)

// fakeJobe is a minimal Jobe server. run decides the verdict of each
// submitted spec.
type fakeJobe struct {
	mu    sync.Mutex
	files map[string]string
	puts  []string
	runs  []api.RunSpec
	run   func(spec api.RunSpec) (api.RunResult, int)
}

func newFakeJobe(t *testing.T, run func(spec api.RunSpec) (api.RunResult, int)) (*fakeJobe, *jobe.Client) {
	f := &fakeJobe{files: map[string]string{}, run: run}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, jobe.NewClient(jobe.Config{BaseURL: srv.URL, APIKey: "test"}, nil)
}

func (f *fakeJobe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const files = "/jobe/index.php/restapi/files/"
	switch {
	case r.Method == http.MethodHead && strings.HasPrefix(r.URL.Path, files):
		if _, ok := f.files[strings.TrimPrefix(r.URL.Path, files)]; ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, files):
		var body api.PutFileRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, files)
		f.files[id] = body.FileContents
		f.puts = append(f.puts, id)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost:
		var req api.RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.runs = append(f.runs, req.RunSpec)
		res, status := f.run(req.RunSpec)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeJobe) Runs() []api.RunSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.RunSpec(nil), f.runs...)
}

func (f *fakeJobe) Puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts)
}

type recControl struct {
	mu      sync.Mutex
	history []bool
}

func (c *recControl) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, enabled)
}

func (c *recControl) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history) == 0 || c.history[len(c.history)-1]
}

type recPanel struct {
	outs []activecode.Output
}

func (p *recPanel) Show(out activecode.Output) {
	p.outs = append(p.outs, out)
}

func (p *recPanel) Last() activecode.Output {
	if len(p.outs) == 0 {
		return activecode.Output{}
	}
	return p.outs[len(p.outs)-1]
}

type widgetUI struct {
	control *recControl
	panel   *recPanel
}

func uiFactory(uis map[string]*widgetUI) activecode.UIFactory {
	return func(ex *exercise.Exercise) (activecode.Control, activecode.Panel) {
		ui := &widgetUI{control: &recControl{}, panel: &recPanel{}}
		uis[ex.ID] = ui
		return ui.control, ui.panel
	}
}

func ok(stdout string) func(api.RunSpec) (api.RunResult, int) {
	return func(api.RunSpec) (api.RunResult, int) {
		return api.RunResult{Outcome: api.OutcomeSuccess, Stdout: stdout}, http.StatusOK
	}
}
