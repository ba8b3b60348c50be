package exercise

import (
	"errors"
	"fmt"
)

// ErrConflictingTests is returned for exercises that define both unit tests
// and IO tests.
var ErrConflictingTests = errors.New("exercise defines both unit tests and IO tests")

type IOTest struct {
	Input    string `toml:"input"`
	Expected string `toml:"expected"`
}

// Element is a named piece of page content a data file can be read from.
type Element struct {
	ID           string `toml:"id"`
	DataFilename string `toml:"data_filename"`
	// Tag is the element kind, e.g. "pre", "textarea", "img" or "canvas".
	Tag  string `toml:"tag"`
	Text string `toml:"text"`
	Src  string `toml:"src"`
	// DataURL holds a canvas snapshot as a data: URL.
	DataURL string `toml:"data_url"`
}

type Exercise struct {
	ID       string `toml:"id"`
	Language string `toml:"language"`

	Starter string `toml:"starter"`
	Prefix  string `toml:"prefix"`
	Suffix  string `toml:"suffix"`

	DataFiles []string  `toml:"datafiles"`
	Elements  []Element `toml:"elements"`
	IOTests   []IOTest  `toml:"iotests"`

	CompileArgs     string `toml:"compile_args"`
	LinkArgs        string `toml:"link_args"`
	RunArgs         string `toml:"run_args"`
	InterpreterArgs string `toml:"interpreter_args"`

	TimeLimitMs    int    `toml:"time_limit_ms"`
	MemoryLimit    int    `toml:"memory_limit"`
	SourceFilename string `toml:"source_filename"`
	Stdin          string `toml:"stdin"`

	Timed bool `toml:"timed"`
}

// HasUnitTests reports whether the hidden suffix is a unit test harness.
// Only languages with a parseable test dialect qualify.
func (e *Exercise) HasUnitTests() bool {
	if e.Suffix == "" {
		return false
	}
	l, err := LookupLanguage(e.Language)
	if err != nil {
		return false
	}
	return l.Dialect != NoTests
}

func (e *Exercise) HasIOTests() bool {
	return len(e.IOTests) > 0
}

// Validate checks the definition is runnable. Defining both unit tests and
// IO tests yields ErrConflictingTests.
func (e *Exercise) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("exercise id is empty")
	}
	if _, err := LookupLanguage(e.Language); err != nil {
		return fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.TimeLimitMs < 0 || e.MemoryLimit < 0 {
		return fmt.Errorf("exercise %s: negative resource limit", e.ID)
	}
	if e.HasUnitTests() && e.HasIOTests() {
		return fmt.Errorf("exercise %s: %w", e.ID, ErrConflictingTests)
	}
	return nil
}
