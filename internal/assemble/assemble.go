// Package assemble turns an exercise and the student's code into a Jobe
// run specification plus the extra files the run depends on.
package assemble

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/exercise"
)

// File is a source file the run needs besides the submitted program.
type File struct {
	Name    string
	Content string
}

// Program is the assembled submission.
type Program struct {
	Spec  api.RunSpec
	Files []File

	UnitTests bool
}

// ValidationError reports source text that cannot be transported to Jobe.
type ValidationError struct {
	Offset int
	Rune   rune
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Rune != 0 {
		return fmt.Sprintf("source not encodable at byte %d (%q): %s", e.Offset, e.Rune, e.Reason)
	}
	return fmt.Sprintf("source not encodable at byte %d: %s", e.Offset, e.Reason)
}

type Assembler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble builds the program for code submitted against ex.
func (a *Assembler) Assemble(ex *exercise.Exercise, code string) (Program, error) {
	lang, err := exercise.LookupLanguage(ex.Language)
	if err != nil {
		return Program{}, err
	}

	params, err := parameters(ex, lang)
	if err != nil {
		return Program{}, err
	}

	var prog Program
	if lang.Dialect == exercise.JUnit && ex.HasUnitTests() {
		prog, err = assembleJUnit(ex, code)
		if err != nil {
			return Program{}, err
		}
		params.CompileArgs = append(params.CompileArgs, prog.Files[0].Name)
	} else {
		prog, err = assemblePlain(ex, lang, code)
		if err != nil {
			return Program{}, err
		}
	}

	if ex.SourceFilename != "" {
		prog.Spec.SourceFilename = ex.SourceFilename
	}
	prog.Spec.LanguageID = lang.JobeID
	prog.Spec.Parameters = params
	if ex.Stdin != "" {
		in := ex.Stdin
		prog.Spec.Input = &in
	}

	if err := CheckEncodable(prog.Spec.SourceCode); err != nil {
		return Program{}, err
	}

	a.logger.Debug("assembled program",
		"exercise", ex.ID,
		"language", prog.Spec.LanguageID,
		"filename", prog.Spec.SourceFilename,
		"files", len(prog.Files),
		"unit_tests", prog.UnitTests)
	return prog, nil
}

func assemblePlain(ex *exercise.Exercise, lang exercise.Language, code string) (Program, error) {
	src := join(ex.Prefix, code, ex.Suffix)
	filename := lang.SourceFilename
	if filename == "" && ex.SourceFilename == "" {
		name, err := publicClass(src)
		if err != nil {
			return Program{}, err
		}
		filename = name + ".java"
	}
	return Program{
		Spec:      api.RunSpec{SourceCode: src, SourceFilename: filename},
		UnitTests: ex.HasUnitTests(),
	}, nil
}

func join(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// CheckEncodable verifies s is valid UTF-8 with every rune inside Latin-1.
func CheckEncodable(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return &ValidationError{Offset: i, Reason: "invalid UTF-8"}
			}
		}
		if r > 0xFF {
			return &ValidationError{Offset: i, Rune: r, Reason: "character outside Latin-1"}
		}
	}
	return nil
}

func parameters(ex *exercise.Exercise, lang exercise.Language) (api.Parameters, error) {
	var p api.Parameters
	var err error
	if p.CompileArgs, err = ParseArgs(ex.CompileArgs); err != nil {
		return p, fmt.Errorf("compile args: %w", err)
	}
	if p.LinkArgs, err = ParseArgs(ex.LinkArgs); err != nil {
		return p, fmt.Errorf("link args: %w", err)
	}
	if p.RunArgs, err = ParseArgs(ex.RunArgs); err != nil {
		return p, fmt.Errorf("run args: %w", err)
	}
	if p.InterpreterArgs, err = ParseArgs(ex.InterpreterArgs); err != nil {
		return p, fmt.Errorf("interpreter args: %w", err)
	}

	p.MemoryLimit = lang.MemoryLimit
	if ex.MemoryLimit > 0 {
		p.MemoryLimit = ex.MemoryLimit
	}
	if ex.TimeLimitMs > 0 {
		p.CpuTime = CPUSeconds(ex.TimeLimitMs)
	}
	return p, nil
}

// CPUSeconds converts a millisecond limit to whole seconds, rounding up.
func CPUSeconds(ms int) int {
	s := (ms + 999) / 1000
	if s < 1 {
		return 1
	}
	return s
}
