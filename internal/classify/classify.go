// Package classify maps a Jobe run result onto the result kinds shown to
// the student.
package classify

import (
	"fmt"
	"strings"

	"github.com/programme-lv/activecode/api"
)

type Kind int

const (
	Success Kind = iota
	UnitTestSuccess
	CompilerError
	RuntimeError
	TimeLimitExceeded
	ServerError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case UnitTestSuccess:
		return "unit test success"
	case CompilerError:
		return "compiler error"
	case RuntimeError:
		return "runtime error"
	case TimeLimitExceeded:
		return "time limit exceeded"
	case ServerError:
		return "server error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ProcessLevel reports whether the kind means the program itself did not
// run to completion.
func (k Kind) ProcessLevel() bool {
	return k != Success && k != UnitTestSuccess
}

type Result struct {
	Kind    Kind
	Outcome api.Outcome
	// Unknown is set for outcome codes this package does not recognise.
	Unknown bool

	Stdout string
	Stderr string
	// Message is the compiler output or the server error description.
	Message string

	// Summary is set for unit test runs.
	Summary *Summary
}

var serverMessages = map[api.Outcome]string{
	api.OutcomeMemoryLimit:    "Memory limit exceeded",
	api.OutcomeIllegalSyscall: "Illegal system call",
	api.OutcomeInternalError:  "Internal error in the sandbox",
	api.OutcomeServerOverload: "The sandbox is overloaded, try again later",
}

// Classify never fails: every outcome code maps to exactly one kind.
// With hasUnitTests set the result always carries a summary, 0/0/0 when
// the output held no counts.
func Classify(raw *api.RunResult, lang string, hasUnitTests bool) Result {
	res := classify(raw, lang)
	if hasUnitTests && res.Summary == nil {
		res.Summary = &Summary{}
	}
	return res
}

func classify(raw *api.RunResult, lang string) Result {
	if raw == nil {
		return Result{Kind: ServerError, Unknown: true, Message: "No response from the sandbox"}
	}
	res := Result{Outcome: raw.Outcome, Stdout: raw.Stdout, Stderr: raw.Stderr}

	switch raw.Outcome {
	case api.OutcomeSuccess:
		res.Kind = Success
		if s, ok := parseUnitTests(raw.Stdout, lang); ok {
			res.Kind = UnitTestSuccess
			res.Summary = s
		}
	case api.OutcomeCompileError:
		res.Kind = CompilerError
		res.Message = raw.CmpInfo
		res.Stdout = ""
	case api.OutcomeRuntimeError:
		res.Kind = RuntimeError
	case api.OutcomeTimeLimit:
		res.Kind = TimeLimitExceeded
		res.Message = "Time limit exceeded"
	default:
		res.Kind = ServerError
		msg, known := serverMessages[raw.Outcome]
		res.Unknown = !known
		switch {
		case raw.Stderr != "":
			res.Message = raw.Stderr
		case known:
			res.Message = msg
		default:
			res.Message = fmt.Sprintf("Server error (outcome %d)", int(raw.Outcome))
		}
	}
	return res
}

func parseUnitTests(stdout, lang string) (*Summary, bool) {
	switch lang {
	case "java":
		if LooksLikeJUnit(stdout) {
			return ParseJUnit(stdout)
		}
	case "c", "cpp":
		if strings.Contains(stdout, doctestMarker) {
			return ParseDoctest(stdout)
		}
	}
	return nil, false
}
