package classify_test

import (
	"math"
	"testing"

	"github.com/programme-lv/activecode/api"
	"github.com/programme-lv/activecode/internal/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIsTotal(t *testing.T) {
	codes := []int{math.MinInt32, -1, 0, math.MaxInt32}
	for c := 0; c <= 64; c++ {
		codes = append(codes, c)
	}
	for _, c := range codes {
		for _, lang := range []string{"java", "cpp", "python"} {
			res := classify.Classify(&api.RunResult{Outcome: api.Outcome(c), Stdout: "Tests run: 1, Failures: 0"}, lang, false)
			assert.GreaterOrEqual(t, int(res.Kind), int(classify.Success))
			assert.LessOrEqual(t, int(res.Kind), int(classify.ServerError))
			assert.NotEmpty(t, res.HTML())
		}
	}

	res := classify.Classify(nil, "python", false)
	assert.Equal(t, classify.ServerError, res.Kind)
}

func TestClassifyOutcomes(t *testing.T) {
	cases := []struct {
		outcome api.Outcome
		want    classify.Kind
		unknown bool
	}{
		{api.OutcomeSuccess, classify.Success, false},
		{api.OutcomeCompileError, classify.CompilerError, false},
		{api.OutcomeRuntimeError, classify.RuntimeError, false},
		{api.OutcomeTimeLimit, classify.TimeLimitExceeded, false},
		{api.OutcomeMemoryLimit, classify.ServerError, false},
		{api.OutcomeIllegalSyscall, classify.ServerError, false},
		{api.OutcomeInternalError, classify.ServerError, false},
		{api.OutcomeServerOverload, classify.ServerError, false},
		{42, classify.ServerError, true},
	}
	for _, tc := range cases {
		res := classify.Classify(&api.RunResult{Outcome: tc.outcome}, "python", false)
		assert.Equal(t, tc.want, res.Kind, "outcome %d", tc.outcome)
		assert.Equal(t, tc.unknown, res.Unknown, "outcome %d", tc.outcome)
	}
}

func TestClassifySuccessPlain(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 15, Stdout: "2\n"}, "python", false)
	assert.Equal(t, classify.Success, res.Kind)
	assert.Equal(t, "2\n", res.Stdout)
	assert.Nil(t, res.Summary)
	assert.Equal(t, "<pre>2\n</pre>", res.HTML())
}

func TestClassifyJUnit(t *testing.T) {
	stdout := "testAdd(MathTest): expected:<5> but was:<6>\nTests run: 3, Failures: 1\n"
	res := classify.Classify(&api.RunResult{Outcome: 15, Stdout: stdout}, "java", true)
	require.Equal(t, classify.UnitTestSuccess, res.Kind)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.Passed)
	assert.Equal(t, 1, res.Summary.Failed)
	assert.Equal(t, 3, res.Summary.Total())
	assert.InDelta(t, 66.666, res.Summary.Percent(), 0.01)
	assert.Equal(t, 67, res.Summary.RoundedPercent())
	assert.Contains(t, res.Summary.Detail, "testAdd(MathTest)")
	assert.Contains(t, res.HTML(), "You passed: 67% of the tests")
	assert.Contains(t, res.HTML(), "expected:&lt;5&gt;")
}

func TestParseJUnitOKForm(t *testing.T) {
	s, ok := classify.ParseJUnit("JUnit version 4.13\n..\nTime: 0.01\n\nOK (2 tests)\n")
	require.True(t, ok)
	assert.Equal(t, 2, s.Passed)
	assert.Zero(t, s.Failed)
	assert.Equal(t, 100.0, s.Percent())

	s, ok = classify.ParseJUnit("OK (1 test)")
	require.True(t, ok)
	assert.Equal(t, 1, s.Passed)

	_, ok = classify.ParseJUnit("nothing here")
	assert.False(t, ok)
}

func TestClassifyDoctest(t *testing.T) {
	stdout := `[doctest] doctest version is "2.4.11"
[doctest] run with "--help" for options
===============================================================================
test.cpp:12: ERROR: CHECK( add(2, 2) == 5 ) is NOT correct!
===============================================================================
[doctest] test cases: 4 | 3 passed | 1 failed | 0 skipped
[doctest] Status: FAILURE!
`
	res := classify.Classify(&api.RunResult{Outcome: 15, Stdout: stdout}, "cpp", true)
	require.Equal(t, classify.UnitTestSuccess, res.Kind)
	assert.Equal(t, 3, res.Summary.Passed)
	assert.Equal(t, 1, res.Summary.Failed)
	assert.Equal(t, 75.0, res.Summary.Percent())
	assert.Contains(t, res.Summary.Detail, "ERROR: CHECK")

	res = classify.Classify(&api.RunResult{Outcome: 15, Stdout: stdout}, "python", false)
	assert.Equal(t, classify.Success, res.Kind)
}

func TestClassifyUnitTestsWithoutCounts(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 15, Stdout: "hello"}, "java", true)
	assert.Equal(t, classify.Success, res.Kind)
	require.NotNil(t, res.Summary)
	assert.Equal(t, classify.Summary{}, *res.Summary)

	res = classify.Classify(&api.RunResult{Outcome: 11, CmpInfo: "err"}, "java", true)
	require.NotNil(t, res.Summary)
	assert.Zero(t, res.Summary.Percent())
}

func TestClassifyCompilerError(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 11, CmpInfo: "test.c:1: error: <expected>", Stdout: "x"}, "c", false)
	assert.Equal(t, classify.CompilerError, res.Kind)
	assert.Equal(t, "test.c:1: error: <expected>", res.Message)
	assert.Empty(t, res.Stdout)
	assert.Contains(t, res.HTML(), "&lt;expected&gt;")
}

func TestClassifyRuntimeError(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 12, Stdout: "a<b\nc", Stderr: "Traceback"}, "python", false)
	assert.Equal(t, classify.RuntimeError, res.Kind)
	html := res.HTML()
	assert.Contains(t, html, "<pre>a&lt;b<br>c</pre>")
	assert.Contains(t, html, "Traceback")
}

func TestClassifyTimeLimit(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 13, Stdout: "<partial>"}, "python", false)
	assert.Equal(t, classify.TimeLimitExceeded, res.Kind)
	assert.Contains(t, res.HTML(), "&lt;partial&gt;")
	assert.Contains(t, res.HTML(), "Time limit exceeded")
}

func TestClassifyServerErrorMessage(t *testing.T) {
	res := classify.Classify(&api.RunResult{Outcome: 99, Stderr: "boom"}, "python", false)
	assert.Equal(t, "boom", res.Message)

	res = classify.Classify(&api.RunResult{Outcome: 99}, "python", false)
	assert.Equal(t, "Server error (outcome 99)", res.Message)
}

func TestSummaryArithmetic(t *testing.T) {
	for passed := 0; passed <= 10; passed++ {
		for failed := 0; failed <= 10; failed++ {
			s := classify.Summary{Passed: passed, Failed: failed}
			assert.Equal(t, passed+failed, s.Total())
			if s.Total() == 0 {
				assert.Zero(t, s.RoundedPercent())
				continue
			}
			assert.Equal(t, int(math.Round(100*float64(passed)/float64(s.Total()))), s.RoundedPercent())
		}
	}
}

func TestKindProcessLevel(t *testing.T) {
	assert.False(t, classify.Success.ProcessLevel())
	assert.False(t, classify.UnitTestSuccess.ProcessLevel())
	assert.True(t, classify.CompilerError.ProcessLevel())
	assert.True(t, classify.ServerError.ProcessLevel())
}
