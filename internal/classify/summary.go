package classify

import "math"

// Summary counts unit test results.
type Summary struct {
	Passed int
	Failed int
	// Detail holds the harness's failure report.
	Detail string
}

func (s Summary) Total() int {
	return s.Passed + s.Failed
}

// Percent is the exact pass rate, 0 when no tests ran.
func (s Summary) Percent() float64 {
	if s.Total() == 0 {
		return 0
	}
	return 100 * float64(s.Passed) / float64(s.Total())
}

// RoundedPercent is Percent rounded for display.
func (s Summary) RoundedPercent() int {
	return int(math.Round(s.Percent()))
}
