package classify

import (
	"regexp"
	"strconv"
	"strings"
)

const doctestMarker = "[doctest]"

var doctestCountsRe = regexp.MustCompile(`\[doctest\] test cases:\s*(\d+)\s*\|\s*(\d+) passed\s*\|\s*(\d+) failed`)

// ParseDoctest reads the "[doctest] test cases:" summary line. Skipped
// cases are not counted.
func ParseDoctest(stdout string) (*Summary, bool) {
	m := lastMatch(doctestCountsRe, stdout)
	if m == nil {
		return nil, false
	}
	passed, err1 := strconv.Atoi(stdout[m[4]:m[5]])
	failed, err2 := strconv.Atoi(stdout[m[6]:m[7]])
	if err1 != nil || err2 != nil {
		return nil, false
	}

	var detail []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, doctestMarker) || strings.HasPrefix(line, "====") {
			continue
		}
		detail = append(detail, line)
	}
	return &Summary{
		Passed: passed,
		Failed: failed,
		Detail: strings.TrimSpace(strings.Join(detail, "\n")),
	}, true
}
