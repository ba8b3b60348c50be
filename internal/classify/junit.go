package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	junitCountsRe = regexp.MustCompile(`Tests run:\s*(\d+),\s*Failures:\s*(\d+)`)
	junitOKRe     = regexp.MustCompile(`OK \((\d+) tests?\)`)
)

func LooksLikeJUnit(stdout string) bool {
	return junitCountsRe.MatchString(stdout) || junitOKRe.MatchString(stdout)
}

// ParseJUnit reads the counts printed by the JUnit driver. The last marker
// wins; text before it is kept as the failure report.
func ParseJUnit(stdout string) (*Summary, bool) {
	if m := lastMatch(junitCountsRe, stdout); m != nil {
		total, err1 := strconv.Atoi(stdout[m[2]:m[3]])
		failed, err2 := strconv.Atoi(stdout[m[4]:m[5]])
		if err1 != nil || err2 != nil {
			return nil, false
		}
		failed = min(failed, total)
		return &Summary{
			Passed: total - failed,
			Failed: failed,
			Detail: strings.TrimSpace(stdout[:m[0]]),
		}, true
	}
	if m := lastMatch(junitOKRe, stdout); m != nil {
		n, err := strconv.Atoi(stdout[m[2]:m[3]])
		if err != nil {
			return nil, false
		}
		return &Summary{Passed: n, Detail: strings.TrimSpace(stdout[:m[0]])}, true
	}
	return nil, false
}

func lastMatch(re *regexp.Regexp, s string) []int {
	all := re.FindAllStringSubmatchIndex(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}
