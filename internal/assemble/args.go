package assemble

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anmitsu/go-shlex"
)

var quotedRe = regexp.MustCompile(`'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)"`)

// ParseArgs evaluates a configured argument list. Both a bracketed list of
// quoted strings, e.g. ['-Wall', '-O2'], and shell words are accepted.
func ParseArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") {
		args, err := shlex.Split(s, true)
		if err != nil {
			return nil, fmt.Errorf("failed to split %q: %w", s, err)
		}
		return args, nil
	}

	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated list %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	var args []string
	for body != "" {
		loc := quotedRe.FindStringSubmatchIndex(body)
		if loc == nil || loc[0] != 0 {
			return nil, fmt.Errorf("expected quoted string at %q", body)
		}
		var m string
		if loc[2] >= 0 {
			m = body[loc[2]:loc[3]]
		} else {
			m = body[loc[4]:loc[5]]
		}
		args = append(args, unescape(m))
		body = strings.TrimSpace(body[loc[1]:])
		if strings.HasPrefix(body, ",") {
			body = strings.TrimSpace(body[1:])
		} else if body != "" {
			return nil, fmt.Errorf("expected ',' at %q", body)
		}
	}
	return args, nil
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
