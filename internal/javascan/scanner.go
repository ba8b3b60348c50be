// Package javascan splits Java source text into its top-level type
// declarations without parsing the language. It tracks brace depth while
// skipping comments, string and char literals.
package javascan

import (
	"fmt"
	"strings"
	"unicode"
)

type State int

const (
	Normal State = iota
	InLineComment
	InBlockComment
	InString
	InChar
	InParens
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case InLineComment:
		return "line comment"
	case InBlockComment:
		return "block comment"
	case InString:
		return "string literal"
	case InChar:
		return "char literal"
	case InParens:
		return "parentheses"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Unit is one top-level type declaration.
type Unit struct {
	Name string
	// Source holds the declaration prefixed with the file's package and
	// import statements, so it compiles on its own.
	Source string
}

func (u Unit) Filename() string {
	return u.Name + ".java"
}

// Scanner is a character level state machine over Java source.
type Scanner struct {
	src []rune
	pos int

	lex       State // Normal or one of the literal/comment states
	textBlock bool
	parens    int
	depth     int
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: []rune(src)}
}

// State reports the scanner's current state. Normal text nested inside
// parentheses reports InParens.
func (s *Scanner) State() State {
	if s.lex == Normal && s.parens > 0 {
		return InParens
	}
	return s.lex
}

func (s *Scanner) Depth() int {
	return s.depth
}

func (s *Scanner) peek(off int) rune {
	if s.pos+off < len(s.src) {
		return s.src[s.pos+off]
	}
	return 0
}

// event is what a single step observed in code (outside literals/comments).
type event int

const (
	evNone event = iota
	evOpen
	evClose
	evSemicolon
)

// step consumes one logical token and reports structural events.
func (s *Scanner) step() event {
	c := s.src[s.pos]
	switch s.lex {
	case InLineComment:
		if c == '\n' {
			s.lex = Normal
		}
		s.pos++
		return evNone
	case InBlockComment:
		if c == '*' && s.peek(1) == '/' {
			s.lex = Normal
			s.pos += 2
			return evNone
		}
		s.pos++
		return evNone
	case InString:
		if c == '\\' {
			s.pos += 2
			return evNone
		}
		if s.textBlock {
			if c == '"' && s.peek(1) == '"' && s.peek(2) == '"' {
				s.lex, s.textBlock = Normal, false
				s.pos += 3
				return evNone
			}
		} else if c == '"' || c == '\n' {
			s.lex = Normal
		}
		s.pos++
		return evNone
	case InChar:
		if c == '\\' {
			s.pos += 2
			return evNone
		}
		if c == '\'' || c == '\n' {
			s.lex = Normal
		}
		s.pos++
		return evNone
	}

	switch {
	case c == '/' && s.peek(1) == '/':
		s.lex = InLineComment
		s.pos += 2
		return evNone
	case c == '/' && s.peek(1) == '*':
		s.lex = InBlockComment
		s.pos += 2
		return evNone
	case c == '"' && s.peek(1) == '"' && s.peek(2) == '"':
		s.lex, s.textBlock = InString, true
		s.pos += 3
		return evNone
	case c == '"':
		s.lex = InString
	case c == '\'':
		s.lex = InChar
	case c == '(':
		s.parens++
	case c == ')':
		if s.parens > 0 {
			s.parens--
		}
	case s.parens > 0:
		// braces inside annotation arguments never open a type body
	case c == '{':
		s.depth++
		s.pos++
		return evOpen
	case c == '}':
		s.depth--
		s.pos++
		return evClose
	case c == ';':
		s.pos++
		return evSemicolon
	}
	s.pos++
	return evNone
}

// Split returns the top-level type declarations of src in order.
func Split(src string) ([]Unit, error) {
	s := NewScanner(src)

	var preamble strings.Builder
	var units []Unit
	segStart := 0
	header := ""

	for s.pos < len(s.src) {
		before := s.pos
		depthBefore := s.depth
		ev := s.step()

		switch ev {
		case evSemicolon:
			if depthBefore == 0 {
				stmt := strings.TrimSpace(string(s.src[segStart:s.pos]))
				if stmt != ";" {
					preamble.WriteString(stmt)
					preamble.WriteString("\n")
				}
				segStart = s.pos
			}
		case evOpen:
			if depthBefore == 0 {
				header = string(s.src[segStart:before])
			}
		case evClose:
			if s.depth < 0 {
				return nil, fmt.Errorf("unbalanced '}' at offset %d", before)
			}
			if s.depth == 0 {
				name, err := declaredName(header)
				if err != nil {
					return nil, err
				}
				body := strings.TrimSpace(string(s.src[segStart:s.pos]))
				units = append(units, Unit{Name: name, Source: joinPreamble(preamble.String(), body)})
				segStart = s.pos
			}
		}
	}

	switch {
	case s.lex == InBlockComment || s.lex == InString:
		return nil, fmt.Errorf("unterminated %s", s.lex)
	case s.depth != 0:
		return nil, fmt.Errorf("unbalanced braces: %d left open", s.depth)
	}
	return units, nil
}

func joinPreamble(preamble, body string) string {
	if preamble == "" {
		return body + "\n"
	}
	return preamble + "\n" + body + "\n"
}

var typeKeywords = map[string]bool{
	"class":     true,
	"interface": true,
	"enum":      true,
	"record":    true,
}

// declaredName finds the type name in the text preceding a top-level brace.
// The identifier after the class/interface/enum/record keyword wins; without
// a keyword the identifier before any extends/implements clause is used.
func declaredName(header string) (string, error) {
	idents := identifiers(stripComments(header))
	for i, id := range idents {
		if typeKeywords[id] && i+1 < len(idents) {
			return idents[i+1], nil
		}
	}
	for i, id := range idents {
		if (id == "extends" || id == "implements") && i > 0 {
			return idents[i-1], nil
		}
	}
	if len(idents) > 0 {
		return idents[len(idents)-1], nil
	}
	return "", fmt.Errorf("no type name before '{' in %q", strings.TrimSpace(header))
}

// identifiers lists the identifiers of header, skipping generic parameter
// lists, annotation arguments and literals.
func identifiers(header string) []string {
	var res []string
	var cur strings.Builder
	angle, paren := 0, 0
	flush := func() {
		if cur.Len() > 0 {
			if angle == 0 && paren == 0 {
				res = append(res, cur.String())
			}
			cur.Reset()
		}
	}
	for _, c := range header {
		switch {
		case c == '<':
			flush()
			angle++
		case c == '>':
			flush()
			if angle > 0 {
				angle--
			}
		case c == '(':
			flush()
			paren++
		case c == ')':
			flush()
			if paren > 0 {
				paren--
			}
		case c == '_' || c == '$' || unicode.IsLetter(c) || (cur.Len() > 0 && unicode.IsDigit(c)):
			cur.WriteRune(c)
		default:
			flush()
		}
	}
	flush()
	return res
}

// stripComments removes comments and literals from header text.
func stripComments(header string) string {
	s := NewScanner(header)
	var out strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		lexBefore := s.lex
		start := s.pos
		s.step()
		if lexBefore == Normal && s.lex == Normal && s.pos == start+1 {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}
	return out.String()
}
