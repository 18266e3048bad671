package load

import (
	"strings"
)

// cursor walks the lines of one source file.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(src string) *cursor {
	return &cursor{lines: strings.Split(src, "\n")}
}

// next returns the next line without its line terminator.
func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	line := strings.TrimSuffix(c.lines[c.pos], "\r")
	c.pos++
	return line, true
}

// lineNo returns the 1-based number of the line last returned by next.
func (c *cursor) lineNo() int { return c.pos }

// fork returns a cursor positioned after the current line. Reading from
// the fork does not advance c.
func (c *cursor) fork() *cursor {
	f := *c
	return &f
}

// nesting tracks quotes and brackets while walking a declaration, so that
// separators inside string literals, generic arguments or call arguments
// are not taken as top-level.
type nesting struct {
	quoted bool
	depth  int
	prev   rune
}

// step feeds r and reports if r is outside of any quote or bracket.
func (n *nesting) step(r rune) bool {
	defer func() { n.prev = r }()
	if n.quoted {
		if r == '"' && n.prev != '\\' {
			n.quoted = false
		}
		return false
	}
	switch r {
	case '"':
		n.quoted = true
		return false
	case '(', '[', '<', '{':
		n.depth++
		return false
	case ')', ']', '}':
		n.depth--
		return false
	case '>':
		if n.prev == '-' {
			return n.depth == 0
		}
		n.depth--
		return false
	}
	return n.depth == 0
}

// splitTopLevel splits s by sep, ignoring separators nested in quotes or brackets.
func splitTopLevel(s string, sep rune) []string {
	var (
		out   []string
		n     nesting
		start int
	)
	for i, r := range s {
		if n.step(r) && r == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// cutParams returns the text of a parameter list up to the parenthesis
// closing it. The opening parenthesis is expected to be consumed already.
// closed is false if the list continues after s.
func cutParams(s string) (inner string, closed bool) {
	n := nesting{depth: 1}
	for i, r := range s {
		n.step(r)
		if r == ')' && !n.quoted && n.depth == 0 {
			return s[:i], true
		}
	}
	return s, false
}

// cutAccessor returns the type of a declaration followed by an accessor
// block, e.g. "[String: Int]" of "[String: Int] {". ok is false if s has no
// top-level "{" or if a top-level "=" assigns a value before it.
func cutAccessor(s string) (typ string, ok bool) {
	var n nesting
	for i, r := range s {
		if r == '{' && !n.quoted && n.depth == 0 {
			typ = strings.TrimSpace(s[:i])
			return typ, typ != ""
		}
		if n.step(r) && r == '=' {
			return "", false
		}
	}
	return "", false
}

// stripComment removes a trailing line comment that is not inside a string literal.
func stripComment(s string) string {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"' && (i == 0 || s[i-1] != '\\'):
			quoted = !quoted
		case !quoted && s[i] == '/' && i+1 < len(s) && s[i+1] == '/':
			return strings.TrimRight(s[:i], " \t")
		}
	}
	return s
}

// ident returns the identifier s starts with.
func ident(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return s[:i]
		}
	}
	return s
}
