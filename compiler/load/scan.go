package load

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	entityRe    = regexp.MustCompile(`^(?:public )?(?:final )?(?:class|struct) ([A-Z]\w*): (?:[^{]*, )?Codable(?:, [^{]*)? \{$`)
	initRe      = regexp.MustCompile(`^  (?:public )?init\((.*)$`)
	propRe      = regexp.MustCompile(`^  (?:(?:public|internal|private|fileprivate)(?:\(set\))? )*(?:var|let) `)
	declRe      = regexp.MustCompile(`^(?:(?:public|internal|private|fileprivate)(?:\(set\))? )*(?:var|let) `)
	relationRe  = regexp.MustCompile(`^\s+(?:public )?var (\w+) = ([^ <]+)<([^>]+)>\.notLoaded`)
	computedRe  = regexp.MustCompile(`^  (?:(?:public|internal|private|fileprivate)(?:\(set\))? )*var (\w+):\s+(.+)$`)
	timestampRe = regexp.MustCompile(`(?:var|let) ((?:crea|upda|dele)tedAt)\b`)
	paramRe     = regexp.MustCompile(`^(?:\w+\s+)?(\w+): (.*)$`)
)

// scanState is the state of the entity line walk.
type scanState uint8

const (
	seekEntity scanState = iota // looking for an entity header
	inBody                      // inside an entity body
	inInit                      // collecting initializer parameters
)

// ScanModels scans the entity declarations of the given files. The first
// pass collects entity bodies from files with model info, the second scans
// extension blocks of every file for the already known entities.
// Entities are returned in file and declaration order.
func ScanModels(files []*File) ([]*Schema, error) {
	var (
		schemas []*Schema
		byName  = make(map[string]*Schema)
	)
	for _, f := range files {
		if !HasModelInfo(f.Path) {
			continue
		}
		found, err := scanEntities(f)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			if prev, ok := byName[s.Name]; ok {
				return nil, &ScanError{
					Path:    s.Path,
					Line:    s.Line,
					Entity:  s.Name,
					Message: fmt.Sprintf("entity redeclared, previous declaration at %s", prev.Pos()),
				}
			}
			byName[s.Name] = s
			schemas = append(schemas, s)
		}
	}
	for _, f := range files {
		scanExtensions(f, byName)
	}
	return schemas, nil
}

// scanner holds the state of a single file walk.
type scanner struct {
	file  *File
	c     *cursor
	state scanState
	cur   *Schema
	out   []*Schema
}

func scanEntities(f *File) ([]*Schema, error) {
	s := &scanner{file: f, c: newCursor(f.Source)}
	for line, ok := s.c.next(); ok; line, ok = s.c.next() {
		var err error
		switch s.state {
		case seekEntity:
			s.seek(line)
		case inBody:
			err = s.body(line)
		case inInit:
			err = s.params(line)
		}
		if err != nil {
			return nil, err
		}
	}
	switch s.state {
	case inBody:
		// Unterminated body, keep what was collected.
		s.out = append(s.out, s.cur)
	case inInit:
		return nil, s.errorf("", "unterminated init() parameter list")
	}
	return s.out, nil
}

func (s *scanner) seek(line string) {
	if m := entityRe.FindStringSubmatch(line); m != nil {
		s.cur = NewSchema(m[1], s.file.Path)
		s.cur.Line = s.c.lineNo()
		s.state = inBody
	}
}

func (s *scanner) body(line string) error {
	if strings.HasPrefix(line, "}") {
		s.out = append(s.out, s.cur)
		s.cur, s.state = nil, seekEntity
		return nil
	}
	if m := initRe.FindStringSubmatch(line); m != nil {
		s.state = inInit
		return s.params(m[1])
	}
	if scanNested(s.cur, line, s.c) || !propRe.MatchString(line) {
		return nil
	}
	if m := relationRe.FindStringSubmatch(line); m != nil {
		s.cur.Edges = append(s.cur.Edges, &Edge{Name: m[1], Rel: m[2], Type: m[3]})
		return nil
	}
	if scanComputed(s.cur, line) {
		return nil
	}
	if m := timestampRe.FindStringSubmatch(line); m != nil {
		typ := "Date"
		if strings.Contains(line, "Date?") {
			typ = "Date?"
		}
		s.cur.Fields = append(s.cur.Fields, &Field{Name: m[1], Type: typ, Line: s.c.lineNo()})
		return nil
	}
	decl := declRe.ReplaceAllString(strings.TrimSpace(stripComment(line)), "")
	name, typ, ok := strings.Cut(decl, ": ")
	if !ok {
		// Inferred type, nothing to encode.
		return nil
	}
	typ, _, _ = strings.Cut(typ, " = ")
	s.cur.Fields = append(s.cur.Fields, &Field{
		Name: strings.TrimSpace(name),
		Type: strings.TrimSpace(typ),
		Line: s.c.lineNo(),
	})
	return nil
}

// params consumes initializer parameters from one line. It is used for the
// rest of the init( line and for every line of a multi-line list.
func (s *scanner) params(line string) error {
	inner, closed := cutParams(line)
	for _, p := range splitTopLevel(inner, ',') {
		p = strings.TrimSpace(stripComment(p))
		if p == "" {
			continue
		}
		m := paramRe.FindStringSubmatch(p)
		if m == nil {
			return s.errorf(line, "unable to parse init() parameter")
		}
		s.cur.Init = append(s.cur.Init, &InitParam{
			Name:       m[1],
			HasDefault: strings.Contains(m[2], "="),
		})
	}
	if closed {
		s.state = inBody
	}
	return nil
}

func (s *scanner) errorf(text, format string, args ...any) *ScanError {
	err := &ScanError{
		Path:    s.file.Path,
		Line:    s.c.lineNo(),
		Text:    strings.TrimSpace(text),
		Message: fmt.Sprintf(format, args...),
	}
	if s.cur != nil {
		err.Entity = s.cur.Name
	}
	return err
}

// scanComputed records line as a computed property of s if it declares one.
func scanComputed(s *Schema, line string) bool {
	m := computedRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	typ, ok := cutAccessor(stripComment(m[2]))
	if !ok {
		return false
	}
	if !s.hasComputed(m[1]) {
		s.Computed = append(s.Computed, &Field{Name: m[1], Type: typ})
	}
	return true
}

// scanNested records the newtype, enumeration and JSON aggregate
// declarations nested one level in an entity body or extension.
func scanNested(s *Schema, line string, c *cursor) bool {
	if m := taggedRe.FindStringSubmatch(line); m != nil && m[1] == "  " {
		s.Aliases[m[2]] = taggedPrimitive(m[3])
		return true
	}
	nested := false
	if m := jsonableRe.FindStringSubmatch(line); m != nil && m[1] == "  " {
		s.addJSON(m[2])
		nested = true
	}
	if m := enumRe.FindStringSubmatch(line); m != nil && m[1] == "  " {
		s.Enums[m[2]] = scanEnumCases(c.fork(), line)
		nested = true
	}
	return nested
}
