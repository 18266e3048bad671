package load

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	extensionRe = regexp.MustCompile(`^(?:public )?extension ([A-Z]\w*) \{$`)
	migrationRe = regexp.MustCompile(`^  enum M(\d+)(?:: TableNamingMigration)? \{$`)
	tableNameRe = regexp.MustCompile(`^    static let tableName =`)
)

// scanExtensions scans the plain extension blocks of f that extend one of
// the known entities. Migration numbers are taken from every file, the
// remaining declarations only from files with model info.
func scanExtensions(f *File, schemas map[string]*Schema) {
	c := newCursor(f.Source)
	local := HasModelInfo(f.Path)
	for line, ok := c.next(); ok; line, ok = c.next() {
		m := extensionRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if s, ok := schemas[m[1]]; ok {
			scanExtension(s, c, local)
		}
	}
}

func scanExtension(s *Schema, c *cursor, local bool) {
	migration := 0
	for line, ok := c.next(); ok; line, ok = c.next() {
		switch {
		case strings.HasPrefix(line, "}"):
			return
		case line == "  }":
			migration = 0
			continue
		}
		if m := migrationRe.FindStringSubmatch(line); m != nil {
			migration, _ = strconv.Atoi(m[1])
			continue
		}
		if tableNameRe.MatchString(line) {
			if migration > s.Migration {
				s.Migration = migration
			}
			continue
		}
		if !local || scanNested(s, line, c) {
			continue
		}
		scanComputed(s, line)
	}
}
