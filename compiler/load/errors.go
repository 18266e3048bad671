package load

import (
	"errors"
	"strconv"
	"strings"
)

// ErrScan indicates a declaration the scanner refuses to guess about.
var ErrScan = errors.New("duetgen: scan failed")

// ScanError reports a fatal scan failure. Only constructs whose misparse
// would corrupt generated code are fatal; unknown lines are skipped.
type ScanError struct {
	Path    string // source file
	Line    int    // 1-based line number, 0 if unknown
	Entity  string // owning entity, if any
	Text    string // offending line
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	var b strings.Builder
	b.WriteString("duetgen: scan error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(e.Line))
		}
	}
	if e.Entity != "" {
		b.WriteString(" for entity ")
		b.WriteString(e.Entity)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Text != "" {
		b.WriteString(": ")
		b.WriteString(strconv.Quote(e.Text))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ScanError.
func (e *ScanError) Is(target error) bool {
	return target == ErrScan
}

// IsScanError reports whether the error is a ScanError.
func IsScanError(err error) bool {
	var scanErr *ScanError
	return errors.As(err, &scanErr)
}
