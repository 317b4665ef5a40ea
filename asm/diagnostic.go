package asm

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/lc3/cpu"
)

// Severity is the importance of a diagnostic.
type Severity int

//go:generate go tool stringer -linecomment -type=Severity
const (
	SEVERITY_INFO    = Severity(0) // info
	SEVERITY_WARNING = Severity(1) // warning
	SEVERITY_ERROR   = Severity(2) // error
)

// Diagnostic is a message about a line of assembler source.
type Diagnostic struct {
	Severity Severity
	Kind     cpu.Kind // Kind of instruction error, or KIND_NONE.
	Filename string
	LineNo   int
	Line     string
	Message  string
}

func (diag Diagnostic) String() string {
	return fmt.Sprintf("%v:%d: %v: %v", diag.Filename, diag.LineNo, diag.Severity, diag.Message)
}

// Sink receives assembler diagnostics.
type Sink interface {
	Report(diag Diagnostic)
}

// LogrusSink reports diagnostics as structured log entries.
type LogrusSink struct {
	Logger *logrus.Logger // If nil, the standard logger is used.
}

// Report implements Sink.
func (sink *LogrusSink) Report(diag Diagnostic) {
	var entry *logrus.Entry

	fields := logrus.Fields{
		"file": diag.Filename,
		"line": diag.LineNo,
	}
	if diag.Kind != cpu.KIND_NONE {
		fields["kind"] = diag.Kind.String()
	}

	if sink.Logger != nil {
		entry = sink.Logger.WithFields(fields)
	} else {
		entry = logrus.WithFields(fields)
	}

	switch diag.Severity {
	case SEVERITY_ERROR:
		entry.Error(diag.Message)
	case SEVERITY_WARNING:
		entry.Warn(diag.Message)
	default:
		entry.Info(diag.Message)
	}
}

// Diagnostics collects reported diagnostics.
type Diagnostics []Diagnostic

// Report implements Sink.
func (diags *Diagnostics) Report(diag Diagnostic) {
	*diags = append(*diags, diag)
}

// Count returns the number of diagnostics of a severity.
func (diags Diagnostics) Count(severity Severity) (count int) {
	for _, diag := range diags {
		if diag.Severity == severity {
			count++
		}
	}
	return
}
