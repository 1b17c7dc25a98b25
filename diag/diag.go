// Package diag holds the error taxonomy and logging sink shared by every
// pass of the pipeline (container, block former, liveness, layout, emitter).
package diag

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Kind identifies one of the error categories from the core's error taxonomy.
// It never carries its own message; callers build an *Error with New or
// Errorf to attach the offending object name and pass.
type Kind int

const (
	ConstructionError Kind = iota
	DuplicateName
	NotFound
	Unnamed
	InvalidStorageClass
	InvalidMode
	InvalidWidth
	EmptyRoutine
	EmptyBlock
	UnknownOpcode
	BadCast
	InternalError
)

func (k Kind) String() string {
	switch k {
	case ConstructionError:
		return "ConstructionError"
	case DuplicateName:
		return "DuplicateName"
	case NotFound:
		return "NotFound"
	case Unnamed:
		return "Unnamed"
	case InvalidStorageClass:
		return "InvalidStorageClass"
	case InvalidMode:
		return "InvalidMode"
	case InvalidWidth:
		return "InvalidWidth"
	case EmptyRoutine:
		return "EmptyRoutine"
	case EmptyBlock:
		return "EmptyBlock"
	case UnknownOpcode:
		return "UnknownOpcode"
	case BadCast:
		return "BadCast"
	case InternalError:
		return "InternalError"
	default:
		return "UnknownKind"
	}
}

// Error is the single structured failure type the pipeline returns. Kind
// is the taxonomy bucket from §7; Pass and Object locate the failure the
// way §7's "a diagnostic identifies the offending object name and pass"
// requires.
type Error struct {
	Kind   Kind
	Pass   string
	Object string
	cause  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Pass != "" {
		msg = msg + " in " + e.Pass
	}
	if e.Object != "" {
		msg = msg + ": " + e.Object
	}
	if e.cause != nil {
		msg = msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a structured Error for pass/object, optionally wrapping cause.
func New(kind Kind, pass, object string, cause error) *Error {
	return &Error{Kind: kind, Pass: pass, Object: object, cause: errors.WithStack(cause)}
}

// Errorf is a convenience constructor matching Kind+pass+object with no
// underlying cause.
func Errorf(kind Kind, pass, object string) *Error {
	return New(kind, pass, object, nil)
}

// Is reports whether err (or anything it wraps) is a *Error of kind k.
func Is(err error, k Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == k
	}
	return false
}

// Log is the diagnostic sink every pass writes warnings and errors
// through. Warnings never abort the pipeline; hard errors do.
type Log struct {
	entry *logrus.Entry
}

// NewLog builds a Log around a fresh logrus.Logger at the given verbosity.
// The default floor is Warn; verbose lowers it to Debug; quiet raises it to
// Error, suppressing warnings (quiet wins if both are set).
func NewLog(verbose, quiet bool) *Log {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	if quiet {
		l.SetLevel(logrus.ErrorLevel)
	}
	return &Log{entry: logrus.NewEntry(l)}
}

// Warn logs a non-fatal warning (padding, signedness mismatch, size
// mismatch) tagged with the pass and object it came from.
func (lg *Log) Warn(pass, object, msg string) {
	if lg == nil {
		return
	}
	lg.entry.WithFields(logrus.Fields{"pass": pass, "object": object}).Warn(msg)
}

// Error logs a hard failure before the pipeline aborts.
func (lg *Log) Error(err error) {
	if lg == nil {
		return
	}
	lg.entry.WithError(err).Error("compilation failed")
}

// Debug logs pipeline-internal tracing, only visible with -v.
func (lg *Log) Debug(pass, msg string) {
	if lg == nil {
		return
	}
	lg.entry.WithField("pass", pass).Debug(msg)
}

// Warning is one collected non-fatal diagnostic, queryable by an embedder
// that wants the full list rather than only what was logged.
type Warning struct {
	Pass   string
	Object string
	Msg    string
}

// Warnings accumulates Warning values across a compilation for programmatic
// inspection, independent of whatever the Log sink wrote to stderr.
type Warnings struct {
	items []Warning
}

func (w *Warnings) Add(pass, object, msg string) {
	w.items = append(w.items, Warning{Pass: pass, Object: object, Msg: msg})
}

func (w *Warnings) All() []Warning {
	if w == nil {
		return nil
	}
	return w.items
}
