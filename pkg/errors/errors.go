// Package errors provides the typed error kinds and warning hooks used across
// the pipeline. Errors carry stack traces via cockroachdb/errors and implement
// zerolog's object marshaler so structured logs keep their fields.
package errors

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningLogger  = zerolog.New(os.Stderr).With().Timestamp().Logger()
	warningHandler = defaultWarningHandler
)

// defaultWarningHandler emits the warning as a zerolog record on standard
// error. Warning and error types in this package implement
// zerolog.LogObjectMarshaler, so their fields land as a nested object.
func defaultWarningHandler(w error) {
	event := warningLogger.Warn()
	var obj zerolog.LogObjectMarshaler
	if errors.As(w, &obj) {
		event = event.Object("warning", obj)
	}
	event.Msg(w.Error())
}

// SetWarningHandler replaces the global warning handler. Warnings are
// non-fatal; passing nil restores the default zerolog handler.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if handler == nil {
		handler = defaultWarningHandler
	}
	warningHandler = handler
}

// SetWarningOutput redirects the default handler's log stream, which
// otherwise goes to standard error.
func SetWarningOutput(w io.Writer) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningLogger = zerolog.New(w).With().Timestamp().Logger()
}

// Warn raises a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ConvergenceWarning is raised when an optimizer exhausts its iteration
// budget without meeting its stopping tolerance. The best iterate found is
// still returned, so this never aborts a run.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Tolerance  float64
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations (tol=%g), keeping best iterate",
		w.Algorithm, w.Iterations, w.Tolerance)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Float64("tolerance", w.Tolerance).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, tol float64) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Tolerance: tol}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// FormatError reports a malformed row or field in an input file: wrong field
// count, or a non-numeric value where a number is expected.
type FormatError struct {
	Path   string
	Row    int // 1-based, counting the header if present
	Field  int // 0-based field index, -1 when the whole row is at fault
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field >= 0 {
		return fmt.Sprintf("mnist: %s: row %d, field %d: %s", e.Path, e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("mnist: %s: row %d: %s", e.Path, e.Row, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *FormatError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Int("row", e.Row).
		Int("field", e.Field).
		Str("reason", e.Reason).
		Str("type", "FormatError")
}

// NewFormatError creates a new FormatError with a stack trace attached.
func NewFormatError(path string, row, field int, reason string) error {
	err := &FormatError{Path: path, Row: row, Field: field, Reason: reason}
	return errors.WithStack(err)
}

// DimensionError reports an input whose dimensions differ from what a fitted
// component expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("mnist: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a new DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// UnknownLabelError reports a label value outside the domain the encoder was
// fitted on. Train and test must share a label domain; anything else fails
// fast rather than producing an undefined class index.
type UnknownLabelError struct {
	Op    string
	Label float64
	Known []float64
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("mnist: %s: label %v was not seen during fitting (known: %v)", e.Op, e.Label, e.Known)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *UnknownLabelError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("label", e.Label).
		Floats64("known", e.Known).
		Str("type", "UnknownLabelError")
}

// NewUnknownLabelError creates a new UnknownLabelError with a stack trace attached.
func NewUnknownLabelError(op string, label float64, known []float64) error {
	err := &UnknownLabelError{Op: op, Label: label, Known: known}
	return errors.WithStack(err)
}

// NotFittedError is returned when Predict or Transform is called on a model
// that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("mnist: %s: this model is not fitted yet. Call Fit() before using %s()",
		e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a new NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("mnist: %s: %s", e.Op, e.Message)
}

// NewValueError creates a new ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be cast to target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ErrEmptyData is returned when an operation receives no rows.
var ErrEmptyData = New("empty data")
