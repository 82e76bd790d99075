// Package errors provides the structured error taxonomy shared by all
// basisfun packages. Every failure mode of basis construction, evaluation
// and conversion maps to one concrete error type, so callers can branch on
// the failure class with errors.As while logs still carry the full context.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// BreaksError reports an invalid breakpoint sequence: unsorted input, too few
// points, or a claimed evenly-spaced sequence that is not uniform within
// tolerance.
type BreaksError struct {
	Op     string
	Reason string
	Count  int
}

func (e *BreaksError) Error() string {
	return fmt.Sprintf("basisfun: %s: invalid breakpoint sequence (%d points): %s", e.Op, e.Count, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *BreaksError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Int("break_count", e.Count).
		Str("type", "BreaksError")
}

// NewBreaksError creates a BreaksError with an attached stack trace.
func NewBreaksError(op, reason string, count int) error {
	err := &BreaksError{Op: op, Reason: reason, Count: count}
	return errors.WithStack(err)
}

// OrderError reports a derivative/integral order that is incompatible with
// the basis family: a negative spline order, an evaluation order that is not
// below the spline order, or an operator order that exceeds it.
type OrderError struct {
	Op     string
	Order  int
	Limit  int
	Reason string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("basisfun: %s: invalid order %d (limit %d): %s", e.Op, e.Order, e.Limit, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *OrderError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("order", e.Order).
		Int("limit", e.Limit).
		Str("reason", e.Reason).
		Str("type", "OrderError")
}

// NewOrderError creates an OrderError with an attached stack trace.
func NewOrderError(op string, order, limit int, reason string) error {
	err := &OrderError{Op: op, Order: order, Limit: limit, Reason: reason}
	return errors.WithStack(err)
}

// ShapeError reports query points of the wrong rank or an input whose shape
// does not match what the operation requires.
type ShapeError struct {
	Op       string
	Expected []int
	Got      []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("basisfun: %s: shape mismatch. Expected %v, got %v", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("expected", e.Expected).
		Ints("got", e.Got).
		Str("type", "ShapeError")
}

// NewShapeError creates a ShapeError with an attached stack trace.
func NewShapeError(op string, expected, got []int) error {
	err := &ShapeError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// DimensionError reports a mismatch between the number of dimensions (or
// entries along one axis) an operation expects and what it received.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/points, 1 for columns/dimensions
}

func (e *DimensionError) Error() string {
	axisName := "dimensions"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("basisfun: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "dimensions"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with an attached stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// NotFittedError reports use of an interpolant whose coefficients have not
// been computed yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("basisfun: %s: no coefficients fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with an attached stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is out of range or otherwise
// unusable for the requested operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("basisfun: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with an attached stack trace.
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

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a least-squares system has no
	// usable solution.
	ErrSingularMatrix = New("singular matrix")
)
