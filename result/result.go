package result

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Error kinds. Use errors.Is to match them.
var (
	ErrConversion        = errors.New("conversion error")
	ErrOverflow          = errors.New("overflow error")
	ErrPath              = errors.New("path error")
	ErrShape             = errors.New("shape error")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrDuplicate         = errors.New("object already exists")
	ErrMemory            = errors.New("insufficient memory")
	ErrComponentMismatch = errors.New("component mismatch")
	ErrBounds            = errors.New("out of bounds")
	ErrCapacity          = errors.New("insufficient capacity")
	ErrCancelled         = errors.New("cancelled")
	ErrRemoval           = errors.New("removal failed")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrRange             = errors.New("invalid range")
	ErrIO                = errors.New("io error")
	ErrType              = errors.New("type mismatch")
)

// WarnOverflow is the kind of warning reported when values fall outside the histogram range.
var WarnOverflow = errors.New("overflow warning")

// Error is the error carrying numeric code for downstream display.
type Error struct {
	Kind    error
	Code    int
	Message string
}

// Error returns formatted message.
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the kind of the error.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf creates new coded error of the kind.
func Errorf(kind error, code int, format string, args ...any) error {
	return errors.WithStack(&Error{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// Code returns the numeric code of the error or 0 if error is not coded.
func Code(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Warning is the non-fatal outcome of an operation.
type Warning struct {
	Kind    error
	Code    int
	Message string
}

// String returns formatted message.
func (w Warning) String() string {
	return fmt.Sprintf("[%d] %s", w.Code, w.Message)
}

// Is reports whether the warning is of the kind.
func (w Warning) Is(kind error) bool {
	return errors.Is(w.Kind, kind)
}

// Warnings is the list of warnings.
type Warnings []Warning

// Warningf creates new warning.
func Warningf(kind error, code int, format string, args ...any) Warning {
	return Warning{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Collector gathers all the errors reported during validation, so they might be reported at once.
type Collector struct {
	err      error
	warnings Warnings
}

// Add adds error to the collector. Nil errors are ignored.
func (c *Collector) Add(err error) {
	c.err = multierr.Append(c.err, err)
}

// Warn adds warnings to the collector.
func (c *Collector) Warn(warnings ...Warning) {
	c.warnings = append(c.warnings, warnings...)
}

// Valid reports whether no error has been collected.
func (c *Collector) Valid() bool {
	return c.err == nil
}

// Errors returns the collected errors.
func (c *Collector) Errors() []error {
	return multierr.Errors(c.err)
}

// Warnings returns the collected warnings.
func (c *Collector) Warnings() Warnings {
	return c.warnings
}

// Errors splits error combined by collector into the list of errors.
func Errors(err error) []error {
	return multierr.Errors(err)
}

// Err returns the combined error or nil.
func (c *Collector) Err() error {
	return c.err
}
