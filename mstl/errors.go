package mstl

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData is matched by *MissingDataError.
	ErrMissingData = errors.New("mstl: series contains missing values")
	// ErrUnsupportedTransform is matched by *UnsupportedTransformError.
	ErrUnsupportedTransform = errors.New("mstl: box-cox transform is not supported")
	// ErrMissingDependency is matched by *MissingDependencyError.
	ErrMissingDependency = errors.New("mstl: missing dependency")
	// ErrNoPeriods is returned when no seasonal period was requested.
	ErrNoPeriods = errors.New("mstl: at least one period is required")
	// ErrNoTrendFitter is the cause carried by a MissingDependencyError when
	// the trend-only branch runs without a trend fitter.
	ErrNoTrendFitter = errors.New("no trend fitter configured")
)

// MissingDataError reports NaN values in the input series. Interpolation is
// not attempted.
type MissingDataError struct {
	Count int // Number of NaN values
	First int // Index of the first NaN value
}

// Error implements error.
func (e *MissingDataError) Error() string {
	return fmt.Sprintf("mstl: series contains %d missing value(s), first at index %d; interpolation is not supported", e.Count, e.First)
}

// Is reports whether target is ErrMissingData.
func (e *MissingDataError) Is(target error) bool {
	return target == ErrMissingData
}

// UnsupportedTransformError reports that a Box-Cox lambda was supplied.
type UnsupportedTransformError struct {
	Lambda float64
}

// Error implements error.
func (e *UnsupportedTransformError) Error() string {
	return fmt.Sprintf("mstl: box-cox transform (lambda=%g) is not supported", e.Lambda)
}

// Is reports whether target is ErrUnsupportedTransform.
func (e *UnsupportedTransformError) Is(target error) bool {
	return target == ErrUnsupportedTransform
}

// MissingDependencyError reports a capability that is needed by the chosen
// branch but was not provided.
type MissingDependencyError struct {
	Capability string
	Err        error
}

// Error implements error.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("mstl: %s is unavailable: %v", e.Capability, e.Err)
}

// Is reports whether target is ErrMissingDependency.
func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// Unwrap returns the underlying cause.
func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}
