// Unified error handling for the liquid-handle transport compiler
//
// Copyright (C) 2026  Liquidhandle Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package lherr

import "fmt"

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Type violations: an argument's runtime shape does not match its
	// declared kind.
	ErrUnitParse ErrorCode = "UNIT_PARSE"
	ErrUnitDim   ErrorCode = "UNIT_DIM"
	ErrFieldType ErrorCode = "FIELD_TYPE"

	// Domain-validity violations: the value is well-typed but outside its
	// allowed domain.
	ErrShapeFormat   ErrorCode = "SHAPE_FORMAT"
	ErrShapeBounds   ErrorCode = "SHAPE_BOUNDS"
	ErrLocation      ErrorCode = "LOCATION"
	ErrLiquidClass   ErrorCode = "LIQUID_CLASS"
	ErrTipCoord      ErrorCode = "TIP_COORD"
	ErrFlowrate      ErrorCode = "FLOWRATE"
	ErrZReference    ErrorCode = "Z_REFERENCE"
	ErrZDetection    ErrorCode = "Z_DETECTION"
	ErrDevice        ErrorCode = "DEVICE"
	ErrVolumeRange   ErrorCode = "VOLUME_RANGE"
	ErrParamConflict ErrorCode = "PARAM_CONFLICT"
	ErrParamField    ErrorCode = "PARAM_FIELD"
	ErrRequest       ErrorCode = "REQUEST"
)

// Kind classifies an ErrorCode into one of the two error kinds the
// compiler distinguishes.
type Kind int

const (
	// TypeViolation signals a caller contract breach: a value of the wrong
	// runtime shape.
	TypeViolation Kind = iota

	// DomainViolation signals a well-typed value outside its allowed domain.
	DomainViolation
)

// BuildError is the unified error type for instruction construction
type BuildError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Field is the builder field or legacy parameter involved (if any)
	Field string

	// Err wraps the underlying error
	Err error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Kind reports whether the error is a type violation or a domain-validity
// violation.
func (e *BuildError) Kind() Kind {
	switch e.Code {
	case ErrUnitParse, ErrUnitDim, ErrFieldType:
		return TypeViolation
	}
	return DomainViolation
}

// SetField sets the field or parameter name
func (e *BuildError) SetField(field string) *BuildError {
	e.Field = field
	return e
}

// New creates a new BuildError
func New(code ErrorCode, message string) *BuildError {
	return &BuildError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new BuildError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BuildError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *BuildError {
	return &BuildError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Unit errors

// UnitParseError creates an error for an unparseable quantity string
func UnitParseError(input string, reason string) *BuildError {
	return Newf(ErrUnitParse, "failed to parse quantity '%s': %s", input, reason)
}

// UnitDimError creates an error for a quantity in the wrong unit family
func UnitDimError(field, got, want string) *BuildError {
	return Newf(ErrUnitDim, "expected %s quantity, got %s", want, got).
		SetField(field)
}

// FieldTypeError creates an error for an argument of the wrong runtime shape
func FieldTypeError(field, got, want string) *BuildError {
	return Newf(ErrFieldType, "expected %s, got %s", want, got).
		SetField(field)
}

// Builder errors

// ShapeFormatError creates an error for an unsupported plate format
func ShapeFormatError(format string) *BuildError {
	return Newf(ErrShapeFormat, "unsupported plate format '%s'", format)
}

// ShapeBoundsError creates an error for a shape exceeding its format grid
func ShapeBoundsError(field string, value, max int, format string) *BuildError {
	return Newf(ErrShapeBounds, "%d out of range [0, %d] for format %s", value, max, format).
		SetField(field)
}

// LocationError creates an error for an invalid location field
func LocationError(field, reason string) *BuildError {
	return New(ErrLocation, reason).SetField(field)
}

// LiquidClassError creates an error for an unsupported liquid class
func LiquidClassError(class string) *BuildError {
	return Newf(ErrLiquidClass, "liquid class '%s' must be one of: air, default", class)
}

// TipCoordError creates an error for an out-of-range unit-square coordinate
func TipCoordError(field string, value float64) *BuildError {
	return Newf(ErrTipCoord, "%g out of unit-square range [-1, 1]", value).
		SetField(field)
}

// FlowrateError creates an error for invalid flow-rate parameters
func FlowrateError(reason string) *BuildError {
	return New(ErrFlowrate, reason)
}

// Z-position errors

// ZReferenceError creates an error for an unsupported z reference
func ZReferenceError(reference string) *BuildError {
	return Newf(ErrZReference, "unsupported reference '%s'", reference)
}

// ZDetectionError creates an error for invalid liquid-detection parameters
func ZDetectionError(reason string) *BuildError {
	return New(ErrZDetection, reason)
}

// DeviceError creates an error for a capability unsupported by the device
func DeviceError(device, reason string) *BuildError {
	return Newf(ErrDevice, "device '%s': %s", device, reason)
}

// Translator errors

// VolumeRangeError creates an error for a negative or inconsistent volume
func VolumeRangeError(field, reason string) *BuildError {
	return New(ErrVolumeRange, reason).SetField(field)
}

// ParamConflictError creates an error for mutually exclusive parameters
func ParamConflictError(reason string) *BuildError {
	return New(ErrParamConflict, reason)
}

// ParamFieldError creates an error for an unrecognized legacy field
func ParamFieldError(field string) *BuildError {
	return Newf(ErrParamField, "unrecognized field '%s'", field).
		SetField(field)
}

// RequestError creates an error for an invalid operation request
func RequestError(reason string) *BuildError {
	return New(ErrRequest, reason)
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if buildErr, ok := err.(*BuildError); ok {
		return buildErr.Code == code
	}
	return false
}

// IsType checks if error is a type violation
func IsType(err error) bool {
	if buildErr, ok := err.(*BuildError); ok {
		return buildErr.Kind() == TypeViolation
	}
	return false
}

// IsDomain checks if error is a domain-validity violation
func IsDomain(err error) bool {
	if buildErr, ok := err.(*BuildError); ok {
		return buildErr.Kind() == DomainViolation
	}
	return false
}
