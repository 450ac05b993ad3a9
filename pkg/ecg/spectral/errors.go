package spectral

import (
	"errors"
	"fmt"
)

// Error codes for spectral heart-rate estimation
const (
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeSpectralResolution = "SPECTRAL_RESOLUTION"
	ErrCodeEmptyBand          = "EMPTY_BAND"
	ErrCodeDegenerateSpectrum = "DEGENERATE_SPECTRUM"
)

// SpectralError represents estimation errors with enough context
// to log or display the violated constraint
type SpectralError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Value      string `json:"value,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Cause      error  `json:"-"`
}

func (e *SpectralError) Error() string {
	msg := e.Message
	if e.Value != "" {
		msg = fmt.Sprintf("%s (got %s", msg, e.Value)
		if e.Constraint != "" {
			msg += ", want " + e.Constraint
		}
		msg += ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *SpectralError) Unwrap() error {
	return e.Cause
}

// NewSpectralError creates a new spectral estimation error
func NewSpectralError(code, message string) *SpectralError {
	return &SpectralError{Code: code, Message: message}
}

func (e *SpectralError) withValue(format string, args ...any) *SpectralError {
	e.Value = fmt.Sprintf(format, args...)
	return e
}

func (e *SpectralError) withConstraint(format string, args ...any) *SpectralError {
	e.Constraint = fmt.Sprintf(format, args...)
	return e
}

// CodeOf returns the error code of err if it is a SpectralError,
// or an empty string otherwise
func CodeOf(err error) string {
	var se *SpectralError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
