package wfdb

import "fmt"

// Common error codes
const (
	ErrCodeHeader     = "HEADER_PARSE"
	ErrCodeAnnotation = "ANNOTATION_PARSE"
	ErrCodeSignal     = "SIGNAL_READ"
	ErrCodeRecordList = "RECORD_LIST"
)

// FormatError represents WFDB file format errors
type FormatError struct {
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *FormatError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// NewFormatError creates a new WFDB format error
func NewFormatError(code, file, format string, args ...any) *FormatError {
	return &FormatError{
		Code:    code,
		File:    file,
		Message: fmt.Sprintf(format, args...),
	}
}
