package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from a record or table
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ClassifierError wraps a failure of the classifier backend
type ClassifierError struct {
	Err error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier failed: %v", e.Err)
}

func (e *ClassifierError) Unwrap() error {
	return e.Err
}

// UploadFormatError reports unreadable upload content
type UploadFormatError struct {
	Cause error
}

func (e *UploadFormatError) Error() string {
	return fmt.Sprintf("unreadable upload: %v", e.Cause)
}

func (e *UploadFormatError) Unwrap() error {
	return e.Cause
}
