package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeDirectoryNotFound = "DIRECTORY_NOT_FOUND"
	CodeConversionFailed  = "CONVERSION_FAILED"
	CodeOCRFailed         = "OCR_FAILED"
	CodeEmptyBatch        = "EMPTY_BATCH"
	CodeBatchInProgress   = "BATCH_IN_PROGRESS"
	CodeInvalidBatch      = "INVALID_BATCH"
	CodeConfig            = "CONFIG_ERROR"
)

// Error kinds
var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrConversionFailed  = errors.New("conversion failed")
	ErrOCRFailed         = errors.New("ocr failed")
	ErrEmptyBatch        = errors.New("empty batch")
	ErrBatchInProgress   = errors.New("batch already in progress")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DirectoryNotFound wraps the underlying stat/read error so callers can match ErrDirectoryNotFound.
func DirectoryNotFound(dir string, cause error) error {
	return NewAppError(CodeDirectoryNotFound, dir, errors.Join(ErrDirectoryNotFound, cause))
}

// ConversionFailed marks a conversion backend error for one item.
func ConversionFailed(path string, cause error) error {
	return NewAppError(CodeConversionFailed, path, errors.Join(ErrConversionFailed, cause))
}

// OCRError carries the captured stderr of a failed OCR run.
type OCRError struct {
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *OCRError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("OCR failed (exit %d): %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("OCR failed (exit %d): %v", e.ExitCode, e.Cause)
}

func (e *OCRError) Unwrap() []error {
	return []error{ErrOCRFailed, e.Cause}
}

// ErrorCode returns the AppError code found in err's chain, or "" if none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return CodeOCRFailed
	}
	return ""
}
