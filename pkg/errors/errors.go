package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryDetection     ErrorCategory = "detection"
	CategoryFeedback      ErrorCategory = "feedback"
	CategoryStorage       ErrorCategory = "storage"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"
	CodeEncodingError ErrorCode = "encoding_error"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"
	CodeInvalidFilter ErrorCode = "invalid_filter"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Detection errors
	CodeDetectionFailed ErrorCode = "detection_failed"
	CodeInvalidSnapshot ErrorCode = "invalid_snapshot"

	// Feedback errors
	CodePatternNotFound ErrorCode = "pattern_not_found"
	CodeFeedbackFailed  ErrorCode = "feedback_failed"

	// Storage errors
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeStorageCorrupted   ErrorCode = "storage_corrupted"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// DetectorError is the base error type for all application errors
type DetectorError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *DetectorError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *DetectorError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error represents a missing pattern id
func (e *DetectorError) IsNotFound() bool {
	return e.Code == CodePatternNotFound
}

// GetExitCode returns an appropriate exit code for the error
func (e *DetectorError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryDetection, CategoryInternal:
		return 5
	case CategoryFeedback, CategoryStorage:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *DetectorError) WithContext(key string, value interface{}) *DetectorError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *DetectorError) WithSuggestion(suggestion string) *DetectorError {
	e.Suggestion = suggestion
	return e
}

// New creates a new DetectorError
func New(category ErrorCategory, code ErrorCode, message string) *DetectorError {
	return &DetectorError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with DetectorError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *DetectorError {
	if err == nil {
		return nil
	}

	return &DetectorError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// build is the shared body of the per-category constructors: wrap the
// cause when present, otherwise start fresh, and attach the suggestion.
func build(err error, category ErrorCategory, code ErrorCode, message, suggestion string) *DetectorError {
	if err != nil {
		return Wrap(err, category, code, message).WithSuggestion(suggestion)
	}
	return New(category, code, message).WithSuggestion(suggestion)
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file appears to be corrupted: %s", path)
		suggestion = "verify the file integrity and try exporting the snapshot again"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	return build(err, CategoryFile, code, message, suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	case CodeEncodingError:
		message = fmt.Sprintf("encoding error in file %s at line %d", file, line)
		suggestion = "ensure the file is saved in UTF-8 encoding"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	return build(err, CategoryParse, code, message, suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '-15.99')"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeInvalidFilter:
		message = fmt.Sprintf("invalid filter value in '%s': %v", field, value)
		suggestion = "use one of the documented filter values"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	return build(err, CategoryValidation, code, message, suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	return build(err, CategoryConfiguration, code, message, suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// DetectionError creates a detection-related error
func DetectionError(code ErrorCode, operation string, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeDetectionFailed:
		message = fmt.Sprintf("pattern detection failed during %s", operation)
		suggestion = "check data quality in the transaction snapshot"
	case CodeInvalidSnapshot:
		message = fmt.Sprintf("transaction snapshot is structurally invalid during %s", operation)
		suggestion = "re-export the snapshot and verify its contents"
	default:
		message = fmt.Sprintf("detection error during %s", operation)
		suggestion = "review the data and configuration"
	}

	return build(err, CategoryDetection, code, message, suggestion).
		WithContext("operation", operation)
}

// PatternNotFoundError creates the NotFound-class error returned when a
// confirm or reject refers to a pattern id that was never assigned.
func PatternNotFoundError(patternID int64) *DetectorError {
	return New(
		CategoryFeedback,
		CodePatternNotFound,
		fmt.Sprintf("pattern %d not found", patternID),
	).
		WithSuggestion("run a detection pass first so pattern ids are assigned").
		WithContext("pattern_id", patternID)
}

// StorageError creates a feedback-storage error
func StorageError(code ErrorCode, operation string, err error) *DetectorError {
	var message string
	var suggestion string

	switch code {
	case CodeStorageUnavailable:
		message = fmt.Sprintf("feedback store unavailable during %s", operation)
		suggestion = "check the store path and that no other process holds the database"
	case CodeStorageCorrupted:
		message = fmt.Sprintf("feedback store corrupted during %s", operation)
		suggestion = "delete the store file to rebuild it; recorded feedback will be lost"
	default:
		message = fmt.Sprintf("storage error during %s", operation)
		suggestion = "check the feedback store and try again"
	}

	return build(err, CategoryStorage, code, message, suggestion).
		WithContext("operation", operation)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *DetectorError {
	message := fmt.Sprintf("internal error during %s", operation)
	suggestion := "this is likely a bug - please report it with the error details"

	return build(err, CategoryInternal, code, message, suggestion).
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total        int                   `json:"total"`
	ByCategory   map[ErrorCategory]int `json:"by_category"`
	ByCode       map[ErrorCode]int     `json:"by_code"`
	Errors       []*DetectorError      `json:"errors"`
	SampleErrors []*DetectorError      `json:"sample_errors,omitempty"`
}

// maxSampleErrors caps how many individual errors a summary carries for
// display; the full list stays available in Errors.
const maxSampleErrors = 5

// NewErrorSummary aggregates a batch of errors by category and code
func NewErrorSummary(errs []*DetectorError) *ErrorSummary {
	if errs == nil {
		errs = []*DetectorError{}
	}

	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	if len(errs) > 0 {
		summary.SampleErrors = errs
		if len(errs) > maxSampleErrors {
			summary.SampleErrors = errs[:maxSampleErrors]
		}
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	count, exists := es.ByCategory[category]
	return exists && count > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsDetectorError checks if an error is a DetectorError
func IsDetectorError(err error) bool {
	_, ok := err.(*DetectorError)
	return ok
}

// AsDetectorError extracts a DetectorError from an error chain
func AsDetectorError(err error) (*DetectorError, bool) {
	var detectorErr *DetectorError
	if errors.As(err, &detectorErr) {
		return detectorErr, true
	}
	return nil, false
}

// IsPatternNotFound reports whether the error chain contains a
// pattern_not_found failure.
func IsPatternNotFound(err error) bool {
	if detectorErr, ok := AsDetectorError(err); ok {
		return detectorErr.IsNotFound()
	}
	return false
}

// WrapIfNeeded wraps an error if it's not already a DetectorError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *DetectorError {
	if err == nil {
		return nil
	}

	if detectorErr, ok := AsDetectorError(err); ok {
		return detectorErr
	}

	return Wrap(err, category, code, message)
}
