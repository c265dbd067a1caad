package apperrors

import "errors"

// Validation errors
var ErrValidationFailed = errors.New("validation failed")

// Catalog errors
var (
	// ErrFetch covers network failures and a catalog page without the course payload
	ErrFetch = errors.New("catalog fetch failed")
	// ErrParse is returned when the embedded payload is not valid course JSON
	ErrParse = errors.New("catalog payload could not be parsed")
	// ErrNormalization marks a single scraped course that fails required-field checks
	ErrNormalization = errors.New("course record normalization failed")
)

// Course store errors
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrUnknownPrereq  = errors.New("prerequisite references an unknown course")
)

// NewNormalizationError creates a normalization error carrying the offending course and field
func NewNormalizationError(courseNumber, field, message string) *CustomError {
	return NewCustomError(ErrNormalization, message).
		WithCode("NORMALIZATION").
		WithDetails(map[string]interface{}{
			"course_number": courseNumber,
			"field":         field,
		})
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Detail returns a single detail value as a string, or "" when absent
func (e *CustomError) Detail(key string) string {
	if v, ok := e.Details[key].(string); ok {
		return v
	}
	return ""
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
