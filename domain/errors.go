package domain

import "fmt"

// Error codes used across swiftscan
const (
	ErrCodeConfig   = "CONFIG_ERROR"
	ErrCodeAnalysis = "ANALYSIS_ERROR"
	ErrCodeBuild    = "BUILD_ERROR"
	ErrCodeTimeout  = "TIMEOUT"
)

// DomainError is the error type returned by swiftscan services.
// It distinguishes "the tooling is broken" (config errors) from
// "the analyzed code has problems" (which is normal report data).
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with an arbitrary code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates an error for configuration problems
// (unreadable config file, missing build tool, invalid thresholds)
func NewConfigError(message string, cause error) error {
	return DomainError{Code: ErrCodeConfig, Message: message, Cause: cause}
}

// NewAnalysisError creates an error for failures inside an analysis run
func NewAnalysisError(message string, cause error) error {
	return DomainError{Code: ErrCodeAnalysis, Message: message, Cause: cause}
}

// NewBuildError creates an error for build invocations that could not
// be started at all. A build that runs and emits compiler errors is not
// a BuildError; that output is classified and reported as data.
func NewBuildError(message string, cause error) error {
	return DomainError{Code: ErrCodeBuild, Message: message, Cause: cause}
}

// IsConfigError reports whether err is a DomainError carrying a
// configuration error code.
func IsConfigError(err error) bool {
	de, ok := err.(DomainError)
	return ok && de.Code == ErrCodeConfig
}
