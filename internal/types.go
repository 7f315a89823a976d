// internal/types.go - Common types for internal packages
package internal

import "time"

// SourceType represents the type of tile data source
type SourceType string

const (
	SourceTypeHTTP  SourceType = "http"
	SourceTypeStore SourceType = "store"
)

// PrefetchStats represents metrics for prefetch operations
type PrefetchStats struct {
	TotalTiles   int64
	FetchedTiles int64
	FailedTiles  int64
	EmptyTiles   int64
	StartTime    time.Time
	EndTime      time.Time
}

// Duration returns the elapsed wall time of the prefetch run
func (s *PrefetchStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Error represents application-specific errors
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode constants for common error types
const (
	ErrorCodeNetwork    = "NETWORK_ERROR"
	ErrorCodeGeometry   = "GEOMETRY_ERROR"
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeConfig     = "CONFIG_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeStorage    = "STORAGE_ERROR"
)
