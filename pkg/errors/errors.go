package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeRender represents listing-page render failures; the only
	// type fatal to an entire run
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeExtraction represents a single unusable listing element
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeResolution represents detail-page resolution failures
	ErrorTypeResolution ErrorType = "resolution"
	// ErrorTypeNotify represents delivery channel errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeCache represents dedupe store errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a pipeline-stage error
type ScrapeError struct {
	Type    ErrorType
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error aborts the whole pipeline run.
// Everything except a listing-page render failure stays contained
// inside the candidate or category it originated in.
func (e *ScrapeError) IsFatal() bool {
	return e.Type == ErrorTypeRender
}

// New creates a new ScrapeError
func New(errType ErrorType, stage, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewRender creates a new render error
func NewRender(stage, message string, err error) *ScrapeError {
	return New(ErrorTypeRender, stage, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(stage, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, stage, message, err)
}

// NewResolution creates a new resolution error
func NewResolution(stage, message string, err error) *ScrapeError {
	return New(ErrorTypeResolution, stage, message, err)
}

// NewNotify creates a new notify error
func NewNotify(stage, message string, err error) *ScrapeError {
	return New(ErrorTypeNotify, stage, message, err)
}

// NewCache creates a new cache error
func NewCache(stage, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, stage, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsFatal reports whether err is a ScrapeError that aborts the run
func IsFatal(err error) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.IsFatal()
	}
	return false
}
