package helpers

import (
	"couponworker/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(component string, err error)
	LogInfo(format string, args ...interface{})
}

// ZerologAdapter adapts the zerolog-backed logger package to
// LoggerInterface so components that log through an injected
// interface share the structured output.
type ZerologAdapter struct{}

// NewZerologAdapter creates a new adapter
func NewZerologAdapter() *ZerologAdapter {
	return &ZerologAdapter{}
}

// LogError logs an error with the originating component
func (a *ZerologAdapter) LogError(component string, err error) {
	if logger.Default == nil {
		logger.Init()
	}
	logger.Default.Error().
		Str("component", component).
		Err(err).
		Msg("component error")
}

// LogInfo logs an informational message
func (a *ZerologAdapter) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
