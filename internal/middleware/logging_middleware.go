package middleware

import (
	"time"

	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/pkg/axon"
)

// LoggingMiddleware logs one line per request
type LoggingMiddleware struct {
	logger *logging.AppLogger
}

// NewLoggingMiddleware creates a LoggingMiddleware
func NewLoggingMiddleware(logger *logging.AppLogger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Handle implements the middleware logic for request logging
func (m *LoggingMiddleware) Handle(next axon.HandlerFunc) axon.HandlerFunc {
	return func(c axon.RequestContext) error {
		start := time.Now()

		err := next(c)

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().Status(),
			"duration", time.Since(start),
			"requestId", RequestID(c),
		}
		if err != nil {
			m.logger.Error("request failed", append(args, "error", err)...)
		} else {
			m.logger.Info("request", args...)
		}

		return err
	}
}
