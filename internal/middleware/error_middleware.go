package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/toyz/usersapi/internal/config"
	"github.com/toyz/usersapi/internal/errors"
	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/pkg/axon"
)

// Messages rendered by the global handler
const (
	msgDatabase       = "A database error occurred"
	msgInvalidRequest = "Invalid request parameters"
	msgNotFound       = "The requested resource was not found"
	msgInternal       = "An internal server error occurred"
)

// PanicError is a recovered panic
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandlingMiddleware turns every error or panic that leaves a handler
// into an ApiErrorResponse
type ErrorHandlingMiddleware struct {
	config *config.Config
	logger *logging.AppLogger
}

// NewErrorHandlingMiddleware creates an ErrorHandlingMiddleware
func NewErrorHandlingMiddleware(cfg *config.Config, logger *logging.AppLogger) *ErrorHandlingMiddleware {
	return &ErrorHandlingMiddleware{config: cfg, logger: logger}
}

// Handle implements the middleware logic
func (m *ErrorHandlingMiddleware) Handle(next axon.HandlerFunc) axon.HandlerFunc {
	return func(c axon.RequestContext) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = m.render(c, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		if err := next(c); err != nil {
			return m.render(c, err)
		}
		return nil
	}
}

func (m *ErrorHandlingMiddleware) render(c axon.RequestContext, err error) error {
	m.logger.Error("unhandled error", "error", err, "path", c.Path(), "requestId", RequestID(c))

	if c.Response().Written() {
		return nil
	}

	status, body := m.Build(err, RequestID(c))
	return c.Response().JSONPretty(status, body, "  ")
}

// Build classifies err and returns the status code and response body
func (m *ErrorHandlingMiddleware) Build(err error, requestID string) (int, *models.ApiErrorResponse) {
	var (
		dbErr *errors.DatabaseError
		vErr  *errors.ValidationError
		nfErr *errors.NotFoundError
		bErr  *errors.BusinessError
	)

	switch {
	case errors.As(err, &dbErr):
		return http.StatusBadRequest, models.NewApiErrorResponse(msgDatabase, errors.DatabaseErrorCode.String(), requestID).
			WithDetail("SqliteErrorCode", strconv.Itoa(dbErr.ResultCode)).
			WithDetail("DatabaseError", dbErr.Detail)

	case errors.As(err, &vErr):
		return http.StatusBadRequest, models.NewApiErrorResponse(msgInvalidRequest, errors.ValidationErrorCode.String(), requestID).
			WithDetail("ParameterError", vErr.Error())

	case errors.As(err, &nfErr):
		return http.StatusNotFound, models.NewApiErrorResponse(msgNotFound, errors.NotFoundErrorCode.String(), requestID).
			WithDetail("Details", nfErr.Error())

	case errors.As(err, &bErr):
		return http.StatusBadRequest, models.NewApiErrorResponse(bErr.Message, errors.BusinessErrorCode.String(), requestID).
			WithDetail("Reason", bErr.Reason)
	}

	if he, ok := axon.AsHttpError(err); ok {
		return he.StatusCode, models.NewApiErrorResponse(he.Message, "HttpError", requestID)
	}

	resp := models.NewApiErrorResponse(msgInternal, models.ErrorTypeInternalServer, requestID)
	if m.config.IsDevelopment() {
		resp.Message = err.Error()
		resp.WithDetail("ExceptionType", exceptionType(err))
		resp.WithDetail("StackTrace", stackTrace(err))
	}
	return http.StatusInternalServerError, resp
}

func exceptionType(err error) string {
	if p, ok := err.(*PanicError); ok {
		return fmt.Sprintf("%T", p.Value)
	}
	return fmt.Sprintf("%T", err)
}

func stackTrace(err error) string {
	if p, ok := err.(*PanicError); ok {
		return string(p.Stack)
	}
	return string(debug.Stack())
}
