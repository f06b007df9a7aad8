package models

import "time"

// Error types rendered in ApiErrorResponse.ErrorType beyond the error codes
const (
	ErrorTypeInternalServer = "InternalServerError"
	ErrorTypeLogRetrieval   = "LogRetrievalError"
	ErrorTypeLogStats       = "LogStatsError"
)

// ApiErrorResponse is the uniform error body
type ApiErrorResponse struct {
	Message   string            `json:"message"`
	ErrorType string            `json:"errorType"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"requestId"`
	Details   map[string]string `json:"details"`
}

// NewApiErrorResponse creates a response stamped with the current UTC time
func NewApiErrorResponse(message, errorType, requestID string) *ApiErrorResponse {
	return &ApiErrorResponse{
		Message:   message,
		ErrorType: errorType,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
		Details:   make(map[string]string),
	}
}

// WithDetail adds a detail entry
func (r *ApiErrorResponse) WithDetail(key, value string) *ApiErrorResponse {
	r.Details[key] = value
	return r
}
