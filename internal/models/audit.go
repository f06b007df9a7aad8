package models

import "time"

// OperationType identifies the mutating operation an audit entry records
type OperationType string

const (
	OperationCreateUser  OperationType = "CREATE_USER"
	OperationUpdateUser  OperationType = "UPDATE_USER"
	OperationUpdateEmail OperationType = "UPDATE_EMAIL"
	OperationDeleteUser  OperationType = "DELETE_USER"
)

// OperationStatus is the outcome of an audited operation
type OperationStatus string

const (
	StatusSuccess OperationStatus = "SUCCESS"
	StatusFailed  OperationStatus = "FAILED"
)

// UnknownClient is stored when the caller address or agent is absent
const UnknownClient = "Unknown"

// OperationTimeLayout is fixed width so that text ordering matches time ordering
const OperationTimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatOperationTime renders t in UTC with OperationTimeLayout
func FormatOperationTime(t time.Time) string {
	return t.UTC().Format(OperationTimeLayout)
}

// UpdateLogEntry is one append-only audit row. UserID 0 means no user was
// assigned, as for a failed creation.
type UpdateLogEntry struct {
	ID            int             `json:"id"`
	UserID        int             `json:"userId"`
	OperationType OperationType   `json:"operationType"`
	OperationTime string          `json:"operationTime"`
	Status        OperationStatus `json:"status"`
	Details       *string         `json:"details"`
	IPAddress     string          `json:"ipAddress"`
	UserAgent     string          `json:"userAgent"`
}

// RequestInfo carries the caller details recorded with every audit entry
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// Normalize replaces empty fields with UnknownClient
func (r RequestInfo) Normalize() RequestInfo {
	if r.IPAddress == "" {
		r.IPAddress = UnknownClient
	}
	if r.UserAgent == "" {
		r.UserAgent = UnknownClient
	}
	return r
}

// LogQuery filters the audit listing
type LogQuery struct {
	UserID *int
	Limit  int
}

// LogList is the audit listing response
type LogList struct {
	TotalLogs int              `json:"totalLogs"`
	Logs      []UpdateLogEntry `json:"logs"`
}

// LogStatistics aggregates the whole audit table
type LogStatistics struct {
	TotalOperations   int     `json:"totalOperations"`
	SuccessOperations int     `json:"successOperations"`
	FailedOperations  int     `json:"failedOperations"`
	UniqueUsers       int     `json:"uniqueUsers"`
	FirstLog          *string `json:"firstLog"`
	LastLog           *string `json:"lastLog"`
}

// MessageResponse is a body carrying only a message
type MessageResponse struct {
	Message string `json:"message"`
}

// BusinessFailure is the body of a rejected but well-formed request
type BusinessFailure struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}
