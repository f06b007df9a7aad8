// Package audit writes the best-effort UpdateLogs entries that accompany
// every mutating user operation.
package audit

import (
	"context"
	"time"

	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/repository"
)

// Recorder appends audit entries. Failures are logged and never returned.
type Recorder struct {
	repo   *repository.AuditRepository
	logger *logging.AppLogger
	now    func() time.Time
}

// NewRecorder creates a Recorder
func NewRecorder(repo *repository.AuditRepository, logger *logging.AppLogger) *Recorder {
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

// Entry builds an entry stamped with the current time
func (r *Recorder) Entry(info models.RequestInfo, userID int, op models.OperationType, status models.OperationStatus, details string) models.UpdateLogEntry {
	info = info.Normalize()
	entry := models.UpdateLogEntry{
		UserID:        userID,
		OperationType: op,
		OperationTime: models.FormatOperationTime(r.now()),
		Status:        status,
		IPAddress:     info.IPAddress,
		UserAgent:     info.UserAgent,
	}
	if details != "" {
		entry.Details = &details
	}
	return entry
}

// Record appends one entry on its own connection
func (r *Recorder) Record(ctx context.Context, info models.RequestInfo, userID int, op models.OperationType, status models.OperationStatus, details string) {
	entry := r.Entry(info, userID, op, status, details)
	if err := r.repo.Insert(ctx, entry); err != nil {
		r.logger.Warn("failed to write audit entry",
			"userId", userID,
			"operation", string(op),
			"status", string(status),
			"error", err,
		)
	}
}
