package repository

import (
	"context"
	"database/sql"

	"github.com/toyz/usersapi/internal/errors"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/store"
)

// execer is satisfied by *sql.Conn and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const insertLogSQL = `INSERT INTO UpdateLogs
	(UserId, OperationType, OperationTime, Status, Details, IpAddress, UserAgent)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// AuditRepository reads and appends UpdateLogs rows
type AuditRepository struct {
	store *store.Store
}

// NewAuditRepository creates an AuditRepository
func NewAuditRepository(s *store.Store) *AuditRepository {
	return &AuditRepository{store: s}
}

// Insert appends entry on its own connection
func (r *AuditRepository) Insert(ctx context.Context, entry models.UpdateLogEntry) error {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return insertLog(ctx, conn, entry)
}

func insertLog(ctx context.Context, ex execer, entry models.UpdateLogEntry) error {
	_, err := ex.ExecContext(ctx, insertLogSQL,
		entry.UserID,
		string(entry.OperationType),
		entry.OperationTime,
		string(entry.Status),
		entry.Details,
		entry.IPAddress,
		entry.UserAgent,
	)
	if err != nil {
		return errors.WrapDatabaseError("insert audit entry", err)
	}
	return nil
}

// List returns entries newest first, optionally for one user
func (r *AuditRepository) List(ctx context.Context, q models.LogQuery) ([]models.UpdateLogEntry, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var userID interface{}
	if q.UserID != nil {
		userID = *q.UserID
	}

	rows, err := conn.QueryContext(ctx, `SELECT Id, UserId, OperationType, OperationTime, Status, Details, IpAddress, UserAgent
		FROM UpdateLogs
		WHERE (?1 IS NULL OR UserId = ?1)
		ORDER BY OperationTime DESC, Id DESC
		LIMIT ?2`, userID, q.Limit)
	if err != nil {
		return nil, errors.WrapDatabaseError("list audit entries", err)
	}
	defer rows.Close()

	logs := make([]models.UpdateLogEntry, 0)
	for rows.Next() {
		var (
			entry     models.UpdateLogEntry
			op        string
			status    string
			details   sql.NullString
			ipAddress sql.NullString
			userAgent sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &op, &entry.OperationTime, &status, &details, &ipAddress, &userAgent); err != nil {
			return nil, errors.WrapDatabaseError("read audit entry", err)
		}
		entry.OperationType = models.OperationType(op)
		entry.Status = models.OperationStatus(status)
		if details.Valid {
			entry.Details = &details.String
		}
		entry.IPAddress = valueOrUnknown(ipAddress)
		entry.UserAgent = valueOrUnknown(userAgent)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapDatabaseError("list audit entries", err)
	}
	return logs, nil
}

// Statistics aggregates the whole table. It returns nil when the table is
// empty.
func (r *AuditRepository) Statistics(ctx context.Context) (*models.LogStatistics, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var (
		stats           models.LogStatistics
		success, failed sql.NullInt64
		first, last     sql.NullString
	)
	err = conn.QueryRowContext(ctx, `SELECT
			COUNT(*),
			SUM(CASE WHEN Status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN Status = ? THEN 1 ELSE 0 END),
			COUNT(DISTINCT UserId),
			MIN(OperationTime),
			MAX(OperationTime)
		FROM UpdateLogs`, string(models.StatusSuccess), string(models.StatusFailed)).
		Scan(&stats.TotalOperations, &success, &failed, &stats.UniqueUsers, &first, &last)
	if err != nil {
		return nil, errors.WrapDatabaseError("aggregate audit entries", err)
	}
	if stats.TotalOperations == 0 {
		return nil, nil
	}

	stats.SuccessOperations = int(success.Int64)
	stats.FailedOperations = int(failed.Int64)
	if first.Valid {
		stats.FirstLog = &first.String
	}
	if last.Valid {
		stats.LastLog = &last.String
	}
	return &stats, nil
}

func valueOrUnknown(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return models.UnknownClient
	}
	return s.String
}
