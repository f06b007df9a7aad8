package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/usersapi/internal/logging"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/repository"
	"github.com/toyz/usersapi/internal/store"
)

func newRecorder(t *testing.T) (*Recorder, *repository.AuditRepository, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Init(context.Background(), nil)
	require.NoError(t, err)

	repo := repository.NewAuditRepository(s)
	return NewRecorder(repo, logging.Discard()), repo, s
}

func TestRecorder_Entry(t *testing.T) {
	r, _, _ := newRecorder(t)
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	entry := r.Entry(models.RequestInfo{}, 5, models.OperationDeleteUser, models.StatusSuccess, "")

	assert.Equal(t, 5, entry.UserID)
	assert.Equal(t, "2024-01-02T03:04:05.000000000Z", entry.OperationTime)
	assert.Equal(t, "Unknown", entry.IPAddress)
	assert.Equal(t, "Unknown", entry.UserAgent)
	assert.Nil(t, entry.Details)

	withDetails := r.Entry(models.RequestInfo{IPAddress: "1.2.3.4", UserAgent: "ua"}, 1, models.OperationCreateUser, models.StatusFailed, "validation: x")
	require.NotNil(t, withDetails.Details)
	assert.Equal(t, "validation: x", *withDetails.Details)
	assert.Equal(t, "1.2.3.4", withDetails.IPAddress)
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	r, repo, _ := newRecorder(t)

	r.Record(ctx, models.RequestInfo{IPAddress: "10.1.1.1", UserAgent: "go-test"}, 3, models.OperationUpdateEmail, models.StatusFailed, "no match")

	logs, err := repo.List(ctx, models.LogQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 3, logs[0].UserID)
	assert.Equal(t, models.OperationUpdateEmail, logs[0].OperationType)
	assert.Equal(t, models.StatusFailed, logs[0].Status)
	assert.Equal(t, "10.1.1.1", logs[0].IPAddress)
	assert.Equal(t, "go-test", logs[0].UserAgent)
}

func TestRecorder_RecordSwallowsFailures(t *testing.T) {
	r, _, s := newRecorder(t)
	require.NoError(t, s.Close())

	assert.NotPanics(t, func() {
		r.Record(context.Background(), models.RequestInfo{}, 1, models.OperationCreateUser, models.StatusSuccess, "")
	})
}
