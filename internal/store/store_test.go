package store

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/usersapi/internal/errors"
	"modernc.org/sqlite"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_InitCreatesSchemaAndSeeds(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	seeded, err := s.Init(ctx, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, 2, seeded)

	var name string
	var age int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		"SELECT Name, Age FROM Users WHERE Email = ?", "maria@mail.com").Scan(&name, &age))
	assert.Equal(t, "Мария", name)
	assert.Equal(t, 30, age)

	var logs int
	require.NoError(t, s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM UpdateLogs").Scan(&logs))
	assert.Zero(t, logs)
}

func TestStore_InitSeedsOnlyEmptyTable(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.Init(ctx, DefaultSeed)
	require.NoError(t, err)

	seeded, err := s.Init(ctx, DefaultSeed)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM Users").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestStore_ConstraintErrorsCarryResultCode(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	_, err := s.Init(ctx, nil)
	require.NoError(t, err)

	conn, err := s.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, execErr := conn.ExecContext(ctx, "INSERT INTO Users (Name, Email) VALUES (NULL, 'x@y.z')")
	require.Error(t, execErr)

	var sqliteErr *sqlite.Error
	require.True(t, stderrors.As(execErr, &sqliteErr))

	dbErr := errors.WrapDatabaseError("insert user", execErr)
	// 19 is SQLITE_CONSTRAINT; the driver may report the extended code
	assert.Equal(t, 19, dbErr.ResultCode&0xff)
	assert.Equal(t, errors.DatabaseErrorCode, errors.CodeOf(dbErr))
}

func TestStore_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, path, s.Path())
}
