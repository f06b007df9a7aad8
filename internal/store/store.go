// Package store owns the SQLite database file: opening it, creating the
// schema and seeding the initial users.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/toyz/usersapi/internal/errors"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Users (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		Name TEXT NOT NULL,
		Email TEXT NOT NULL,
		Age INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS UpdateLogs (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		UserId INTEGER NOT NULL,
		OperationType TEXT NOT NULL,
		OperationTime TEXT NOT NULL,
		Status TEXT NOT NULL,
		Details TEXT,
		IpAddress TEXT,
		UserAgent TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS IX_UpdateLogs_UserId ON UpdateLogs (UserId)`,
}

// SeedUser is a row inserted into an empty Users table
type SeedUser struct {
	Name  string
	Email string
	Age   int
}

// DefaultSeed is inserted on first start
var DefaultSeed = []SeedUser{
	{Name: "Иван", Email: "ivan@mail.com", Age: 25},
	{Name: "Мария", Email: "maria@mail.com", Age: 30},
}

// Store wraps the database handle. Every operation checks out its own
// connection with Conn and returns it when done.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database file at path
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, errors.WrapDatabaseError("open database", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Conn checks out a dedicated connection. Callers must Close it.
func (s *Store) Conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, errors.WrapDatabaseError("open connection", err)
	}
	return conn, nil
}

// Init creates missing tables and seeds users when the Users table is
// empty. It returns the number of seeded rows.
func (s *Store) Init(ctx context.Context, seed []SeedUser) (int, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return 0, errors.WrapDatabaseError("create schema", err)
		}
	}

	var count int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM Users").Scan(&count); err != nil {
		return 0, errors.WrapDatabaseError("count users", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, u := range seed {
		if _, err := conn.ExecContext(ctx,
			"INSERT INTO Users (Name, Email, Age) VALUES (?, ?, ?)", u.Name, u.Email, u.Age); err != nil {
			return 0, errors.WrapDatabaseError("seed users", err)
		}
	}
	return len(seed), nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
