package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/toyz/usersapi/internal/errors"
	"github.com/toyz/usersapi/internal/models"
	"github.com/toyz/usersapi/internal/store"
)

// UserRepository runs the Users statements
type UserRepository struct {
	store *store.Store
}

// NewUserRepository creates a UserRepository
func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// List returns every user in storage order. Rows whose columns cannot be
// read are skipped and counted.
func (r *UserRepository) List(ctx context.Context) (models.UserList, error) {
	result := models.UserList{Users: make([]models.User, 0)}

	conn, err := r.store.Conn(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT Id, Name, Email, Age FROM Users ORDER BY Id")
	if err != nil {
		return result, errors.WrapDatabaseError("list users", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Users = append(result.Users, user)
	}
	if err := rows.Err(); err != nil {
		return result, errors.WrapDatabaseError("list users", err)
	}
	return result, nil
}

// Get returns the user with id
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, "SELECT Id, Name, Email, Age FROM Users WHERE Id = ?", id)
	user, err := scanUser(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("User", id)
	}
	if err != nil {
		return nil, errors.WrapDatabaseError("get user", err)
	}
	return &user, nil
}

// Insert stores a new user and returns its generated id
func (r *UserRepository) Insert(ctx context.Context, req models.UpdateUserRequest) (int, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, "INSERT INTO Users (Name, Email, Age) VALUES (?, ?, ?)",
		req.Name, req.Email, nullableAge(req.Age))
	if err != nil {
		return 0, errors.WrapDatabaseError("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.WrapDatabaseError("create user", err)
	}
	return int(id), nil
}

// UpdateWithAudit runs the existence check, the update and the audit insert
// in one transaction. Any failure rolls the transaction back before
// returning.
func (r *UserRepository) UpdateWithAudit(ctx context.Context, id int, req models.UpdateUserRequest, entry models.UpdateLogEntry) error {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapDatabaseError("update user", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM Users WHERE Id = ?", id).Scan(&exists); err != nil {
		return errors.WrapDatabaseError("update user", err)
	}
	if exists == 0 {
		return errors.NewNotFoundError("User", id)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE Users SET Name = ?, Email = ?, Age = ? WHERE Id = ?",
		req.Name, req.Email, nullableAge(req.Age), id); err != nil {
		return errors.WrapDatabaseError("update user", err)
	}

	if err := insertLog(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapDatabaseError("update user", err)
	}
	return nil
}

// UpdateEmail sets the email of the user matching both id and the exact
// current name. It returns the number of affected rows.
func (r *UserRepository) UpdateEmail(ctx context.Context, id int, currentName, newEmail string) (int64, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, "UPDATE Users SET Email = ? WHERE Id = ? AND Name = ?", newEmail, id, currentName)
	if err != nil {
		return 0, errors.WrapDatabaseError("update email", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WrapDatabaseError("update email", err)
	}
	return n, nil
}

// Delete removes the user with id and returns the number of affected rows
func (r *UserRepository) Delete(ctx context.Context, id int) (int64, error) {
	conn, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, "DELETE FROM Users WHERE Id = ?", id)
	if err != nil {
		return 0, errors.WrapDatabaseError("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WrapDatabaseError("delete user", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s scanner) (models.User, error) {
	var (
		user models.User
		age  sql.NullInt64
	)
	if err := s.Scan(&user.ID, &user.Name, &user.Email, &age); err != nil {
		return models.User{}, err
	}
	if age.Valid {
		a := int(age.Int64)
		user.Age = &a
	}
	return user, nil
}

func nullableAge(age *int) interface{} {
	if age == nil {
		return nil
	}
	return *age
}
