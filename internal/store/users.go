package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/model"
)

// CreateUser creates a new user with its role and authorized base set.
func CreateUser(ctx context.Context, db *sql.DB, username, fullName, passwordHash string, role model.Role, bases []string) (*model.User, error) {
	if username == "" {
		return nil, validationErrorf("username required")
	}
	if !role.Valid() {
		return nil, validationErrorf("unknown role %q", role)
	}
	if bases == nil {
		bases = []string{}
	}

	basesJSON, err := json.Marshal(bases)
	if err != nil {
		return nil, fmt.Errorf("encoding authorized bases: %w", err)
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, username, full_name, password_hash, role, authorized_bases)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, fullName, passwordHash, role, string(basesJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	var basesJSON string
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &u.Role,
		&basesJSON, &u.CreatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(basesJSON), &u.AuthorizedBases); err != nil {
		return nil, fmt.Errorf("decoding authorized bases: %w", err)
	}
	return u, nil
}

const userColumns = `id, username, full_name, password_hash, role, authorized_bases, created_at, deleted_at`

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username (including soft-deleted for
// auth checks).
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
