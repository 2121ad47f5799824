package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteRepository implements Repository on the shared SQLite handle.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new Repository backed by the given database handle.
func NewRepository(db *sql.DB) Repository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new user record, generating its ID.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()

	query := `
		INSERT INTO users (id, username, full_name, hashed_password, disabled)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID.String(), u.Username, u.FullName, u.HashedPassword, u.Disabled)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a single user by username.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, full_name, hashed_password, disabled
		FROM users
		WHERE username = ?`

	var (
		u     User
		idStr string
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&idStr, &u.Username, &u.FullName, &u.HashedPassword, &u.Disabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}

	return &u, nil
}

// Count returns the number of users.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
