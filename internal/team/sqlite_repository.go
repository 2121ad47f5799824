package team

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Create inserts a new team record, generating its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, t *Team) error {
	t.ID = uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `
		INSERT INTO teams (id, name, headquarters, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID.String(), t.Name, t.Headquarters, toMillis(t.CreatedAt), toMillis(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, headquarters, created_at, updated_at
		FROM teams
		WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

// List retrieves all teams ordered by creation time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Team, error) {
	query := `
		SELECT id, name, headquarters, created_at, updated_at
		FROM teams
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var (
			t                  Team
			idStr              string
			createdMs, updated int64
		)
		if err := rows.Scan(&idStr, &t.Name, &t.Headquarters, &createdMs, &updated); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		t.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing team id: %w", err)
		}
		t.CreatedAt = fromMillis(createdMs)
		t.UpdatedAt = fromMillis(updated)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}

	return teams, nil
}

// Update modifies the provided fields on a team and returns the updated row.
func (r *SQLiteRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Team, error) {
	var setClauses []string
	var args []any

	if fields.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.Headquarters != nil {
		setClauses = append(setClauses, "headquarters = ?")
		args = append(args, *fields.Headquarters)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, toMillis(time.Now().UTC()))

	args = append(args, id.String())

	query := fmt.Sprintf(`
		UPDATE teams
		SET %s
		WHERE id = ?
		RETURNING id, name, headquarters, created_at, updated_at`,
		strings.Join(setClauses, ", "))

	return r.scanOne(r.db.QueryRowContext(ctx, query, args...))
}

// Delete removes a team and clears team_id on its heroes in one transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM teams WHERE id = ?`, id.String()).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTeamNotFound
		}
		return "", fmt.Errorf("querying team: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE heroes SET team_id = NULL WHERE team_id = ?`, id.String()); err != nil {
		return "", fmt.Errorf("clearing hero team references: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id.String()); err != nil {
		return "", fmt.Errorf("deleting team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}

	return name, nil
}

// DeleteAll removes every team, clearing team_id on all heroes first.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE heroes SET team_id = NULL WHERE team_id IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("clearing hero team references: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM teams`)
	if err != nil {
		return 0, fmt.Errorf("deleting teams: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted teams: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return removed, nil
}

// scanOne scans a single Team row. Returns ErrTeamNotFound if no rows.
func (r *SQLiteRepository) scanOne(row *sql.Row) (*Team, error) {
	var (
		t                  Team
		idStr              string
		createdMs, updated int64
	)
	err := row.Scan(&idStr, &t.Name, &t.Headquarters, &createdMs, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team row: %w", err)
	}
	t.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing team id: %w", err)
	}
	t.CreatedAt = fromMillis(createdMs)
	t.UpdatedAt = fromMillis(updated)
	return &t, nil
}
