package hero

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

func teamIDArg(h *Hero) any {
	if h.TeamID == nil {
		return nil
	}
	return h.TeamID.String()
}

// Create inserts a new hero record, generating its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, h *Hero) error {
	h.ID = uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	h.CreatedAt = now
	h.UpdatedAt = now

	query := `
		INSERT INTO heroes (id, name, age, secret_name, hashed_password, team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID.String(), h.Name, h.Age, h.SecretName, h.HashedPassword,
		teamIDArg(h), toMillis(h.CreatedAt), toMillis(h.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting hero: %w", err)
	}

	return nil
}

const heroColumns = `id, name, age, secret_name, hashed_password, team_id, created_at, updated_at`

// GetByID retrieves a single hero by its UUID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Hero, error) {
	query := fmt.Sprintf(`SELECT %s FROM heroes WHERE id = ?`, heroColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

// List retrieves all heroes ordered by creation time.
func (r *SQLiteRepository) List(ctx context.Context) ([]Hero, error) {
	query := fmt.Sprintf(`SELECT %s FROM heroes ORDER BY created_at ASC`, heroColumns)
	return r.queryMany(ctx, query)
}

// ListByTeam retrieves the heroes belonging to the given team.
func (r *SQLiteRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Hero, error) {
	query := fmt.Sprintf(`SELECT %s FROM heroes WHERE team_id = ? ORDER BY created_at ASC`, heroColumns)
	return r.queryMany(ctx, query, teamID.String())
}

// ListPasswordHashes returns every stored password hash, optionally
// skipping one hero.
func (r *SQLiteRepository) ListPasswordHashes(ctx context.Context, exclude *uuid.UUID) ([]string, error) {
	query := `SELECT hashed_password FROM heroes`
	var args []any
	if exclude != nil {
		query += ` WHERE id != ?`
		args = append(args, exclude.String())
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing password hashes: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning password hash: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating password hashes: %w", err)
	}

	return hashes, nil
}

// Update modifies the provided fields on a hero and returns the updated row.
func (r *SQLiteRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Hero, error) {
	var setClauses []string
	var args []any

	if fields.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.SecretName != nil {
		setClauses = append(setClauses, "secret_name = ?")
		args = append(args, *fields.SecretName)
	}
	if fields.Age != nil {
		setClauses = append(setClauses, "age = ?")
		args = append(args, *fields.Age)
	}
	if fields.HashedPassword != nil {
		setClauses = append(setClauses, "hashed_password = ?")
		args = append(args, *fields.HashedPassword)
	}
	if fields.ClearTeam {
		setClauses = append(setClauses, "team_id = NULL")
	} else if fields.TeamID != nil {
		setClauses = append(setClauses, "team_id = ?")
		args = append(args, fields.TeamID.String())
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, toMillis(time.Now().UTC()))

	args = append(args, id.String())

	query := fmt.Sprintf(`
		UPDATE heroes
		SET %s
		WHERE id = ?
		RETURNING %s`,
		strings.Join(setClauses, ", "), heroColumns)

	return r.scanOne(r.db.QueryRowContext(ctx, query, args...))
}

// Delete removes a hero by its UUID and returns the removed hero's name.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM heroes WHERE id = ? RETURNING name`, id.String()).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrHeroNotFound
		}
		return "", fmt.Errorf("deleting hero: %w", err)
	}
	return name, nil
}

// DeleteAll removes every hero.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM heroes`)
	if err != nil {
		return 0, fmt.Errorf("deleting heroes: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted heroes: %w", err)
	}

	return removed, nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]Hero, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing heroes: %w", err)
	}
	defer rows.Close()

	var heroes []Hero
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, err
		}
		heroes = append(heroes, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hero rows: %w", err)
	}

	if heroes == nil {
		heroes = []Hero{}
	}

	return heroes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHero(row rowScanner) (*Hero, error) {
	var (
		h                  Hero
		idStr              string
		age                sql.NullInt64
		teamID             sql.NullString
		createdMs, updated int64
	)
	err := row.Scan(&idStr, &h.Name, &age, &h.SecretName, &h.HashedPassword, &teamID, &createdMs, &updated)
	if err != nil {
		return nil, err
	}

	h.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing hero id: %w", err)
	}
	if age.Valid {
		a := int(age.Int64)
		h.Age = &a
	}
	if teamID.Valid {
		tid, err := uuid.Parse(teamID.String)
		if err != nil {
			return nil, fmt.Errorf("parsing hero team id: %w", err)
		}
		h.TeamID = &tid
	}
	h.CreatedAt = fromMillis(createdMs)
	h.UpdatedAt = fromMillis(updated)

	return &h, nil
}

// scanOne scans a single Hero row. Returns ErrHeroNotFound if no rows.
func (r *SQLiteRepository) scanOne(row *sql.Row) (*Hero, error) {
	h, err := scanHero(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("scanning hero row: %w", err)
	}
	return h, nil
}
