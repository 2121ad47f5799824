package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// UpdateFields holds the user-updatable team fields. Nil fields are left untouched.
type UpdateFields struct {
	Name         *string
	Headquarters *string
}

// Repository provides CRUD operations on the teams table.
type Repository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Team, error)
	// Delete removes a team and clears team_id on its heroes. It returns
	// the deleted team's name for the confirmation message.
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	// DeleteAll removes every team and returns the number of rows removed.
	DeleteAll(ctx context.Context) (int64, error)
}
