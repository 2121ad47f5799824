package hero

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrHeroNotFound is returned when a hero record is not found.
var ErrHeroNotFound = errors.New("hero not found")

// UpdateFields holds the user-updatable hero fields. Nil fields are left
// untouched. ClearTeam removes the team assignment and takes precedence
// over TeamID.
type UpdateFields struct {
	Name           *string
	SecretName     *string
	Age            *int
	HashedPassword *string
	TeamID         *uuid.UUID
	ClearTeam      bool
}

// Repository provides CRUD operations on the heroes table.
type Repository interface {
	Create(ctx context.Context, hero *Hero) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hero, error)
	List(ctx context.Context) ([]Hero, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Hero, error)
	// ListPasswordHashes returns every stored password hash, skipping the
	// hero with the given ID if exclude is non-nil.
	ListPasswordHashes(ctx context.Context, exclude *uuid.UUID) ([]string, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Hero, error)
	// Delete removes a hero and returns its name for the confirmation message.
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	// DeleteAll removes every hero and returns the number of rows removed.
	DeleteAll(ctx context.Context) (int64, error)
}
