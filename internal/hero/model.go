package hero

import (
	"time"

	"github.com/google/uuid"
)

// Hero represents a row in the heroes table. TeamID is nil for heroes
// that do not belong to a team.
type Hero struct {
	ID             uuid.UUID
	Name           string
	Age            *int
	SecretName     string
	HashedPassword string
	TeamID         *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
