package auth

import "github.com/google/uuid"

// User represents a row in the users table.
type User struct {
	ID             uuid.UUID
	Username       string
	FullName       string
	HashedPassword string
	Disabled       bool
}
