package hero

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTaken is returned when a password would collide with another
// hero's stored password.
var ErrPasswordTaken = errors.New("password already taken")

// Service implements the hero password rules: passwords are stored as
// bcrypt hashes and must be unique across all heroes.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService creates a new hero Service.
func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// HashPassword derives the stored hash for a plaintext password, rejecting
// it with ErrPasswordTaken if another hero already uses the same password.
// When exclude is non-nil that hero's own hash is skipped, so re-submitting
// an unchanged password on update is not a conflict.
func (s *Service) HashPassword(ctx context.Context, password string, exclude *uuid.UUID) (string, error) {
	hashes, err := s.repo.ListPasswordHashes(ctx, exclude)
	if err != nil {
		return "", fmt.Errorf("listing password hashes: %w", err)
	}

	// bcrypt hashes are salted, so duplicates are found by comparing the
	// plaintext against every stored hash.
	for _, h := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(password)) == nil {
			return "", ErrPasswordTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}
