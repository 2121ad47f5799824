package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when the username or password is wrong.
var ErrBadCredentials = errors.New("incorrect username or password")

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// ErrUserDisabled is returned when the token resolves to a disabled user.
var ErrUserDisabled = errors.New("user is disabled")

// Service issues and verifies signed bearer tokens for the users table.
type Service struct {
	repo       Repository
	secret     []byte
	ttl        time.Duration
	bcryptCost int
}

// NewService creates a new auth Service. Tokens are HS256-signed JWTs
// carrying the username as subject.
func NewService(repo Repository, secret string, ttl time.Duration, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcryptCost,
	}
}

// IssueToken verifies the credentials and returns a signed token.
func (s *Service) IssueToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) != nil {
		return "", ErrBadCredentials
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return token, nil
}

// Authenticate verifies a bearer token and resolves it to a user.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.repo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if u.Disabled {
		return nil, ErrUserDisabled
	}

	return u, nil
}

// SeedDefaultUsers creates the built-in demo users if the users table is
// empty: alice (active) and johndoe (disabled).
func (s *Service) SeedDefaultUsers(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}

	if count > 0 {
		return nil
	}

	seeds := []struct {
		username string
		fullName string
		password string
		disabled bool
	}{
		{"alice", "Alice Wonderson", "secret2", false},
		{"johndoe", "John Doe", "secret", true},
	}

	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}

		u := &User{
			Username:       seed.username,
			FullName:       seed.fullName,
			HashedPassword: string(hash),
			Disabled:       seed.disabled,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return fmt.Errorf("creating seed user %q: %w", seed.username, err)
		}

		slog.Info("seeded user", "username", seed.username, "disabled", seed.disabled)
	}

	return nil
}
