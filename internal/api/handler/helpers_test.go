package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/roster/internal/hero"
	"github.com/rosterhq/roster/internal/team"
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

// --- Mock Team Repository ---

type mockTeamRepo struct {
	createFn    func(ctx context.Context, t *team.Team) error
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*team.Team, error)
	listFn      func(ctx context.Context) ([]team.Team, error)
	updateFn    func(ctx context.Context, id uuid.UUID, fields team.UpdateFields) (*team.Team, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) (string, error)
	deleteAllFn func(ctx context.Context) (int64, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, t *team.Team) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) List(ctx context.Context) ([]team.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) Update(ctx context.Context, id uuid.UUID, fields team.UpdateFields) (*team.Team, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return "", team.ErrTeamNotFound
}

func (m *mockTeamRepo) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

// --- Mock Hero Repository ---

type mockHeroRepo struct {
	createFn     func(ctx context.Context, h *hero.Hero) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*hero.Hero, error)
	listFn       func(ctx context.Context) ([]hero.Hero, error)
	listByTeamFn func(ctx context.Context, teamID uuid.UUID) ([]hero.Hero, error)
	listHashesFn func(ctx context.Context, exclude *uuid.UUID) ([]string, error)
	updateFn     func(ctx context.Context, id uuid.UUID, fields hero.UpdateFields) (*hero.Hero, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) (string, error)
	deleteAllFn  func(ctx context.Context) (int64, error)
}

func (m *mockHeroRepo) Create(ctx context.Context, h *hero.Hero) error {
	if m.createFn != nil {
		return m.createFn(ctx, h)
	}
	h.ID = uuid.New()
	h.CreatedAt = time.Now().UTC()
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockHeroRepo) GetByID(ctx context.Context, id uuid.UUID) (*hero.Hero, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, hero.ErrHeroNotFound
}

func (m *mockHeroRepo) List(ctx context.Context) ([]hero.Hero, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []hero.Hero{}, nil
}

func (m *mockHeroRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]hero.Hero, error) {
	if m.listByTeamFn != nil {
		return m.listByTeamFn(ctx, teamID)
	}
	return []hero.Hero{}, nil
}

func (m *mockHeroRepo) ListPasswordHashes(ctx context.Context, exclude *uuid.UUID) ([]string, error) {
	if m.listHashesFn != nil {
		return m.listHashesFn(ctx, exclude)
	}
	return nil, nil
}

func (m *mockHeroRepo) Update(ctx context.Context, id uuid.UUID, fields hero.UpdateFields) (*hero.Hero, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, hero.ErrHeroNotFound
}

func (m *mockHeroRepo) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return "", hero.ErrHeroNotFound
}

func (m *mockHeroRepo) DeleteAll(ctx context.Context) (int64, error) {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx)
	}
	return 0, nil
}

func sampleTeam(id uuid.UUID) *team.Team {
	now := time.Now().UTC()
	return &team.Team{
		ID:           id,
		Name:         "Avengers",
		Headquarters: "New York",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sampleHero(id uuid.UUID, teamID *uuid.UUID) *hero.Hero {
	now := time.Now().UTC()
	age := 28
	return &hero.Hero{
		ID:             id,
		Name:           "Deadpond",
		Age:            &age,
		SecretName:     "Dive Wilson",
		HashedPassword: "$2a$04$notarealhash",
		TeamID:         teamID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
