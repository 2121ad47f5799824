package team_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhq/roster/internal/hero"
	"github.com/rosterhq/roster/internal/store"
	"github.com/rosterhq/roster/internal/team"
)

func setupTeamRepo(t *testing.T) (team.Repository, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return team.NewRepository(st.DB()), st
}

// --- Create / Get Tests ---

func TestCreate_Success(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}

	err := repo.Create(ctx, tm)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.UUID{}, tm.ID)
	assert.False(t, tm.CreatedAt.IsZero())
	assert.Equal(t, tm.CreatedAt, tm.UpdatedAt)
}

func TestGetByID_RoundTrip(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))

	got, err := repo.GetByID(ctx, tm.ID)
	require.NoError(t, err)

	assert.Equal(t, tm.ID, got.ID)
	assert.Equal(t, "Avengers", got.Name)
	assert.Equal(t, "New York", got.Headquarters)
	assert.Equal(t, tm.CreatedAt, got.CreatedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _ := setupTeamRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, team.ErrTeamNotFound)
}

// --- List Tests ---

func TestList_Empty(t *testing.T) {
	repo, _ := setupTeamRepo(t)

	teams, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Len(t, teams, 0)
}

func TestList_OrderedByCreation(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	first := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(2 * time.Millisecond) // created_at has millisecond precision
	second := &team.Team{Name: "X-Force", Headquarters: "Sister Margaret's Bar"}
	require.NoError(t, repo.Create(ctx, second))

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, first.ID, teams[0].ID)
	assert.Equal(t, second.ID, teams[1].ID)
}

// --- Update Tests ---

func TestUpdate_PartialFields(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))

	name := "New Avengers"
	got, err := repo.Update(ctx, tm.ID, team.UpdateFields{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "New Avengers", got.Name)
	assert.Equal(t, "New York", got.Headquarters, "unset fields must be left untouched")
}

func TestUpdate_NoFields(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))

	got, err := repo.Update(ctx, tm.ID, team.UpdateFields{})
	require.NoError(t, err)
	assert.Equal(t, tm.UpdatedAt, got.UpdatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := setupTeamRepo(t)

	name := "Nobody"
	_, err := repo.Update(context.Background(), uuid.New(), team.UpdateFields{Name: &name})
	assert.ErrorIs(t, err, team.ErrTeamNotFound)
}

// --- Delete Tests ---

func TestDelete_ReturnsName(t *testing.T) {
	repo, _ := setupTeamRepo(t)
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))

	name, err := repo.Delete(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Avengers", name)

	_, err = repo.GetByID(ctx, tm.ID)
	assert.ErrorIs(t, err, team.ErrTeamNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	repo, _ := setupTeamRepo(t)

	_, err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, team.ErrTeamNotFound)
}

func TestDelete_ClearsHeroTeamID(t *testing.T) {
	repo, st := setupTeamRepo(t)
	heroRepo := hero.NewRepository(st.DB())
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))

	member := &hero.Hero{
		Name:           "Deadpond",
		SecretName:     "Dive Wilson",
		HashedPassword: "hash-1",
		TeamID:         &tm.ID,
	}
	require.NoError(t, heroRepo.Create(ctx, member))

	_, err := repo.Delete(ctx, tm.ID)
	require.NoError(t, err)

	got, err := heroRepo.GetByID(ctx, member.ID)
	require.NoError(t, err, "hero must survive its team's deletion")
	assert.Nil(t, got.TeamID)
}

func TestDeleteAll(t *testing.T) {
	repo, st := setupTeamRepo(t)
	heroRepo := hero.NewRepository(st.DB())
	ctx := context.Background()

	tm := &team.Team{Name: "Avengers", Headquarters: "New York"}
	require.NoError(t, repo.Create(ctx, tm))
	require.NoError(t, repo.Create(ctx, &team.Team{Name: "X-Force", Headquarters: "Bar"}))

	member := &hero.Hero{
		Name:           "Deadpond",
		SecretName:     "Dive Wilson",
		HashedPassword: "hash-1",
		TeamID:         &tm.ID,
	}
	require.NoError(t, heroRepo.Create(ctx, member))

	removed, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 0)

	got, err := heroRepo.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TeamID)
}
