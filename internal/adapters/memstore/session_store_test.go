package memstore

import (
	"context"
	"testing"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() ports.SessionStore {
	logger := zerolog.Nop()
	return NewSessionStore(&logger)
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, domain.StepChat, created.Step)
	assert.False(t, created.Busy)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Mutating the returned copy must not leak into the store.
	got.EmploymentType = "salaried"
	again, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, again.EmploymentType)
}

func TestSessionStore_GetUnknown(t *testing.T) {
	store := newTestStore()

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_AcquireBlocksSecondCaller(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	first, err := store.Acquire(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = store.Acquire(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrSessionBusy)

	// Release frees the session for the next request.
	require.NoError(t, store.Release(ctx, first))

	second, err := store.Acquire(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, second.ID)
}

func TestSessionStore_ReleasePersistsMutations(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	working, err := store.Acquire(ctx, created.ID)
	require.NoError(t, err)

	income := 42000.0
	working.EmploymentType = "freelancer"
	working.MonthlyIncome = &income
	working.Step = domain.StepAwaitingFace
	require.NoError(t, store.Release(ctx, working))

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "freelancer", got.EmploymentType)
	require.NotNil(t, got.MonthlyIncome)
	assert.Equal(t, income, *got.MonthlyIncome)
	assert.Equal(t, domain.StepAwaitingFace, got.Step)
	assert.False(t, got.Busy)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestSessionStore_ReleaseAfterDeleteDropsResult(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	working, err := store.Acquire(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	// The late write-back is a no-op, not an error, and must not
	// resurrect the closed session.
	working.EmploymentType = "student"
	require.NoError(t, store.Release(ctx, working))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_DeleteUnknown(t *testing.T) {
	store := newTestStore()

	err := store.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
