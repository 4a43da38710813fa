package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-graph/backend/internal/domain"
	"github.com/pkordes/travel-graph/backend/internal/repo"
	"github.com/pkordes/travel-graph/backend/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// DocumentRepo backed by that transaction. The transaction is rolled back
// when the test finishes, giving free per-test isolation.
func newTestRepo(t *testing.T) repo.DocumentRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewDocumentRepo(tx)
}

const graphDoc = `{"user_id":"u1","common_trips":[],"common_places":[]}`

func TestDocumentRepo_PutGet(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "common-trips", []byte(graphDoc)))

	got, err := r.Get(ctx, "common-trips")

	require.NoError(t, err)
	assert.JSONEq(t, graphDoc, string(got))
}

func TestDocumentRepo_Get_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Get(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentRepo_Put_Replaces(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "common-trips", []byte(`{"user_id":"old"}`)))
	first, err := r.Stat(ctx, "common-trips")
	require.NoError(t, err)

	require.NoError(t, r.Put(ctx, "common-trips", []byte(graphDoc)))
	second, err := r.Stat(ctx, "common-trips")
	require.NoError(t, err)

	assert.Equal(t, "common-trips", second.Key)
	assert.JSONEq(t, graphDoc, string(second.Body))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt), "updated_at must not go backwards")
}

// TestDocumentRepo_Put_StoresUnparseableBody checks that the store keeps
// whatever it is given; parsing is the graph service's job.
func TestDocumentRepo_Put_StoresUnparseableBody(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "broken", []byte(`{"common_trips": [`)))

	got, err := r.Get(ctx, "broken")
	require.NoError(t, err)
	assert.Equal(t, `{"common_trips": [`, string(got))
}

func TestDocumentRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "common-trips", []byte(graphDoc)))
	require.NoError(t, r.Delete(ctx, "common-trips"))

	_, err := r.Get(ctx, "common-trips")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "common-trips"), domain.ErrNotFound)
}
