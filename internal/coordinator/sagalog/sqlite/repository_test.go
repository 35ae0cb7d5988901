package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "workflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func entry(sagaID string, status sagalog.Status, step string, at time.Time, errs ...string) *sagalog.SagaLog {
	e := sagalog.NewEntry(context.Background(), sagaID, status, step, "", errs)
	e.UpdatedAt = at
	return e
}

func TestRepository_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	started := entry("o1", sagalog.StatusStarted, "", base)
	started.Payload = `{"customerId":"c1"}`
	require.NoError(t, repo.Save(ctx, started))
	require.NoError(t, repo.Save(ctx, entry("o1", sagalog.StatusStepDone, "Create_Order_Step", base.Add(time.Millisecond))))
	require.NoError(t, repo.Save(ctx, entry("o1", sagalog.StatusFailed, "Inventory_Stock_Step", base.Add(2*time.Millisecond), "out of stock")))

	latest, err := repo.GetLatest(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusFailed, latest.Status)
	assert.Equal(t, "Inventory_Stock_Step", latest.CurrentStep)
	assert.Equal(t, []string{"out of stock"}, latest.Errors())
	assert.True(t, latest.UpdatedAt.Equal(base.Add(2*time.Millisecond)))

	history, err := repo.History(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, sagalog.StatusStarted, history[0].Status)
	assert.Equal(t, `{"customerId":"c1"}`, history[0].Payload)
	assert.Empty(t, history[1].Payload)
}

func TestRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	_, err := repo.GetLatest(ctx, "missing")
	assert.ErrorIs(t, err, sagalog.ErrNotFound)

	_, err = repo.History(ctx, "missing")
	assert.ErrorIs(t, err, sagalog.ErrNotFound)
}

func TestRepository_Failed(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, entry("ok", sagalog.StatusStarted, "", base)))
	require.NoError(t, repo.Save(ctx, entry("ok", sagalog.StatusCompleted, "", base.Add(time.Second))))
	require.NoError(t, repo.Save(ctx, entry("stuck", sagalog.StatusStarted, "", base)))
	require.NoError(t, repo.Save(ctx, entry("stuck", sagalog.StatusFailed, "Confirm_Order_Step", base.Add(time.Second), "db down")))

	failed, err := repo.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "stuck", failed[0].SagaID)
}
