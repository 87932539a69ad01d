package queue

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonstantinov/wrench/internal/client/storage/boltdb"
	"github.com/okonstantinov/wrench/internal/models"
)

// newTestQueue строит очередь над реальным bolt-бэкендом. Часы подменены на
// монотонные, чтобы порядок постановки был детерминированным.
func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "queue-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	clk := &clock{now: time.UnixMilli(1700000000000)}
	q := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	q.now = clk.Now

	return q
}

// clock выдает монотонно растущее время c шагом в миллисекунду.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func payloadFor(id string) *models.Entity {
	return &models.Entity{ID: id, Payload: []byte(`{}`), Status: "new"}
}

func TestEnqueue_Validation(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	err := q.Enqueue(ctx, "orders", models.Operation("RENAME"), "a", payloadFor("a"))
	assert.ErrorContains(t, err, "unknown operation")

	err = q.Enqueue(ctx, "orders", models.OperationCreate, "", payloadFor(""))
	assert.ErrorContains(t, err, "entity id is empty")
}

func TestDrainOrdered_FIFO(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))
	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "b", payloadFor("b")))
	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationDelete, "c", nil))

	items, err := q.DrainOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Порядок постановки сохраняется между разными id
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
	assert.Less(t, items[0].EnqueuedAt, items[1].EnqueuedAt)
	assert.Less(t, items[1].EnqueuedAt, items[2].EnqueuedAt)
}

func TestEnqueue_LastIntentWins(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))
	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationUpdate, "a", payloadFor("a")))
	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationDelete, "a", nil))

	items, err := q.DrainOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// В очереди остается только последнее намерение
	assert.Equal(t, models.OperationDelete, items[0].Operation)
	assert.Nil(t, items[0].Payload)
}

func TestAck_RemovesItem(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))
	require.NoError(t, q.Ack(ctx, "a"))

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRetry_IncrementsCounterAndKeepsPosition(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))
	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "b", payloadFor("b")))

	items, err := q.DrainOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	first := items[0]

	require.NoError(t, q.Retry(ctx, first))

	items, err = q.DrainOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// EnqueuedAt сохранен: элемент не ушел в конец очереди
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, first.EnqueuedAt, items[0].EnqueuedAt)
	assert.Equal(t, 1, items[0].RetryCount)

	// Исходный элемент не мутирован
	assert.Equal(t, 0, first.RetryCount)
}

func TestAbandon_RemovesItem(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))

	items, err := q.DrainOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, q.Abandon(ctx, items[0]))

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPendingCount(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	count, err := q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, q.Enqueue(ctx, "orders", models.OperationCreate, "a", payloadFor("a")))
	require.NoError(t, q.Enqueue(ctx, "assignments", models.OperationDelete, "emp-1", nil))

	count, err = q.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
