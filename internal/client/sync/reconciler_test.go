package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/okonstantinov/wrench/internal/client/api"
	"github.com/okonstantinov/wrench/internal/client/queue"
	"github.com/okonstantinov/wrench/internal/client/storage/boltdb"
	"github.com/okonstantinov/wrench/internal/models"
	"github.com/okonstantinov/wrench/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRig собирает реконсилятор над реальным bolt-бэкендом и моком сервера.
type testRig struct {
	store      *boltdb.Storage
	queue      *queue.Queue
	remote     *httpapi.RemoteStoreMock
	reconciler *Reconciler
}

func newTestRig(t *testing.T, remote *httpapi.RemoteStoreMock) *testRig {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	q := queue.New(store, testLogger())
	r := NewReconciler(remote, store, q, NewNotifier(time.Minute, nil), testLogger(), Config{
		MaxRetries: 3,
		ItemDelay:  -1, // пауза между элементами в тестах не нужна
	})

	return &testRig{store: store, queue: q, remote: remote, reconciler: r}
}

// remoteNotFound возвращает мок пустого сервера, принимающего любые записи.
func remoteNotFound() *httpapi.RemoteStoreMock {
	return &httpapi.RemoteStoreMock{
		GetFunc: func(ctx context.Context, collection, id string) (*api.Document, error) {
			return nil, httpapi.ErrNotFound
		},
		PutFunc: func(ctx context.Context, collection, id string, doc *api.Document) error {
			return nil
		},
		DeleteFunc: func(ctx context.Context, collection, id string) error {
			return nil
		},
	}
}

func enqueueCreate(t *testing.T, rig *testRig, id string) {
	t.Helper()

	entity := &models.Entity{
		ID:        id,
		Payload:   []byte(`{"id":"` + id + `"}`),
		Status:    "new",
		IsOffline: true,
	}
	require.NoError(t, rig.store.PutEntity(context.Background(), "orders", entity))
	require.NoError(t, rig.queue.Enqueue(context.Background(), "orders", models.OperationCreate, id, entity))
}

func TestDrain_EmptyQueue(t *testing.T) {
	rig := newTestRig(t, remoteNotFound())

	stats, err := rig.reconciler.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.SyncStats{}, stats)
}

func TestDrain_ReplaysCreate(t *testing.T) {
	remote := remoteNotFound()
	rig := newTestRig(t, remote)
	ctx := context.Background()

	enqueueCreate(t, rig, "order-1")

	stats, err := rig.reconciler.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.SyncStats{Total: 1, Processed: 1, Success: 1}, stats)

	// Мутация дошла до сервера и подтверждена
	require.Len(t, remote.PutCalls(), 1)
	assert.Equal(t, "orders", remote.PutCalls()[0].Collection)
	assert.Equal(t, "order-1", remote.PutCalls()[0].ID)

	count, err := rig.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Offline-флаг снапшота сброшен
	entity, err := rig.store.GetEntity(ctx, "orders", "order-1")
	require.NoError(t, err)
	assert.False(t, entity.IsOffline)
}

func TestDrain_ReclassifiesCreateAsUpdate(t *testing.T) {
	remote := remoteNotFound()
	// Документ уже существует на сервере
	remote.GetFunc = func(ctx context.Context, collection, id string) (*api.Document, error) {
		return &api.Document{ID: id, Payload: []byte(`{"id":"` + id + `","remote":true}`)}, nil
	}
	rig := newTestRig(t, remote)

	enqueueCreate(t, rig, "order-1")

	stats, err := rig.reconciler.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Success)

	// CREATE стал UPDATE: локальный payload полностью перезаписал серверный
	require.Len(t, remote.PutCalls(), 1)
	assert.JSONEq(t, `{"id":"order-1"}`, string(remote.PutCalls()[0].Doc.Payload))
}

func TestDrain_DeleteOfMissingDocumentSucceeds(t *testing.T) {
	remote := remoteNotFound()
	remote.DeleteFunc = func(ctx context.Context, collection, id string) error {
		return httpapi.ErrNotFound
	}
	rig := newTestRig(t, remote)
	ctx := context.Background()

	require.NoError(t, rig.queue.Enqueue(ctx, "orders", models.OperationDelete, "order-1", nil))

	stats, err := rig.reconciler.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.SyncStats{Total: 1, Processed: 1, Success: 1}, stats)

	count, err := rig.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDrain_TransientFailureBoundedRetry(t *testing.T) {
	remote := remoteNotFound()
	remote.PutFunc = func(ctx context.Context, collection, id string, doc *api.Document) error {
		return &httpapi.TransientError{Err: errors.New("connection refused")}
	}
	rig := newTestRig(t, remote)
	ctx := context.Background()

	enqueueCreate(t, rig, "order-1")

	// Попытки 1 и 2: элемент остается в очереди с растущим счетчиком
	for attempt := 1; attempt <= 2; attempt++ {
		stats, err := rig.reconciler.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Errors)

		items, err := rig.queue.DrainOrdered(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, attempt, items[0].RetryCount)
	}

	// Попытка 3 исчерпывает потолок: элемент abandoned
	stats, err := rig.reconciler.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)

	count, err := rig.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Четвертой попытки не бывает
	assert.Len(t, remote.PutCalls(), 3)

	stats, err = rig.reconciler.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Len(t, remote.PutCalls(), 3)
}

func TestDrain_TerminalFailureAbandonsImmediately(t *testing.T) {
	remote := remoteNotFound()
	remote.PutFunc = func(ctx context.Context, collection, id string, doc *api.Document) error {
		return &httpapi.TerminalError{StatusCode: 422, Message: "validation failed"}
	}
	rig := newTestRig(t, remote)
	ctx := context.Background()

	enqueueCreate(t, rig, "order-1")

	stats, err := rig.reconciler.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)

	// Терминальная ошибка не ретраится
	count, err := rig.queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, remote.PutCalls(), 1)
}

func TestDrain_FailedItemDoesNotStopOthers(t *testing.T) {
	remote := remoteNotFound()
	remote.PutFunc = func(ctx context.Context, collection, id string, doc *api.Document) error {
		if id == "bad" {
			return &httpapi.TerminalError{StatusCode: 400, Message: "rejected"}
		}
		return nil
	}
	rig := newTestRig(t, remote)

	enqueueCreate(t, rig, "bad")
	enqueueCreate(t, rig, "good")

	stats, err := rig.reconciler.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.SyncStats{Total: 2, Processed: 2, Errors: 1, Success: 1}, stats)
}

func TestDrain_ProcessesItemsInEnqueueOrder(t *testing.T) {
	remote := remoteNotFound()
	var order []string
	remote.PutFunc = func(ctx context.Context, collection, id string, doc *api.Document) error {
		order = append(order, id)
		return nil
	}
	rig := newTestRig(t, remote)

	enqueueCreate(t, rig, "first")
	enqueueCreate(t, rig, "second")
	enqueueCreate(t, rig, "third")

	_, err := rig.reconciler.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDrain_SingleFlight(t *testing.T) {
	remote := remoteNotFound()
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	remote.GetFunc = func(ctx context.Context, collection, id string) (*api.Document, error) {
		entered <- struct{}{}
		// Закрытый канал отпускает и все последующие вызовы
		<-release
		return nil, httpapi.ErrNotFound
	}
	rig := newTestRig(t, remote)

	enqueueCreate(t, rig, "order-1")

	done := make(chan error, 1)
	go func() {
		_, err := rig.reconciler.Drain(context.Background())
		done <- err
	}()

	// Ждем пока первый прогон застрянет внутри обработки элемента
	<-entered
	assert.True(t, rig.reconciler.Syncing())

	_, err := rig.reconciler.Drain(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)

	// После завершения прогона движок снова доступен
	assert.False(t, rig.reconciler.Syncing())
	_, err = rig.reconciler.Drain(context.Background())
	require.NoError(t, err)
}

func TestDrain_PublishesStatsPerItem(t *testing.T) {
	remote := remoteNotFound()
	rig := newTestRig(t, remote)

	var published []models.SyncStats
	rig.reconciler.Subscribe(func(stats models.SyncStats) {
		published = append(published, stats)
	})

	enqueueCreate(t, rig, "a")
	enqueueCreate(t, rig, "b")

	_, err := rig.reconciler.Drain(context.Background())
	require.NoError(t, err)

	// По публикации после каждого элемента плюс итоговая
	require.Len(t, published, 3)
	assert.Equal(t, models.SyncStats{Total: 2, Processed: 1, Success: 1}, published[0])
	assert.Equal(t, models.SyncStats{Total: 2, Processed: 2, Success: 2}, published[1])
	assert.Equal(t, published[1], published[2])
}

func TestDrain_RemovesSnapshotAfterDelete(t *testing.T) {
	remote := remoteNotFound()
	rig := newTestRig(t, remote)
	ctx := context.Background()

	entity := &models.Entity{ID: "order-1", Payload: []byte(`{}`), Status: "new"}
	require.NoError(t, rig.store.PutEntity(ctx, "orders", entity))
	require.NoError(t, rig.queue.Enqueue(ctx, "orders", models.OperationDelete, "order-1", nil))

	_, err := rig.reconciler.Drain(ctx)
	require.NoError(t, err)

	_, err = rig.store.GetEntity(ctx, "orders", "order-1")
	assert.Error(t, err)
}

func TestDrain_ContextCancelledBetweenItems(t *testing.T) {
	remote := remoteNotFound()
	rig := newTestRig(t, remote)

	// Включаем паузу между элементами, чтобы было окно для отмены
	rig.reconciler.itemDelay = 50 * time.Millisecond

	enqueueCreate(t, rig, "a")
	enqueueCreate(t, rig, "b")

	ctx, cancel := context.WithCancel(context.Background())
	remote.PutFunc = func(ctx context.Context, collection, id string, doc *api.Document) error {
		cancel() // отменяем после первого элемента
		return nil
	}

	stats, err := rig.reconciler.Drain(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.Processed)
}
