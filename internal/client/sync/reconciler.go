package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpapi "github.com/okonstantinov/wrench/internal/client/api"
	"github.com/okonstantinov/wrench/internal/client/queue"
	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
	"github.com/okonstantinov/wrench/pkg/api"
)

// ErrSyncInProgress is returned by Drain when a pass is already in flight.
// Вызывающие трактуют его как no-op, а не как сбой.
var ErrSyncInProgress = errors.New("sync already in progress")

const (
	defaultMaxRetries = 3
	defaultItemDelay  = 100 * time.Millisecond

	notifySuccess = "sync_success"
	notifyErrors  = "sync_errors"
)

// Config tunes the reconciler; zero values take defaults.
type Config struct {
	// MaxRetries is the per-item attempt ceiling before the item is abandoned
	MaxRetries int
	// ItemDelay is the pause between queue items, keeps the UI responsive
	// and respects remote rate limits. Zero takes the default, negative
	// disables the pause.
	ItemDelay time.Duration
}

// Reconciler drains the mutation queue against the remote store:
// не более одного прогона одновременно, элементы строго по порядку,
// конфликты существования разрешаются реклассификацией CREATE -> UPDATE.
type Reconciler struct {
	remote   httpapi.RemoteStore
	entities storage.EntityStorage
	queue    *queue.Queue
	notifier *Notifier
	logger   *slog.Logger

	maxRetries int
	itemDelay  time.Duration

	mu        sync.Mutex
	syncing   bool
	listeners []func(models.SyncStats)
}

// NewReconciler creates a new sync reconciler
func NewReconciler(
	remote httpapi.RemoteStore,
	entities storage.EntityStorage,
	q *queue.Queue,
	notifier *Notifier,
	logger *slog.Logger,
	cfg Config,
) *Reconciler {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.ItemDelay == 0 {
		cfg.ItemDelay = defaultItemDelay
	}

	return &Reconciler{
		remote:     remote,
		entities:   entities,
		queue:      q,
		notifier:   notifier,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		itemDelay:  cfg.ItemDelay,
	}
}

// Subscribe registers a listener for per-item and end-of-run stats
func (r *Reconciler) Subscribe(fn func(models.SyncStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Syncing reports whether a pass is currently in flight
func (r *Reconciler) Syncing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncing
}

// Drain performs one reconciliation pass over the pending queue.
// Повторный вызов во время работающего прогона возвращает ErrSyncInProgress.
// Ошибка одного элемента не прерывает обработку остальных.
func (r *Reconciler) Drain(ctx context.Context) (*models.SyncStats, error) {
	r.mu.Lock()
	if r.syncing {
		r.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	r.syncing = true
	r.mu.Unlock()

	// Сбрасываем флаг даже при панике, иначе движок навсегда
	// останется "в синхронизации"
	defer func() {
		r.mu.Lock()
		r.syncing = false
		r.mu.Unlock()
	}()

	items, err := r.queue.DrainOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to drain queue: %w", err)
	}

	stats := models.SyncStats{Total: len(items)}
	r.logger.Info("reconciliation started", "pending", stats.Total)

	for i, item := range items {
		// Пауза между элементами, кроме первого
		if i > 0 && r.itemDelay > 0 {
			select {
			case <-ctx.Done():
				return &stats, ctx.Err()
			case <-time.After(r.itemDelay):
			}
		}

		if err := r.processItem(ctx, item); err != nil {
			stats.Errors++
			r.logger.Warn("queue item failed",
				"entity_id", item.ID,
				"operation", item.Operation,
				"retry_count", item.RetryCount,
				"error", err)
		} else {
			stats.Success++
		}
		stats.Processed++

		r.publish(stats)
	}

	r.publish(stats)
	r.logger.Info("reconciliation completed",
		"total", stats.Total,
		"success", stats.Success,
		"errors", stats.Errors)

	// Итоговые уведомления независимы: за один прогон могут уйти оба
	if stats.Success > 0 {
		r.notifier.Notify(notifySuccess,
			fmt.Sprintf("Synchronized %d change(s) with the server", stats.Success))
	}
	if stats.Errors > 0 {
		r.notifier.Notify(notifyErrors,
			fmt.Sprintf("Failed to synchronize %d change(s)", stats.Errors))
	}

	return &stats, nil
}

// processItem replays one queued mutation against the remote store.
// Возвращенная ошибка означает, что элемент не был подтвержден; решение
// retry/abandon уже принято внутри.
func (r *Reconciler) processItem(ctx context.Context, item *models.QueueItem) error {
	op := item.Operation

	// Проверка существования на сервере
	exists := false
	if _, err := r.remote.Get(ctx, item.Collection, item.ID); err != nil {
		if !httpapi.IsNotFound(err) {
			return r.handleFailure(ctx, item, err)
		}
	} else {
		exists = true
	}

	// Единственное правило разрешения конфликтов: если документ уже
	// существует, локальный CREATE становится UPDATE, а локальный payload
	// полностью перезаписывает серверный документ
	if op == models.OperationCreate && exists {
		r.logger.Info("conflict: document already exists, reclassifying CREATE as UPDATE",
			"entity_id", item.ID,
			"collection", item.Collection)
		op = models.OperationUpdate
	}

	var err error
	switch op {
	case models.OperationCreate, models.OperationUpdate:
		err = r.remote.Put(ctx, item.Collection, item.ID, documentFromEntity(item.Payload))
	case models.OperationDelete:
		err = r.remote.Delete(ctx, item.Collection, item.ID)
		// Повторный replay удаления уже отсутствующего документа — успех
		if httpapi.IsNotFound(err) {
			err = nil
		}
	default:
		err = &httpapi.TerminalError{Message: fmt.Sprintf("unknown operation %q", item.Operation)}
	}

	if err != nil {
		return r.handleFailure(ctx, item, err)
	}

	if ackErr := r.queue.Ack(ctx, item.ID); ackErr != nil {
		return fmt.Errorf("failed to ack item: %w", ackErr)
	}

	switch {
	case item.Operation == models.OperationDelete:
		// Снапшот удаленной сущности больше не нужен
		if delErr := r.entities.DeleteEntity(ctx, item.Collection, item.ID); delErr != nil {
			r.logger.Warn("failed to drop local snapshot after remote delete",
				"entity_id", item.ID,
				"error", delErr)
		}
	case item.Payload != nil && item.Payload.IsOffline:
		// Запись теперь существует на сервере
		synced := *item.Payload
		synced.IsOffline = false
		if putErr := r.entities.PutEntity(ctx, item.Collection, &synced); putErr != nil {
			r.logger.Warn("failed to clear offline flag on snapshot",
				"entity_id", item.ID,
				"error", putErr)
		}
	}

	return nil
}

// handleFailure classifies the error and decides between retry and abandon.
func (r *Reconciler) handleFailure(ctx context.Context, item *models.QueueItem, cause error) error {
	if httpapi.IsTransient(cause) && item.RetryCount+1 < r.maxRetries {
		if err := r.queue.Retry(ctx, item); err != nil {
			return fmt.Errorf("failed to schedule retry: %w (original: %v)", err, cause)
		}
		return fmt.Errorf("transient failure, will retry: %w", cause)
	}

	// Терминальная ошибка или исчерпан лимит попыток
	if err := r.queue.Abandon(ctx, item); err != nil {
		return fmt.Errorf("failed to abandon item: %w (original: %v)", err, cause)
	}
	return fmt.Errorf("mutation abandoned: %w", cause)
}

// publish рассылает статистику всем подписчикам.
func (r *Reconciler) publish(stats models.SyncStats) {
	r.mu.Lock()
	listeners := make([]func(models.SyncStats), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(stats)
	}
}

// documentFromEntity переводит локальный снапшот в документ удаленного хранилища.
func documentFromEntity(entity *models.Entity) *api.Document {
	if entity == nil {
		return nil
	}
	return &api.Document{
		ID:        entity.ID,
		Status:    entity.Status,
		Payload:   entity.Payload,
		UpdatedAt: entity.LastModifiedAt,
	}
}
