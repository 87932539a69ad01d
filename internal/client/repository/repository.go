package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	httpapi "github.com/okonstantinov/wrench/internal/client/api"
	"github.com/okonstantinov/wrench/internal/client/queue"
	"github.com/okonstantinov/wrench/internal/client/storage"
	"github.com/okonstantinov/wrench/internal/models"
	"github.com/okonstantinov/wrench/internal/validation"
	"github.com/okonstantinov/wrench/pkg/api"
)

// ErrOrderNotFound indicates that the order exists neither remotely nor locally
var ErrOrderNotFound = errors.New("order not found")

const (
	collectionOrders      = "orders"
	collectionAssignments = "assignments"
)

// Orders определяет доменный фасад CRUD для заказов.
// Запись всегда проходит через локальное хранилище и завершается успехом
// независимо от доступности сервера; чтение предпочитает сервер и падает
// обратно на локальный снапшот.
type Orders interface {
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetAll(ctx context.Context) ([]*models.Order, error)
	GetByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error)
	PendingOperationsCount(ctx context.Context) (int, error)
}

// StatusProvider is the pull accessor of the network monitor
type StatusProvider interface {
	Status() models.NetworkStatus
}

// service handles order CRUD on top of the sync engine
type service struct {
	entities storage.EntityStorage
	queue    *queue.Queue
	remote   httpapi.RemoteStore
	network  StatusProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new orders repository
func NewService(
	entities storage.EntityStorage,
	q *queue.Queue,
	remote httpapi.RemoteStore,
	network StatusProvider,
	logger *slog.Logger,
) Orders {
	return &service{
		entities: entities,
		queue:    q,
		remote:   remote,
		network:  network,
		logger:   logger,
		now:      time.Now,
	}
}

// Create persists a new order locally and replicates it to the remote store
// directly or through the mutation queue.
func (s *service) Create(ctx context.Context, order *models.Order) error {
	now := s.now()

	// Генерируем ID если не задан
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusNew
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	if err := validation.ValidateOrder(order); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	entity, err := encodeOrder(order)
	if err != nil {
		return err
	}

	// Локальная запись первична: если она не удалась, операция потеряна
	// и об этом обязан узнать вызывающий
	if err := s.entities.PutEntity(ctx, collectionOrders, entity); err != nil {
		return fmt.Errorf("failed to save order locally: %w", err)
	}

	return s.writeThrough(ctx, models.OperationCreate, entity)
}

// Update replaces the order snapshot and replicates the change
func (s *service) Update(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		return fmt.Errorf("order id is empty")
	}
	order.UpdatedAt = s.now()

	if err := validation.ValidateOrder(order); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	entity, err := encodeOrder(order)
	if err != nil {
		return err
	}

	if err := s.entities.PutEntity(ctx, collectionOrders, entity); err != nil {
		return fmt.Errorf("failed to save order locally: %w", err)
	}

	return s.writeThrough(ctx, models.OperationUpdate, entity)
}

// Delete removes the order locally, releases its assignment lock and
// replicates the deletion.
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("order id is empty")
	}

	// Снапшот нужен, чтобы узнать, держит ли заказ assignment lock
	var assignedTo string
	if entity, err := s.entities.GetEntity(ctx, collectionOrders, id); err == nil {
		if order, decErr := decodeOrder(entity.Payload); decErr == nil {
			assignedTo = order.AssignedTo
		}
	}

	if err := s.entities.DeleteEntity(ctx, collectionOrders, id); err != nil {
		return fmt.Errorf("failed to delete order locally: %w", err)
	}

	// Освобождение assignment lock не должно блокировать удаление заказа
	if assignedTo != "" {
		s.releaseAssignment(ctx, assignedTo)
	}

	return s.writeThrough(ctx, models.OperationDelete, &models.Entity{ID: id})
}

// GetByID returns the order, preferring the remote store when online
func (s *service) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if s.network.Status().Online() {
		doc, err := s.remote.Get(ctx, collectionOrders, id)
		if err == nil {
			s.refreshSnapshot(ctx, doc)
			return decodeOrder(doc.Payload)
		}
		if !httpapi.IsNotFound(err) {
			s.logger.Warn("remote read failed, falling back to local store",
				"order_id", id,
				"error", err)
		}
		// Not found на сервере не финален: локально может жить
		// еще не синхронизированная запись
	}

	entity, err := s.entities.GetEntity(ctx, collectionOrders, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order locally: %w", err)
	}

	return decodeOrder(entity.Payload)
}

// GetAll returns all orders.
// В online-режиме список приходит с сервера и дополняется локальными
// записями, которые туда еще не доехали.
func (s *service) GetAll(ctx context.Context) ([]*models.Order, error) {
	if s.network.Status().Online() {
		docs, err := s.remote.Query(ctx, collectionOrders, api.Query{})
		if err == nil {
			return s.mergeRemoteList(ctx, docs)
		}
		s.logger.Warn("remote list failed, falling back to local store", "error", err)
	}

	entities, err := s.entities.GetAllEntities(ctx, collectionOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders locally: %w", err)
	}

	return decodeOrders(entities)
}

// GetByStatus returns orders in the given lifecycle stage.
// Обслуживается локальным статусным индексом, полного скана нет.
func (s *service) GetByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	entities, err := s.entities.GetEntitiesByStatus(ctx, collectionOrders, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by status: %w", err)
	}

	return decodeOrders(entities)
}

// PendingOperationsCount returns the number of mutations waiting for replay
func (s *service) PendingOperationsCount(ctx context.Context) (int, error) {
	return s.queue.PendingCount(ctx)
}

// writeThrough пытается записать напрямую на сервер и при любой неудаче
// откладывает мутацию в очередь. Обе ветки успешны для вызывающего:
// данные durable локально.
func (s *service) writeThrough(ctx context.Context, op models.Operation, entity *models.Entity) error {
	if s.network.Status().Online() {
		var err error
		switch op {
		case models.OperationDelete:
			err = s.remote.Delete(ctx, collectionOrders, entity.ID)
			if httpapi.IsNotFound(err) {
				err = nil
			}
		default:
			err = s.remote.Put(ctx, collectionOrders, entity.ID, &api.Document{
				ID:        entity.ID,
				Status:    entity.Status,
				Payload:   entity.Payload,
				UpdatedAt: entity.LastModifiedAt,
			})
		}

		if err == nil {
			if op != models.OperationDelete {
				s.markSynced(ctx, entity)
			}
			return nil
		}

		s.logger.Warn("remote write failed, queueing mutation",
			"entity_id", entity.ID,
			"operation", op,
			"error", err)
	}

	var payload *models.Entity
	if op != models.OperationDelete {
		offline := *entity
		offline.IsOffline = true
		payload = &offline
	}

	if err := s.queue.Enqueue(ctx, collectionOrders, op, entity.ID, payload); err != nil {
		return fmt.Errorf("failed to queue mutation: %w", err)
	}

	return nil
}

// releaseAssignment освобождает эксклюзивное назначение сотрудника.
// Best-effort: при недоступности сервера удаление лока уходит в очередь
// и повторяется вместе с остальными мутациями.
func (s *service) releaseAssignment(ctx context.Context, employeeID string) {
	if s.network.Status().Online() {
		err := s.remote.Delete(ctx, collectionAssignments, employeeID)
		if err == nil || httpapi.IsNotFound(err) {
			return
		}
		s.logger.Warn("failed to release assignment, queueing",
			"employee_id", employeeID,
			"error", err)
	}

	if err := s.queue.Enqueue(ctx, collectionAssignments, models.OperationDelete, employeeID, nil); err != nil {
		s.logger.Warn("failed to queue assignment release",
			"employee_id", employeeID,
			"error", err)
	}
}

// markSynced сбрасывает offline-флаг снапшота после подтвержденной записи.
func (s *service) markSynced(ctx context.Context, entity *models.Entity) {
	synced := *entity
	synced.IsOffline = false
	if err := s.entities.PutEntity(ctx, collectionOrders, &synced); err != nil {
		s.logger.Warn("failed to clear offline flag", "entity_id", entity.ID, "error", err)
	}
}

// refreshSnapshot оппортунистически обновляет локальный кэш серверным документом.
func (s *service) refreshSnapshot(ctx context.Context, doc *api.Document) {
	entity := &models.Entity{
		ID:             doc.ID,
		Payload:        doc.Payload,
		Status:         doc.Status,
		LastModifiedAt: doc.UpdatedAt,
		IsOffline:      false,
	}
	if err := s.entities.PutEntity(ctx, collectionOrders, entity); err != nil {
		s.logger.Warn("failed to refresh local snapshot", "entity_id", doc.ID, "error", err)
	}
}

// mergeRemoteList обновляет кэш серверным списком и добавляет к результату
// локальные записи, еще не существующие на сервере.
func (s *service) mergeRemoteList(ctx context.Context, docs []api.Document) ([]*models.Order, error) {
	orders := make([]*models.Order, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))

	for i := range docs {
		doc := &docs[i]
		s.refreshSnapshot(ctx, doc)

		order, err := decodeOrder(doc.Payload)
		if err != nil {
			s.logger.Warn("skipping malformed remote document", "entity_id", doc.ID, "error", err)
			continue
		}
		orders = append(orders, order)
		seen[doc.ID] = struct{}{}
	}

	entities, err := s.entities.GetAllEntities(ctx, collectionOrders)
	if err != nil {
		s.logger.Warn("failed to merge local-only orders", "error", err)
	} else {
		for _, entity := range entities {
			if _, ok := seen[entity.ID]; ok || !entity.IsOffline {
				continue
			}
			order, decErr := decodeOrder(entity.Payload)
			if decErr != nil {
				continue
			}
			orders = append(orders, order)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].UpdatedAt.After(orders[j].UpdatedAt)
	})

	return orders, nil
}

// encodeOrder упаковывает заказ в снапшот локального хранилища.
func encodeOrder(order *models.Order) (*models.Entity, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	return &models.Entity{
		ID:             order.ID,
		Payload:        payload,
		Status:         string(order.Status),
		LastModifiedAt: order.UpdatedAt,
		IsOffline:      true,
	}, nil
}

// decodeOrder распаковывает заказ; здесь же сериализованные даты
// возвращаются к типизированному виду.
func decodeOrder(payload json.RawMessage) (*models.Order, error) {
	var order models.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

func decodeOrders(entities []*models.Entity) ([]*models.Order, error) {
	orders := make([]*models.Order, 0, len(entities))
	for _, entity := range entities {
		order, err := decodeOrder(entity.Payload)
		if err != nil {
			// Пропускаем поврежденные записи
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}
