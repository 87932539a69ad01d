package models

// Operation is the kind of mutation waiting for replay against the remote store.
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// Valid reports whether the operation is one of CREATE, UPDATE or DELETE.
func (op Operation) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// QueueItem is one pending mutation in the durable queue.
// Очередь хранит не более одной записи на entity id: повторный enqueue
// перезаписывает предыдущую (last-intent-wins).
type QueueItem struct {
	ID         string    `json:"id"`          // ID идентификатор сущности, он же ключ в очереди
	Collection string    `json:"collection"`  // Collection коллекция удаленного хранилища
	Operation  Operation `json:"operation"`   // Operation тип мутации
	Payload    *Entity   `json:"payload"`     // Payload снапшот сущности; nil для DELETE
	EnqueuedAt int64     `json:"enqueued_at"` // EnqueuedAt время постановки в очередь (unix миллисекунды)
	RetryCount int       `json:"retry_count"` // RetryCount количество неудачных попыток replay
}
