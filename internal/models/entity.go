package models

import (
	"encoding/json"
	"time"
)

// Entity is an immutable local snapshot of a domain record.
// Every mutation replaces the whole snapshot; there is no partial patching
// at this layer.
type Entity struct {
	ID             string          `json:"id"`               // ID идентификатор записи, стабильный между offline и online
	Payload        json.RawMessage `json:"payload"`          // Payload доменные данные в JSON
	Status         string          `json:"status"`           // Status статусное поле для вторичного индекса
	LastModifiedAt time.Time       `json:"last_modified_at"` // LastModifiedAt локальное время изменения (не авторитативное)
	IsOffline      bool            `json:"is_offline"`       // IsOffline true если локальная копия может еще не существовать на сервере
}
