package api

import (
	"encoding/json"
	"time"
)

// Document представляет запись удаленного хранилища документов.
type Document struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Query описывает предикат выборки по одному полю документа.
// Пустой Field означает выборку всей коллекции.
type Query struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// QueryResponse представляет ответ сервера на запрос выборки.
type QueryResponse struct {
	Documents []Document `json:"documents"`
}

// ErrorResponse представляет тело ошибки удаленного хранилища.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
