package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonstantinov/wrench/pkg/api"
)

func TestGet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/collections/orders/documents/order-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.Document{
			ID:      "order-1",
			Status:  "new",
			Payload: json.RawMessage(`{"id":"order-1"}`),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	doc, err := client.Get(context.Background(), "orders", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", doc.ID)
	assert.Equal(t, "new", doc.Status)
}

func TestGet_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Get(context.Background(), "orders", "missing")
	assert.True(t, IsNotFound(err))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		isTransient bool
		isTerminal  bool
	}{
		{name: "server error is transient", statusCode: 500, isTransient: true},
		{name: "bad gateway is transient", statusCode: 502, isTransient: true},
		{name: "request timeout is transient", statusCode: 408, isTransient: true},
		{name: "too many requests is transient", statusCode: 429, isTransient: true},
		{name: "bad request is terminal", statusCode: 400, isTerminal: true},
		{name: "unauthorized is terminal", statusCode: 401, isTerminal: true},
		{name: "validation error is terminal", statusCode: 422, isTerminal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Code: "err", Message: "boom"})
			}))
			defer server.Close()

			client := NewClient(server.URL)

			err := client.Put(context.Background(), "orders", "order-1", &api.Document{ID: "order-1"})
			require.Error(t, err)
			assert.Equal(t, tt.isTransient, IsTransient(err))
			assert.Equal(t, tt.isTerminal, IsTerminal(err))
		})
	}
}

func TestNetworkErrorIsTransient(t *testing.T) {
	// Сервер, который уже закрыт: любое обращение даст сетевую ошибку
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.False(t, IsTerminal(err))
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetTokenFunc(func(ctx context.Context) (string, error) {
		return "secret-token", nil
	})

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestAuthorizationHeader_EmptyTokenOmitted(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetTokenFunc(func(ctx context.Context) (string, error) {
		return "", nil
	})

	require.NoError(t, client.Ping(context.Background()))
	assert.Empty(t, gotAuth)
}

func TestPut_SendsDocumentBody(t *testing.T) {
	var got api.Document
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	doc := &api.Document{ID: "order-1", Status: "new", Payload: json.RawMessage(`{"v":1}`)}
	require.NoError(t, client.Put(context.Background(), "orders", "order-1", doc))
	assert.Equal(t, "order-1", got.ID)
	assert.JSONEq(t, `{"v":1}`, string(got.Payload))
}

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/orders/documents", r.URL.Path)
		assert.Equal(t, "status", r.URL.Query().Get("field"))
		assert.Equal(t, "new", r.URL.Query().Get("value"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Documents: []api.Document{{ID: "a"}, {ID: "b"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	docs, err := client.Query(context.Background(), "orders", api.Query{Field: "status", Value: "new"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
}

func TestQuery_NoPredicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.QueryResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	docs, err := client.Query(context.Background(), "orders", api.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mechanic", req.Username)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.TokenResponse{
			AccessToken: "token-123",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Login(context.Background(), api.LoginRequest{Username: "mechanic", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "token-123", resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}
