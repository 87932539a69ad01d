package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okonstantinov/wrench/pkg/api"
)

//go:generate moq -out remote_mock.go . RemoteStore

// RemoteStore is the consumed interface of the remote document store.
// Все вызовы могут завершиться ошибкой сети или сервиса; различить их
// можно только по типу ошибки (см. errors.go).
type RemoteStore interface {
	// Get retrieves a document by ID
	// Returns ErrNotFound if the document doesn't exist
	Get(ctx context.Context, collection, id string) (*api.Document, error)

	// Put inserts or fully overwrites a document
	Put(ctx context.Context, collection, id string, doc *api.Document) error

	// Update applies a partial patch to an existing document
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete removes a document
	Delete(ctx context.Context, collection, id string) error

	// Query returns documents matching the predicate
	Query(ctx context.Context, collection string, q api.Query) ([]api.Document, error)

	// Ping checks service reachability; used as the raw connectivity probe
	Ping(ctx context.Context) error
}

// Client представляет HTTP клиент удаленного хранилища документов.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokenFn    func(ctx context.Context) (string, error)
}

// NewClient создает новый API клиент.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetTokenFunc устанавливает источник bearer-токена для запросов.
func (c *Client) SetTokenFunc(fn func(ctx context.Context) (string, error)) {
	c.tokenFn = fn
}

// Get retrieves a document by ID
func (c *Client) Get(ctx context.Context, collection, id string) (*api.Document, error) {
	var doc api.Document
	path := fmt.Sprintf("/api/v1/collections/%s/documents/%s", url.PathEscape(collection), url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put inserts or fully overwrites a document
func (c *Client) Put(ctx context.Context, collection, id string, doc *api.Document) error {
	path := fmt.Sprintf("/api/v1/collections/%s/documents/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.doRequest(ctx, http.MethodPut, path, doc, nil)
}

// Update applies a partial patch to an existing document
func (c *Client) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	path := fmt.Sprintf("/api/v1/collections/%s/documents/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.doRequest(ctx, http.MethodPatch, path, partial, nil)
}

// Delete removes a document
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/v1/collections/%s/documents/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Query returns documents matching the predicate.
// Пустой q.Field означает выборку всей коллекции.
func (c *Client) Query(ctx context.Context, collection string, q api.Query) ([]api.Document, error) {
	path := fmt.Sprintf("/api/v1/collections/%s/documents", url.PathEscape(collection))
	if q.Field != "" {
		path += "?" + url.Values{"field": {q.Field}, "value": {q.Value}}.Encode()
	}

	var resp api.QueryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// Ping checks service reachability
func (c *Client) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

// Login выполняет аутентификацию клиента.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос и классифицирует ошибку ответа.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokenFn != nil {
		token, err := c.tokenFn(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевые ошибки и таймауты неотличимы от временной недоступности сервиса
		return &TransientError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// classifyStatus переводит HTTP статус в ошибку из таксономии движка.
func classifyStatus(statusCode int, body []byte) error {
	var errResp api.ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch {
	case statusCode == http.StatusNotFound:
		return ErrNotFound
	case statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusTooManyRequests,
		statusCode >= 500:
		return &TransientError{Err: fmt.Errorf("server error (%d): %s", statusCode, errResp.Message)}
	default:
		return &TerminalError{
			StatusCode: statusCode,
			Code:       errResp.Code,
			Message:    errResp.Message,
		}
	}
}
