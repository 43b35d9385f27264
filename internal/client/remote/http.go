package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/models"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20
)

// HTTPClient talks to the fintrack backend over REST. It is safe for
// concurrent use; the token set by SetToken is shared by all calls.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the backend at baseURL
// (e.g. "http://localhost:8000").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one request/response round trip: marshals body (if any),
// sends the bearer token, decodes the envelope, maps error statuses to
// sentinels, and unmarshals the data field into out (if given).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.getToken(); token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	var env envelope
	// A non-JSON body on an error status should not mask the status itself.
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		return mapStatus(resp.StatusCode, env)
	}

	if out != nil {
		if err := decodeData(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string, dateOfBirth time.Time) error {
	req := registerRequest{
		Name:        name,
		Email:       email,
		Password:    password,
		DateOfBirth: dateOfBirth.Format(models.DateLayout),
	}
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var data loginData
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &data)
	if err != nil {
		return nil, err
	}

	c.SetToken(data.Token)

	return &Session{
		Token:     data.Token,
		UserID:    data.User.ID,
		Name:      data.User.Name,
		Email:     data.User.Email,
		ExpiresIn: data.ExpiresIn,
	}, nil
}

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var list []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, p models.TransactionPayload) (int64, error) {
	var data idData
	if err := c.do(ctx, http.MethodPost, "/transactions", p, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

func (c *HTTPClient) UpdateTransaction(ctx context.Context, id int64, p models.TransactionPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), p, nil)
}

func (c *HTTPClient) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil)
}

func (c *HTTPClient) ListGoals(ctx context.Context) ([]Goal, error) {
	var list []Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateGoal(ctx context.Context, p models.GoalPayload) (int64, error) {
	var data idData
	if err := c.do(ctx, http.MethodPost, "/goals", p, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

func (c *HTTPClient) UpdateGoal(ctx context.Context, id int64, p models.GoalPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/goals/%d", id), p, nil)
}

func (c *HTTPClient) DeleteGoal(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/goals/%d", id), nil, nil)
}

var _ API = (*HTTPClient)(nil)
