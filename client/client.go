// Package client is a small Go client for the search service REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/searchrail/searchrail/internal/model"
)

// APIError carries the HTTP status and server message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to one search service instance with one API key.
type Client struct {
	http *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New creates a Client for the given base URL and API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(30 * time.Second)

	c := &Client{http: rc}
	for _, o := range opts {
		o(c)
	}
	return c
}

type errorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func apiErr(resp *resty.Response) error {
	var body errorBody
	msg := resp.String()
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

// CreateUser registers a new owner.
func (c *Client) CreateUser(ctx context.Context, userID, email string, displayName *string) (*model.User, error) {
	payload := map[string]interface{}{"userId": userID, "email": email}
	if displayName != nil {
		payload["displayName"] = *displayName
	}
	var out model.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post("/api/users")
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// GetUser fetches an owner by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var out model.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/users/" + userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// CreateSearch appends a saved search at the end of the owner's list.
func (c *Client) CreateSearch(ctx context.Context, ownerID, name, query string) (*model.SavedSearch, error) {
	var out model.SavedSearch
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "query": query}).
		SetResult(&out).
		Post("/api/users/" + ownerID + "/searches")
	if err != nil {
		return nil, fmt.Errorf("create search: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// ListSearches returns the owner's saved searches in position order.
func (c *Client) ListSearches(ctx context.Context, ownerID string) ([]*model.SavedSearch, error) {
	var out struct {
		Searches []*model.SavedSearch `json:"searches"`
		Count    int                  `json:"count"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/users/" + ownerID + "/searches")
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiErr(resp)
	}
	return out.Searches, nil
}

// GetSearch fetches one saved search.
func (c *Client) GetSearch(ctx context.Context, ownerID, searchID string) (*model.SavedSearch, error) {
	var out model.SavedSearch
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/users/" + ownerID + "/searches/" + searchID)
	if err != nil {
		return nil, fmt.Errorf("get search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// UpdateSearch applies a partial update. Nil fields are left unchanged.
func (c *Client) UpdateSearch(ctx context.Context, ownerID, searchID string, name, query *string, position *int) (*model.SavedSearch, error) {
	payload := map[string]interface{}{}
	if name != nil {
		payload["name"] = *name
	}
	if query != nil {
		payload["query"] = *query
	}
	if position != nil {
		payload["position"] = *position
	}
	var out model.SavedSearch
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Patch("/api/users/" + ownerID + "/searches/" + searchID)
	if err != nil {
		return nil, fmt.Errorf("update search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// MoveSearch repositions a saved search without touching its other fields.
func (c *Client) MoveSearch(ctx context.Context, ownerID, searchID string, position int) (*model.SavedSearch, error) {
	return c.UpdateSearch(ctx, ownerID, searchID, nil, nil, &position)
}

// DeleteSearch removes a saved search; the owner's remaining positions close up.
func (c *Client) DeleteSearch(ctx context.Context, ownerID, searchID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/api/users/" + ownerID + "/searches/" + searchID)
	if err != nil {
		return fmt.Errorf("delete search: %w", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		return apiErr(resp)
	}
	return nil
}
