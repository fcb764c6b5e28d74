// Package client is a Go SDK for the cinephile API. Client maps one method to
// one endpoint; Store keeps the signed-in user's state in sync after
// mutations; Debouncer spaces out search-as-you-type calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const AuthorizationHeader = "Authorization"

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// Client calls the API over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for baseURL, e.g. "http://localhost:8080".
// If httpClient is nil, http.DefaultClient will be used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken sets the bearer token sent with every request, "" to clear it
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Auth, error) {
	var out Auth
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*Auth, error) {
	var out Auth
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMovies returns an empty list, not an error, when the server has nothing
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/movies/search?query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode}
	}

	var out searchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	if out.Search == nil {
		out.Search = []Movie{}
	}
	return out.Search, nil
}

func (c *Client) GetMovie(ctx context.Context, id string) (*MovieDetail, error) {
	var out MovieDetail
	if err := c.call(ctx, http.MethodGet, "/api/movies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FeaturedMovies(ctx context.Context) (*Featured, error) {
	var out Featured
	if err := c.call(ctx, http.MethodGet, "/api/movies/top", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyReviews(ctx context.Context) ([]Review, error) {
	var out []Review
	err := c.call(ctx, http.MethodGet, "/api/reviews", nil, &out)
	return out, err
}

func (c *Client) MovieReviews(ctx context.Context, movieID string) ([]Review, error) {
	var out []Review
	err := c.call(ctx, http.MethodGet, "/api/reviews/movie/"+url.PathEscape(movieID), nil, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	var out Review
	if err := c.call(ctx, http.MethodPost, "/api/reviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, req UpdateReviewRequest) (*Review, error) {
	var out Review
	if err := c.call(ctx, http.MethodPut, "/api/reviews/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/reviews/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Discussion(ctx context.Context, movieID string) ([]DiscussionItem, error) {
	var out []DiscussionItem
	err := c.call(ctx, http.MethodGet, "/api/discussions/"+url.PathEscape(movieID), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, movieID, content string) (*Comment, error) {
	var out Comment
	body := commentRequest{Content: content}
	if err := c.call(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(movieID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Bookmarks(ctx context.Context) ([]string, error) {
	var out bookmarks
	if err := c.call(ctx, http.MethodGet, "/api/users/bookmarks", nil, &out); err != nil {
		return nil, err
	}
	return out.SavedMovies, nil
}

func (c *Client) AddBookmark(ctx context.Context, movieID string) ([]string, error) {
	var out bookmarks
	if err := c.call(ctx, http.MethodPost, "/api/users/bookmarks", bookmarkRequest{MovieID: movieID}, &out); err != nil {
		return nil, err
	}
	return out.SavedMovies, nil
}

func (c *Client) RemoveBookmark(ctx context.Context, movieID string) ([]string, error) {
	var out bookmarks
	if err := c.call(ctx, http.MethodDelete, "/api/users/bookmarks/"+url.PathEscape(movieID), nil, &out); err != nil {
		return nil, err
	}
	return out.SavedMovies, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
	}
	return req, nil
}

// call performs one enveloped request and decodes data into out when non-nil
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if len(env.Errors) > 0 {
			_ = json.Unmarshal(env.Errors, &apiErr.Fields)
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return nil
}
