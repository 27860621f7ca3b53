package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sends the key as a Bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client calls the supportqa HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat asks a support question.
func (c *Client) Chat(ctx context.Context, query string) (ChatResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", "application/json", bytes.NewReader(body), &resp); err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

// Documents lists every stored knowledge record.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, "/documents", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// DeleteDocuments removes records matching the filter. Empty values are ignored,
// and the server rejects a filter with neither set.
func (c *Client) DeleteDocuments(ctx context.Context, chunkType, parentID string) (int, error) {
	q := url.Values{}
	if chunkType != "" {
		q.Set("chunk_type", chunkType)
	}
	if parentID != "" {
		q.Set("parent_id", parentID)
	}

	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, "/documents?"+q.Encode(), "", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// UploadKnowledge replaces the knowledge base with the CSV read from r.
func (c *Client) UploadKnowledge(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return UploadResult{}, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close multipart: %w", err)
	}

	var resp UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload-knowledge", mw.FormDataContentType(), &buf, &resp); err != nil {
		return UploadResult{}, err
	}
	return resp, nil
}

// Health returns the server health. A degraded or failing server answers 503 with
// the same body, so the status is returned alongside the APIError.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return hs, &APIError{StatusCode: resp.StatusCode, Code: hs.Status, Message: "service not healthy"}
	}
	return hs, nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path, contentType string, body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
