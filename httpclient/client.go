package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/speakeralign/errors"
)

// Client talks to one sidecar. Every error it returns is an *errors.AppError.
type Client struct {
	httpClient *http.Client
	config     Config
	service    string
}

// New creates a client for the named service.
func New(service string, cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		service:    service,
	}, nil
}

// Ping issues GET path and succeeds on any 2xx answer.
func (c *Client) Ping(ctx context.Context, path string) error {
	return c.GetJSON(ctx, path, nil)
}

// GetJSON issues GET path and decodes the answer into out, unless out is nil.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// PostMultipart streams body to path and decodes the JSON answer into out.
// A file that cannot be opened yields AUDIO_UNREADABLE and sends nothing.
func (c *Client) PostMultipart(ctx context.Context, path string, body *MultipartBody, out any) error {
	files, err := body.open()
	if err != nil {
		return errors.AudioUnreadable(err)
	}
	reader, contentType := body.stream(files)

	req, err := c.newRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		_ = reader.Close()
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("build %s request: %w", c.service, err))
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return externalError(c.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return externalError(c.service, &StatusError{StatusCode: resp.StatusCode, Body: body})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return externalError(c.service, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
