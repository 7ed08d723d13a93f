package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external face-authentication engine.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Result is the outcome of one upstream call. Body is the raw JSON returned
// by the engine; it is passed through untouched.
type Result struct {
	StatusCode int
	Body       []byte
}

// NewClient builds an engine client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Authenticate posts the image as a multipart body to the engine's
// /authenticate endpoint. A transport failure returns an error; a non-2xx
// response is returned as a Result so the caller can log the real status.
func (c *Client) Authenticate(ctx context.Context, filename string, image io.Reader) (*Result, error) {
	if c.BaseURL == "" {
		return nil, errors.New("inference engine base URL is not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/authenticate", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}

// OK reports whether the engine answered with a success status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
