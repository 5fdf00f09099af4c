// Package report turns finished document models into paginated printable
// output. The renderer is a pure consumer: it receives an immutable document
// and company profile and never reaches back into the counter store or
// recomputes totals.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// A4 page geometry in inches, matching the layout the printable template
// is designed for.
const (
	paperWidth  = "8.27"
	paperHeight = "11.69"
	pageMargin  = "0.4"
)

// Client renders printable HTML into PDF through a Gotenberg instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a renderer client against the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks whether the remote renderer is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("report: ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("report: ping: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("report: renderer returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML converts the printable HTML into A4 PDF bytes. The chromium
// conversion route requires the main file to be named index.html.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("report: build form: %w", err)
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, fmt.Errorf("report: build form: %w", err)
	}
	for field, value := range map[string]string{
		"paperWidth":   paperWidth,
		"paperHeight":  paperHeight,
		"marginTop":    pageMargin,
		"marginBottom": pageMargin,
		"marginLeft":   pageMargin,
		"marginRight":  pageMargin,
	} {
		if err := writer.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("report: build form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("report: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, fmt.Errorf("report: render request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("report: render failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("report: read pdf: %w", err)
	}
	return pdf, nil
}
