package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/seocrawl"
)

// DefaultExtractTimeout bounds a single call to the extraction service.
const DefaultExtractTimeout = 30 * time.Second

// Ensure ExtractorClient implements seocrawl.ContentExtractor at compile time.
var _ seocrawl.ContentExtractor = (*ExtractorClient)(nil)

// ExtractorClient calls a remote content extraction service that scrapes a
// page on the caller's behalf.
type ExtractorClient struct {
	endpoint string
	client   *http.Client
}

// NewExtractorClient creates a client for the service at endpoint.
// If client is nil, a client with DefaultExtractTimeout is used.
func NewExtractorClient(endpoint string, client *http.Client) *ExtractorClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultExtractTimeout}
	}
	return &ExtractorClient{endpoint: endpoint, client: client}
}

type extractRequest struct {
	PageURL string `json:"pageUrl"`
}

type extractResponse struct {
	Success bool                    `json:"success"`
	Data    *seocrawl.ExtractedPage `json:"data"`
	Error   string                  `json:"error"`
}

// ExtractPage asks the service to fetch and extract pageURL.
// Any non-2xx response or unsuccessful payload is an error.
func (c *ExtractorClient) ExtractPage(ctx context.Context, pageURL string) (*seocrawl.ExtractedPage, error) {
	body, err := json.Marshal(extractRequest{PageURL: pageURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("extractor HTTP %d for %s: %s", resp.StatusCode, pageURL, bytes.TrimSpace(msg))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding extractor response: %w", err)
	}
	if !out.Success || out.Data == nil {
		if out.Error != "" {
			return nil, fmt.Errorf("extractor failed for %s: %s", pageURL, out.Error)
		}
		return nil, errors.New("extractor returned no data for " + pageURL)
	}

	return out.Data, nil
}
