package retrievalclient

import (
	"context"
	"net/http"
	"time"

	"research-chat/cmd/api/httpclient"
	"research-chat/models"
)

const serviceName = "retrieval-service"

type Client struct {
	base *httpclient.BaseClient
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Documents []models.Document `json:"documents"`
}

// HTTPError is returned for non-200 responses.
type HTTPError = httpclient.HTTPError

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://retrieval_service:8000"
	}
	return NewWithHTTPClient(httpclient.New(timeout), baseURL)
}

// NewWithHTTPClient is used by tests to point the client at an httptest server.
func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClient(serviceName, baseURL, httpClient)}
}

// Search returns documents relevant to query. Document fields other than
// title and summary are passed through untouched.
func (c *Client) Search(ctx context.Context, query string) ([]models.Document, error) {
	var out SearchResponse
	if err := c.base.PostJSON(ctx, "/api/v1/documents/search", SearchRequest{Query: query}, &out); err != nil {
		return nil, err
	}
	if out.Documents == nil {
		out.Documents = []models.Document{}
	}
	return out.Documents, nil
}
