package analysisclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"research-chat/cmd/api/httpclient"
)

const serviceName = "analysis-service"

type Client struct {
	base *httpclient.BaseClient
}

type AnalyzeRequest struct {
	Query    string `json:"query"`
	Template string `json:"template,omitempty"`
}

type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

type SampleCaseResponse struct {
	Case string `json:"case"`
}

type HTTPError = httpclient.HTTPError

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://analysis_service:8000"
	}
	// 분석은 LLM 호출이라 오래 걸릴 수 있다.
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return NewWithHTTPClient(httpclient.New(timeout), baseURL)
}

func NewWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClient(serviceName, baseURL, httpClient)}
}

// Analyze requests an analysis of query. templateContent is omitted from the
// request when empty.
func (c *Client) Analyze(ctx context.Context, query, templateContent string) (string, error) {
	var out AnalyzeResponse
	if err := c.base.PostJSON(ctx, "/api/v1/analysis", AnalyzeRequest{Query: query, Template: templateContent}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Analysis) == "" {
		return "", fmt.Errorf("%s returned an empty analysis", serviceName)
	}
	return out.Analysis, nil
}

// GenerateSampleCase asks for a sample clinical case to prefill the input.
func (c *Client) GenerateSampleCase(ctx context.Context) (string, error) {
	var out SampleCaseResponse
	if err := c.base.PostJSON(ctx, "/api/v1/sample-case", struct{}{}, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Case) == "" {
		return "", fmt.Errorf("%s returned an empty sample case", serviceName)
	}
	return out.Case, nil
}
