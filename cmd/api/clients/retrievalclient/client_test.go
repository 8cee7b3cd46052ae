package retrievalclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-chat/cmd/api/httpclient"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantStatus int
		wantTitles []string
	}{
		{
			name:       "documents with opaque fields",
			status:     http.StatusOK,
			body:       `{"documents":[{"title":"MIBG therapy","summary":"Phase II","pmid":"123"}]}`,
			wantTitles: []string{"MIBG therapy"},
		},
		{
			name:       "missing documents is empty",
			status:     http.StatusOK,
			body:       `{}`,
			wantTitles: []string{},
		},
		{
			name:       "upstream error",
			status:     http.StatusBadGateway,
			body:       `upstream down`,
			wantErr:    true,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/v1/documents/search", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
				var req SearchRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				gotQuery = req.Query
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewWithHTTPClient(httpclient.New(0), srv.URL)
			docs, err := c.Search(context.Background(), "neuroblastoma")
			assert.Equal(t, "neuroblastoma", gotQuery)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantStatus != 0 {
					var httpErr *HTTPError
					require.True(t, errors.As(err, &httpErr))
					assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
				}
				return
			}
			require.NoError(t, err)
			titles := make([]string, 0, len(docs))
			for _, d := range docs {
				titles = append(titles, d.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestSearchKeepsOpaqueFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"documents":[{"title":"A","summary":"B","score":0.93}]}`))
	}))
	defer srv.Close()

	docs, err := NewWithHTTPClient(httpclient.New(0), srv.URL).Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `0.93`, string(docs[0].Extra["score"]))
}
