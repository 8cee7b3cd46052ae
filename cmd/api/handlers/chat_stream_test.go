package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/middleware"
	"research-chat/models"
)

// readState reads SSE lines until one "state" event has been parsed.
func readState(t *testing.T, r *bufio.Reader) dto.ChatStateDTO {
	t.Helper()
	var event string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:") && event == "state":
			var s dto.ChatStateDTO
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &s))
			return s
		}
	}
}

func TestChatStreamSendsSnapshots(t *testing.T) {
	ts := newTestServer()
	srv := httptest.NewServer(ts.engine)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/chat/stream", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.HeaderUserID, "u1")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	r := bufio.NewReader(resp.Body)
	first := readState(t, r)
	assert.Empty(t, first.SessionID)
	require.Len(t, first.Messages, 1)
	assert.Equal(t, models.WelcomeText, first.Messages[0].Text)

	// 다른 요청으로 세션을 시작하면 스트림에 새 스냅샷이 나온다.
	w := ts.do(t, http.MethodPost, "/api/v1/chat/select", "u1", `{"session_id":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	selected := decode[dto.SelectSessionResponseDTO](t, w)

	next := readState(t, r)
	assert.Equal(t, selected.SessionID, next.SessionID)
}
