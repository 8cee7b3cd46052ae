package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/middleware"
	apisvc "research-chat/cmd/api/services"
	"research-chat/models"
	"research-chat/repositories"
	"research-chat/services"
	"research-chat/transcript"
)

type stubRetriever struct {
	docs []models.Document
	err  error
}

func (s *stubRetriever) Search(ctx context.Context, query string) ([]models.Document, error) {
	return s.docs, s.err
}

type stubAnalyzer struct {
	gotTemplate string
	err         error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, query, templateContent string) (string, error) {
	s.gotTemplate = templateContent
	if s.err != nil {
		return "", s.err
	}
	return "analysis of " + query, nil
}

func (s *stubAnalyzer) GenerateSampleCase(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "A 3-year-old with an abdominal mass.", nil
}

type testServer struct {
	engine    *gin.Engine
	retriever *stubRetriever
	analyzer  *stubAnalyzer
	store     *repositories.MemoryStore
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	ts := &testServer{
		retriever: &stubRetriever{docs: []models.Document{{Title: "MIBG therapy", Summary: "Phase II"}}},
		analyzer:  &stubAnalyzer{},
		store:     repositories.NewMemoryStore(),
	}
	registry := services.NewRegistry(services.Dependencies{
		Sessions:    ts.store,
		Retriever:   ts.retriever,
		Analyzer:    ts.analyzer,
		SampleCases: ts.analyzer,
		Recorder:    ts.store,
	})
	tmpl := services.NewTemplateService(ts.store)
	chat := apisvc.NewChatService(registry, tmpl)
	templates := apisvc.NewTemplateService(tmpl)

	r := gin.New()
	r.GET("/health", HealthHandler(nil))
	api := r.Group("/api/v1", middleware.RequireUser(nil))
	api.GET("/chat/state", ChatStateHandler(chat))
	api.GET("/chat/stream", ChatStreamHandler(chat))
	api.POST("/chat/messages", SubmitMessageHandler(chat))
	api.POST("/chat/select", SelectSessionHandler(chat))
	api.POST("/chat/sample-case", SampleCaseHandler(chat))
	api.GET("/sessions", ListSessionsHandler(chat))
	api.POST("/sessions", CreateSessionHandler(chat))
	api.PATCH("/sessions/:id", RenameSessionHandler(chat))
	api.DELETE("/sessions/:id", DeleteSessionHandler(chat))
	api.GET("/templates", ListTemplatesHandler(templates))
	api.POST("/templates", CreateTemplateHandler(templates))
	api.PUT("/templates/:id", UpdateTemplateHandler(templates))
	api.DELETE("/templates/:id", DeleteTemplateHandler(templates))
	ts.engine = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthWithoutStorage(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthHandler(failingPinger{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}

func TestRequiresUser(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodGet, "/api/v1/chat/state", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"missing_user_id"}`, w.Body.String())
}

func TestInitialStateShowsWelcome(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodGet, "/api/v1/chat/state", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	state := decode[dto.ChatStateDTO](t, w)
	assert.Empty(t, state.SessionID)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, models.WelcomeText, state.Messages[0].Text)
	assert.False(t, state.LoadingDocuments)
	assert.False(t, state.LoadingAnalysis)
}

func TestSubmitCreatesSessionAndProjects(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodPost, "/api/v1/chat/messages", "u1", `{"message":"neuroblastoma"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.SubmitMessageResponseDTO](t, w)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, string(services.OutcomeCompleted), resp.Outcome)

	texts := make([]string, 0, len(resp.State.Messages))
	for _, m := range resp.State.Messages {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{models.WelcomeText, "neuroblastoma", transcript.DocumentsText, transcript.AnalysisText}, texts)
	require.Len(t, resp.State.Messages[2].Documents, 1)
	assert.Equal(t, "MIBG therapy", resp.State.Messages[2].Documents[0]["title"])
	assert.Equal(t, "analysis of neuroblastoma", resp.State.Messages[3].Analysis)

	calls := ts.store.CallLogs(resp.SessionID)
	require.Len(t, calls, 2)
	assert.Equal(t, models.CallStageRetrieval, calls[0].Stage)
	assert.Equal(t, models.CallStageAnalysis, calls[1].Stage)
	assert.True(t, calls[1].Success)

	list := decode[dto.ListSessionsResponseDTO](t, ts.do(t, http.MethodGet, "/api/v1/sessions", "u1", ""))
	require.Len(t, list.Items, 1)
	assert.Equal(t, resp.SessionID, list.Items[0].ID)

	// 다른 사용자에게는 보이지 않는다.
	other := decode[dto.ListSessionsResponseDTO](t, ts.do(t, http.MethodGet, "/api/v1/sessions", "u2", ""))
	assert.Empty(t, other.Items)
}

func TestSubmitRetrievalFailureIsTranscriptEntry(t *testing.T) {
	ts := newTestServer()
	ts.retriever.err = errors.New("boom")

	w := ts.do(t, http.MethodPost, "/api/v1/chat/messages", "u1", `{"message":"q"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[dto.SubmitMessageResponseDTO](t, w)
	assert.Equal(t, string(services.OutcomeRetrievalFailed), resp.Outcome)
	last := resp.State.Messages[len(resp.State.Messages)-1]
	assert.Equal(t, services.RetrievalErrorText, last.Text)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestSubmitValidation(t *testing.T) {
	ts := newTestServer()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing message", `{}`, http.StatusBadRequest, "invalid_request"},
		{"blank message", `{"message":"   "}`, http.StatusBadRequest, "blank_message"},
		{"unknown template", `{"message":"q","template_name":"nope"}`, http.StatusNotFound, "template_not_found"},
		{"malformed json", `{`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/chat/messages", "u1", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decode[dto.ErrorResponseDTO](t, w).Error)
		})
	}

	// 거절된 요청은 세션을 만들지 않는다.
	list := decode[dto.ListSessionsResponseDTO](t, ts.do(t, http.MethodGet, "/api/v1/sessions", "u1", ""))
	assert.Empty(t, list.Items)
}

func TestSubmitWithTemplateByName(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodPost, "/api/v1/templates", "u1", `{"name":"Pediatric","content":"Focus on children"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/chat/messages", "u1", `{"message":"q","template_name":"pediatric"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Focus on children", ts.analyzer.gotTemplate)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodPost, "/api/v1/sessions", "u1", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[dto.CreateSessionResponseDTO](t, w).ID
	require.NotEmpty(t, id)

	w = ts.do(t, http.MethodPatch, "/api/v1/sessions/"+id, "u1", `{"title":"  Review  "}`)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[dto.ListSessionsResponseDTO](t, ts.do(t, http.MethodGet, "/api/v1/sessions", "u1", ""))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Review", list.Items[0].Title)
	assert.Equal(t, "Review", list.Items[0].DisplayTitle)

	w = ts.do(t, http.MethodPatch, "/api/v1/sessions/"+id, "u1", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "blank_title", decode[dto.ErrorResponseDTO](t, w).Error)

	w = ts.do(t, http.MethodPost, "/api/v1/chat/select", "u1", `{"session_id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	sel := decode[dto.SelectSessionResponseDTO](t, w)
	assert.Equal(t, id, sel.SessionID)
	assert.Equal(t, id, sel.State.SessionID)

	w = ts.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	state := decode[dto.ChatStateDTO](t, ts.do(t, http.MethodGet, "/api/v1/chat/state", "u1", ""))
	assert.Empty(t, state.SessionID)

	w = ts.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "u1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", decode[dto.ErrorResponseDTO](t, w).Error)
}

func TestSelectNullStartsNewSession(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodPost, "/api/v1/chat/select", "u1", `{"session_id":null}`)
	require.Equal(t, http.StatusOK, w.Code)

	sel := decode[dto.SelectSessionResponseDTO](t, w)
	assert.NotEmpty(t, sel.SessionID)
	require.Len(t, sel.State.Messages, 1)
	assert.Equal(t, models.WelcomeText, sel.State.Messages[0].Text)

	w = ts.do(t, http.MethodPost, "/api/v1/chat/select", "u1", `{"session_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplateCRUD(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodPost, "/api/v1/templates", "u1", `{"name":"PICO","content":"Population, Intervention"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.TemplateDTO](t, w)

	w = ts.do(t, http.MethodPost, "/api/v1/templates", "u1", `{"name":"pico","content":"dup"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_template", decode[dto.ErrorResponseDTO](t, w).Error)

	w = ts.do(t, http.MethodPost, "/api/v1/templates", "u1", `{"name":"x","content":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_template", decode[dto.ErrorResponseDTO](t, w).Error)

	w = ts.do(t, http.MethodPut, "/api/v1/templates/"+created.ID, "u1", `{"name":"PICO","content":"updated"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", decode[dto.TemplateDTO](t, w).Content)

	list := decode[dto.ListTemplatesResponseDTO](t, ts.do(t, http.MethodGet, "/api/v1/templates", "u1", ""))
	require.Len(t, list.Items, 1)

	w = ts.do(t, http.MethodDelete, "/api/v1/templates/"+created.ID, "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/v1/templates/"+created.ID, "u1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSampleCase(t *testing.T) {
	ts := newTestServer()
	w := ts.do(t, http.MethodPost, "/api/v1/chat/sample-case", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A 3-year-old with an abdominal mass.", decode[dto.SampleCaseResponseDTO](t, w).Case)

	ts.analyzer.err = errors.New("quota")
	w = ts.do(t, http.MethodPost, "/api/v1/chat/sample-case", "u1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "sample_case_unavailable", decode[dto.ErrorResponseDTO](t, w).Error)
}
