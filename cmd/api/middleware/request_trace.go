package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"research-chat/cmd/api/trace"
	"research-chat/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
)

// RequestTrace는 inbound 요청마다 Request ID 를 보장하고 (없으면 생성),
// 응답 헤더에 되돌려준 뒤 요청이 끝나면 한 줄로 로깅한다.
// outbound 호출은 같은 Request ID 에 span 1,2,3,... 을 붙인다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := trace.WithRequest(c.Request.Context(), c.GetHeader(headerRequestID))
		c.Request = c.Request.WithContext(ctx)
		requestID := trace.RequestIDFromContext(ctx)

		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, trace.CurrentSpanID(ctx))

		body := peekBody(c.Request)

		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(ctx),
		}
		if q := c.Request.URL.Query(); len(q) > 0 {
			fields["query_params"] = map[string][]string(q)
		}
		if userID := trace.UserIDFromContext(ctx); userID != "" {
			fields["user_id"] = userID
		}
		if body != "" {
			fields["body"] = body
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.WarnWithFields("completed request", fields)
			return
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// peekBody returns up to maxBodyLog bytes of a write request's body and
// restores the body for the handler.
func peekBody(req *http.Request) string {
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxBodyLog {
		raw = raw[:maxBodyLog]
	}
	return string(raw)
}
