// Package trace carries per-request correlation ids (request id, span sequence, user id)
// from the inbound middleware to outbound collaborator calls and log lines.
package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Info는 inbound 요청 하나의 트레이싱 정보이다.
// span 은 0 (inbound) 에서 시작해 outbound 호출마다 1씩 증가한다.
type Info struct {
	RequestID string
	UserID    string
	span      atomic.Int64
}

// GenerateID returns a dash-less random id.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithRequest stores a fresh Info for requestID. An empty requestID gets a generated one.
func WithRequest(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateID()
	}
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID})
}

// SetUser records the authenticated user on the request's Info, if any.
func SetUser(ctx context.Context, userID string) {
	if info := fromContext(ctx); info != nil {
		info.UserID = userID
	}
}

func fromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(ctxKey{}).(*Info)
	return info
}

func RequestIDFromContext(ctx context.Context) string {
	if info := fromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	if info := fromContext(ctx); info != nil {
		return info.UserID
	}
	return ""
}

// CurrentSpanID returns the last issued span without advancing it.
func CurrentSpanID(ctx context.Context) string {
	info := fromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(info.span.Load(), 10)
}

// NextSpanID advances the span for an outbound call. Outside a traced request
// it returns a new request id with span 1.
func NextSpanID(ctx context.Context) (requestID, spanID string) {
	info := fromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(info.span.Add(1), 10)
}
