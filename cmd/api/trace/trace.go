// Package trace carries a per-request id and a span counter through context.
package trace

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey struct{}

// Span 은 한 inbound 요청의 추적 정보다. seq 는 이벤트 발행 같은 후속 작업마다 1 씩 증가한다.
type Span struct {
	RequestID string
	seq       atomic.Int64
}

// NewRequestID returns a dash-less uuid v4.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Start attaches a fresh span (seq 0) for requestID to ctx.
func Start(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = NewRequestID()
	}
	return context.WithValue(ctx, ctxKey{}, &Span{RequestID: requestID})
}

func spanFrom(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxKey{}).(*Span)
	return s
}

// RequestID 는 없으면 빈 문자열이다.
func RequestID(ctx context.Context) string {
	if s := spanFrom(ctx); s != nil {
		return s.RequestID
	}
	return ""
}

// Current returns the current span sequence without advancing it.
func Current(ctx context.Context) string {
	s := spanFrom(ctx)
	if s == nil {
		return "0"
	}
	return strconv.FormatInt(s.seq.Load(), 10)
}

// Next advances the span sequence and returns (requestID, spanID).
// 미들웨어 밖에서 호출되면 새 request id 와 span 1 을 돌려준다.
func Next(ctx context.Context) (string, string) {
	s := spanFrom(ctx)
	if s == nil {
		return NewRequestID(), "1"
	}
	return s.RequestID, strconv.FormatInt(s.seq.Add(1), 10)
}
