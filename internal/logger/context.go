package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sellerIDKey  ctxKey = "seller_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func WithSellerID(ctx context.Context, sellerID uint) context.Context {
	return context.WithValue(ctx, sellerIDKey, sellerID)
}

func SellerIDFrom(ctx context.Context) (uint, bool) {
	v, ok := ctx.Value(sellerIDKey).(uint)
	return v, ok
}

// FromCtx returns a logger with request_id and seller_id automatically added
// when they are present in the context.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if sellerID, ok := SellerIDFrom(ctx); ok {
		l = l.With(zap.Uint("seller_id", sellerID))
	}
	return l
}
