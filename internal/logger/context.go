package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const chatIDKey ctxKey = "chat_id"

func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

func ChatIDFrom(ctx context.Context) int64 {
	if v := ctx.Value(chatIDKey); v != nil {
		return v.(int64)
	}
	return 0
}

// FromCtx returns logger with chat_id automatically added
func FromCtx(ctx context.Context) *zap.Logger {
	chatID := ChatIDFrom(ctx)
	if chatID == 0 {
		return L()
	}
	return L().With(zap.Int64("chat_id", chatID))
}
