package ports

import "context"

// Logger — контракт логгера для всех слоёв; поля из ctxmeta добавляет реализация.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any) // Debugf — подробности, скрытые в prod.
	Infof(ctx context.Context, format string, args ...any)  // Infof — информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf — предупреждения.
	Errorf(ctx context.Context, format string, args ...any) // Errorf — ошибки.
}
