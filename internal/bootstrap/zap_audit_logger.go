package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ZapAuditLogger writes audit entries through the global zap logger under the
// "audit" name, so they land in the same sink as request logs.
type ZapAuditLogger struct {
	log *zap.Logger
}

func NewZapAuditLogger() *ZapAuditLogger {
	return &ZapAuditLogger{log: zap.L().Named("audit")}
}

func (l *ZapAuditLogger) Log(_ context.Context, entry AuditLog) {
	l.log.Info(entry.Action,
		zap.Time("at", time.Now().UTC()),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
