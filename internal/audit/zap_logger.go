package audit

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger writes audit entries to the application log. It backs the
// in-memory ledger, where no audit table exists.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger constructs a log-backed audit logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger.Named("audit")}
}

// Log writes an audit entry.
func (l *ZapLogger) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	entry = complete(entry)
	l.logger.Info(entry.Action,
		zap.String("id", entry.ID),
		zap.String("actor", entry.Actor),
		zap.String("username", entry.Username),
		zap.String("role", entry.Role),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID),
		zap.ByteString("metadata", entry.Metadata),
		zap.String("payload_digest", entry.PayloadDigest),
		zap.String("ip", entry.IP),
		zap.Time("created_at", entry.CreatedAt),
	)
	return nil
}
