package notify

import (
	"context"

	"go.uber.org/zap"
)

var _ Emitter = (*ZapEmitter)(nil)

// ZapEmitter writes records to the application log. It is the default sink
// when no message broker is configured.
type ZapEmitter struct {
	lg *zap.Logger
}

// NewZapEmitter returns an emitter logging through lg.
func NewZapEmitter(lg *zap.Logger) *ZapEmitter {
	return &ZapEmitter{lg: lg}
}

func (z *ZapEmitter) Emit(_ context.Context, rec Record) {
	z.lg.Info("record emitted",
		zap.String("record_id", rec.ID),
		zap.String("type", string(rec.Type)),
		zap.ByteString("payload", rec.JSON()),
	)
}
