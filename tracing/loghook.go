package tracing

import (
	"go.uber.org/zap"

	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/sim"
)

// LogHook writes world events into a zap logger. Contact changes and transfer
// starts are logged at debug level. Deliveries and drops are logged at info
// level.
type LogHook struct {
	logger *zap.Logger
}

// NewLogHook creates a LogHook that writes into the logger.
func NewLogHook(logger *zap.Logger) *LogHook {
	return &LogHook{logger: logger}
}

// Func logs the hook context.
func (h *LogHook) Func(ctx sim.HookCtx) {
	now := zap.Float64("time", float64(ctx.Now))

	switch item := ctx.Item.(type) {
	case *dtn.Message:
		h.logMessage(ctx, item, now)
	case *dtn.Transfer:
		h.logger.Debug(ctx.Pos.Name,
			now,
			zap.String("msg", item.Msg.ID()),
			zap.String("from", item.From.Name()),
			zap.String("to", item.To.Name()),
		)
	case *dtn.Connection:
		a, b := item.Nodes()
		h.logger.Debug(ctx.Pos.Name,
			now,
			zap.String("a", a.Name()),
			zap.String("b", b.Name()),
		)
	}
}

func (h *LogHook) logMessage(ctx sim.HookCtx, msg *dtn.Message, now zap.Field) {
	fields := []zap.Field{
		now,
		zap.String("msg", msg.ID()),
		zap.String("src", msg.Source()),
		zap.String("dst", msg.Destination()),
	}

	switch ctx.Pos {
	case dtn.HookPosMessageDelivered:
		fields = append(fields,
			zap.Int("hops", msg.Hops()),
			zap.Float64("latency", float64(ctx.Now-msg.CreatedAt())),
		)
		h.logger.Info(ctx.Pos.Name, fields...)
	case dtn.HookPosMessageDropped:
		if reason, ok := ctx.Detail.(dtn.DropReason); ok {
			fields = append(fields, zap.String("reason", string(reason)))
		}
		h.logger.Info(ctx.Pos.Name, fields...)
	default:
		h.logger.Debug(ctx.Pos.Name, fields...)
	}
}
