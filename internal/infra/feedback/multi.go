package feedback

import (
	"context"

	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

// Multi fans one outcome out to every sink in order.
type Multi []analysis.OutcomeSink

func (m Multi) Record(ctx context.Context, o analysis.Outcome) {
	for _, s := range m {
		s.Record(ctx, o)
	}
}

// LogSink writes outcomes at debug level.
type LogSink struct {
	Log logger.Logger
}

func (l LogSink) Record(_ context.Context, o analysis.Outcome) {
	fields := []logger.Field{
		logger.String("operation", o.Operation),
		logger.Bool("success", o.Success),
		logger.Duration("duration", o.Duration),
	}
	if o.BatchID != "" {
		fields = append(fields, logger.String("batch_id", o.BatchID), logger.String("item_id", o.ItemID))
	}
	if o.Verdict != "" {
		fields = append(fields, logger.String("verdict", string(o.Verdict)))
	}
	if !o.Success {
		fields = append(fields, logger.String("error_kind", o.ErrorKind), logger.String("message", o.Message))
	}
	l.Log.Debug("outcome", fields...)
}
