package calendar

import (
	"go.uber.org/zap"
)

// NewLogListener returns a listener writing every change to logger
func NewLogListener(logger *zap.Logger) Listener {
	return func(ec ChangeEventContext) {
		fields := []zap.Field{
			zap.String("id", ec.ID.String()),
			zap.Stringer("event", ec.Event),
			zap.Int("dates", len(ec.Dates)),
		}
		if ec.Calendar != nil {
			fields = append(fields, zap.String("calendar", ec.Calendar.Name()))
		}
		if len(ec.Dates) == 1 {
			fields = append(fields, zap.Stringer("date", ec.Dates[0]))
		}
		msg := "Calendar changed"
		if ec.HasMessage() {
			msg = ec.Message
		}
		logger.Debug(msg, fields...)
	}
}
