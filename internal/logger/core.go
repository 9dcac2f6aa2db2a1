package logger

import (
	"go.uber.org/zap/zapcore"
)

// MongoCore is a zap Core that tees warn-and-above entries into the async log writer
type MongoCore struct {
	zapcore.Core
	writer *LogWriter
	fields []zapcore.Field
}

// NewMongoCore wraps an existing core (console/json) and adds persistence
func NewMongoCore(baseCore zapcore.Core, writer *LogWriter) zapcore.Core {
	return &MongoCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the tee when child loggers add fields
func (c *MongoCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &MongoCore{
		Core:   c.Core.With(fields),
		writer: c.writer,
		fields: merged,
	}
}

// Check decides if we should log this level
func (c *MongoCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write is called for every log entry
func (c *MongoCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= zapcore.WarnLevel {
		rec := LogEntry{
			Level:   entry.Level,
			Message: entry.Message,
			Caller:  entry.Caller.Function,
		}
		rec.pick(c.fields)
		rec.pick(fields)
		c.writer.AddLog(rec)
	}

	return c.Core.Write(entry, fields)
}

func (e *LogEntry) pick(fields []zapcore.Field) {
	for _, f := range fields {
		switch f.Key {
		case "dashboard_id":
			e.DashboardID = f.String
		case "widget_id":
			e.WidgetID = f.String
		}
	}
}
