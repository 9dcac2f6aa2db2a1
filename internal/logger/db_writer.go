package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-lms/internal/common/models"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level       zapcore.Level
	Message     string
	DashboardID string
	WidgetID    string
	Caller      string
}

// LogSink persists one log record. The mongo collection satisfies it in production.
type LogSink interface {
	InsertLog(ctx context.Context, rec common_models.ServiceLog) error
}

// LogWriter handles the async writing
type LogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	appId   string
	done    chan struct{}
	once    sync.Once
}

// NewLogWriter starts the background worker immediately
func NewLogWriter(sink LogSink, appId string, buffer int) *LogWriter {
	w := &LogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, buffer),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go w.processLogs()

	return w
}

// AddLog never blocks the caller
func (w *LogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("Log channel full, dropping:", entry.Message)
	}
}

// Close drains the buffered entries and stops the worker.
func (w *LogWriter) Close() {
	w.once.Do(func() {
		close(w.logChan)
		<-w.done
	})
}

func (w *LogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		rec := common_models.ServiceLog{
			AppID:       w.appId,
			Level:       entry.Level.String(),
			Message:     entry.Message,
			DashboardID: entry.DashboardID,
			WidgetID:    entry.WidgetID,
			Caller:      entry.Caller,
			CreatedAt:   time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// persistence failures must not take the service down
		_ = w.sink.InsertLog(ctx, rec)
		cancel()
	}
}
